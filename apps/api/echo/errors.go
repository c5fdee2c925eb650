package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "No active account found with the given credentials")
	errInvalidRefresh       = echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "Not found.")
	errNotTeacher           = echo.NewHTTPError(http.StatusForbidden, "Only instructors can manage courses.")
	errNotEnrolled          = echo.NewHTTPError(http.StatusForbidden, "You are not enrolled in this course.")
)

// storeError maps the store's sentinel errors to client errors.
func storeError(err error) error {
	switch errors.Cause(err) {
	case memdb.ErrNotFound:
		return errHttpNotFound
	case memdb.ErrEmailExists:
		return core.NewValidationError(nil, core.FieldError{Field: "email", Error: "user with this email already exists"})
	case memdb.ErrAlreadyReviewed:
		return core.NewValidationError(errors.New("You have already reviewed this course"))
	case memdb.ErrEmptyCart:
		return core.NewValidationError(errors.New("Your cart is empty"))
	}
	return err
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering errors the way the LMS does:
// {"detail": "..."} for plain errors and {"field": ["..."]} for validation errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(storeError(err)).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = errUnauthorized.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case *core.ValidationError:
			if len(origErr.Fields) > 0 {
				fldErrs := make(map[string][]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = append(fldErrs[fErr.Field], fErr.Error)
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			if ctx.Echo().Debug {
				message = err.Error()
			}

			logger.Error(msg, errors.Wrap(err, msg), contextIdentity(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"detail": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
