package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// accessTokenMiddleware refuses refresh tokens where an access token is expected.
func accessTokenMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if claims.Audience == refreshAudience || claims.UserID == 0 {
			return errUnauthorized
		}
		return next(ctx)
	}
}

// ownerMiddleware only lets users reach the resources under their own :user_id.
func ownerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		userID, err := paramInt(ctx, "user_id")
		if err != nil {
			return err
		}
		if err = checkUser(ctx, userID); err != nil {
			return err
		}
		return next(ctx)
	}
}

// teacherMiddleware only lets instructors through.
func teacherMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if claims.TeacherID == 0 {
			return errNotTeacher
		}
		return next(ctx)
	}
}

// checkUser fails unless userID, as sent by the client, is the authenticated user.
func checkUser(ctx echo.Context, userID int) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if userID != claims.UserID {
		return errHttpForbidden
	}
	return nil
}

// paramInt reads a numeric path parameter; malformed ones are not found.
func paramInt(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}
