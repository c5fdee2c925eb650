package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/auth"
	"github.com/trezcool/masomo-portal/core/profile"
	"github.com/trezcool/masomo-portal/storage/memdb"
)

type userApi struct {
	*Server
}

func (s *Server) registerUserAPI(g *echo.Group, authMw []echo.MiddlewareFunc) {
	api := userApi{s}

	ug := g.Group("/user")

	// un-authed endpoints
	ug.POST("/token", api.login)
	ug.POST("/token/refresh", api.refreshToken)
	ug.POST("/register", api.register)
	ug.GET("/password-reset/:email", api.resetPassword)
	ug.POST("/password-change", api.confirmPasswordReset)

	// authed endpoints
	ag := ug.Group("", authMw...)
	ag.POST("/change-password", api.changePassword)
	ag.GET("/profile/:user_id", api.profile, ownerMiddleware)
	ag.PATCH("/profile/:user_id", api.updateProfile, ownerMiddleware)
}

// Handlers

func (api userApi) login(ctx echo.Context) error {
	var data TokenRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}

	usr, err := api.authenticate(data.Email, data.Password)
	if err != nil {
		return err
	}
	access, refresh, err := api.issueTokens(usr)
	if err != nil {
		return errors.Wrap(err, "issuing tokens")
	}
	return ctx.JSON(http.StatusOK, auth.Tokens{Access: access, Refresh: refresh})
}

func (api userApi) refreshToken(ctx echo.Context) error {
	var data RefreshRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}

	claims, err := api.parseRefreshToken(data.Refresh)
	if err != nil {
		return err
	}
	usr, err := api.db.UserByID(claims.UserID)
	if err != nil {
		return errInvalidRefresh
	}
	access, err := api.generateToken(api.userClaims(usr, accessAudience))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"access": access})
}

func (api userApi) register(ctx echo.Context) error {
	var data RegisterRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}

	usr, err := api.db.CreateUser(memdb.User{
		FullName: core.CleanString(data.FullName),
		Email:    data.Email,
	}, data.Password)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"id":        usr.ID,
		"full_name": usr.FullName,
		"email":     usr.Email,
	})
}

func (api userApi) resetPassword(ctx echo.Context) error {
	usr, err := api.db.UserByEmail(ctx.Param("email"))
	switch {
	case err == nil:
		api.mailer.SendMessages(api.passwordResetEmail(usr))
	case err != memdb.ErrNotFound:
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, MessageResponse{
		Message: "If the email address supplied is associated with an account, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api userApi) confirmPasswordReset(ctx echo.Context) error {
	var data PasswordChangeRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}

	invalid := core.NewValidationError(errors.New("The password reset link is invalid or has expired"))
	uid, err := decodeUID(data.UUIDB64)
	if err != nil {
		return invalid
	}
	usr, err := api.db.UserByID(uid)
	if err != nil {
		return invalid
	}
	if err = api.resets.verify(usr, data.OTP); err != nil {
		return invalid
	}

	if err = usr.SetPassword(data.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	if err = api.db.UpdateUser(usr); err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusCreated, MessageResponse{Message: "Password Changed Successfully"})
}

func (api userApi) changePassword(ctx echo.Context) error {
	var data ChangePasswordRequest
	if err := api.bind(ctx, &data); err != nil {
		return err
	}
	if err := checkUser(ctx, data.UserID); err != nil {
		return err
	}

	usr, err := api.db.UserByID(data.UserID)
	if err != nil {
		return errors.Wrap(err, "finding user")
	}
	if err = usr.CheckPassword(data.OldPassword); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "old_password", Error: "Old password is incorrect"})
	}
	if err = usr.SetPassword(data.NewPassword); err != nil {
		return errors.Wrap(err, "setting password")
	}
	if err = api.db.UpdateUser(usr); err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

func (api userApi) profile(ctx echo.Context) error {
	usr, err := api.contextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, profileView(usr))
}

func (api userApi) updateProfile(ctx echo.Context) error {
	usr, err := api.contextUser(ctx)
	if err != nil {
		return err
	}

	var data ProfileRequest
	if err = api.bind(ctx, &data); err != nil {
		return err
	}
	usr.FullName = core.CleanString(data.FullName)
	usr.About = data.About
	usr.Country = data.Country

	if fh, fErr := ctx.FormFile("image"); fErr == nil {
		if usr.Image, err = api.saveUpload(fh, "image", "user_folder", "image/"); err != nil {
			return err
		}
	} else if fErr != http.ErrMissingFile && fErr != http.ErrNotMultipart {
		return errors.Wrap(fErr, "reading image")
	}

	if err = api.db.UpdateUser(usr); err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, profileView(usr))
}

// contextUser loads the user of the :user_id path parameter.
func (api userApi) contextUser(ctx echo.Context) (memdb.User, error) {
	userID, err := paramInt(ctx, "user_id")
	if err != nil {
		return memdb.User{}, err
	}
	usr, err := api.db.UserByID(userID)
	return usr, errors.Wrap(err, "finding user")
}

func profileView(usr memdb.User) profile.Profile {
	return profile.Profile{
		ID:       usr.ID,
		User:     usr.ID,
		Image:    usr.Image,
		FullName: usr.FullName,
		About:    usr.About,
		Country:  usr.Country,
		Date:     formatDate(usr.DateJoined),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
