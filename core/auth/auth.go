// Package auth signs users in and out and manages their passwords.
package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/session"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

type (
	LoginForm struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	RegisterForm struct {
		FullName  string `json:"full_name" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required"`
		Password2 string `json:"password2" validate:"required"`
	}

	// ResetPasswordForm completes a password reset; OTP and UUIDB64 come from the emailed link.
	ResetPasswordForm struct {
		OTP             string `json:"otp" validate:"required"`
		UUIDB64         string `json:"uuidb64" validate:"required"`
		Password        string `json:"password" validate:"required"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}

	ChangePasswordForm struct {
		OldPassword        string `json:"old_password" validate:"required"`
		NewPassword        string `json:"new_password" validate:"required"`
		ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
	}

	// changePassword carries the user's attributes the new password is checked against.
	changePassword struct {
		ChangePasswordForm
		fullName, email, username string
	}

	Tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}

	RegisterInput struct {
		FullName  string `json:"full_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Password2 string `json:"password2"`
	}

	ResetPasswordInput struct {
		OTP      string `json:"otp"`
		UUIDB64  string `json:"uuidb64"`
		Password string `json:"password"`
	}

	ChangePasswordInput struct {
		UserID      int    `json:"user_id"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	// Backend is the part of the LMS API handling accounts.
	Backend interface {
		Login(ctx context.Context, email, password string) (Tokens, error)
		Register(ctx context.Context, in RegisterInput) error
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, in ResetPasswordInput) error
		ChangePassword(ctx context.Context, in ChangePasswordInput) (string, error)
	}

	Deps struct {
		Backend   Backend
		Sessions  *session.Store
		Notifier  core.Notifier
		Logger    core.Logger
		Validator *core.Validator
	}
)

type Service struct {
	backend   Backend
	sessions  *session.Store
	notifier  core.Notifier
	logger    core.Logger
	validator *core.Validator
}

func NewService(deps Deps) *Service {
	svc := &Service{
		backend:   deps.Backend,
		sessions:  deps.Sessions,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
		validator: deps.Validator,
	}
	if svc.validator == nil {
		svc.validator = core.NewValidator()
	}
	registerValidators(svc.validator)
	return svc
}

// Login exchanges credentials for a token pair and stores it.
func (svc *Service) Login(ctx context.Context, form LoginForm) (session.Identity, error) {
	form.Email = core.CleanString(form.Email, true)
	if err := svc.validate(form); err != nil {
		return session.Identity{}, err
	}

	tokens, err := svc.backend.Login(ctx, form.Email, form.Password)
	if err != nil {
		err = errors.Wrap(err, "logging in")
		svc.fail("Login failed", err)
		return session.Identity{}, err
	}
	if err := svc.sessions.SetTokens(tokens.Access, tokens.Refresh); err != nil {
		err = errors.Wrap(err, "storing session")
		svc.fail("Login failed", err)
		return session.Identity{}, err
	}

	id, err := svc.sessions.Identity()
	if err != nil {
		return session.Identity{}, err
	}
	svc.notifier.Success("Login successful")
	return id, nil
}

// Register creates an account then signs it in.
func (svc *Service) Register(ctx context.Context, form RegisterForm) (session.Identity, error) {
	form.FullName = core.CleanString(form.FullName)
	form.Email = core.CleanString(form.Email, true)
	if form.Password != form.Password2 {
		svc.notifier.Warning("Passwords do not match")
		return session.Identity{}, ErrPasswordMismatch
	}
	if err := svc.validate(form); err != nil {
		return session.Identity{}, err
	}

	err := svc.backend.Register(ctx, RegisterInput{
		FullName:  form.FullName,
		Email:     form.Email,
		Password:  form.Password,
		Password2: form.Password2,
	})
	if err != nil {
		err = errors.Wrap(err, "registering")
		svc.fail("Registration failed", err)
		return session.Identity{}, err
	}
	svc.notifier.Success("Registration successful")

	return svc.Login(ctx, LoginForm{Email: form.Email, Password: form.Password})
}

// Logout forgets the session tokens.
func (svc *Service) Logout() error {
	if err := svc.sessions.Clear(); err != nil {
		return err
	}
	svc.notifier.Success("You have been logged out")
	return nil
}

// ForgotPassword asks the LMS to email a password reset link.
func (svc *Service) ForgotPassword(ctx context.Context, email string) error {
	form := struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: core.CleanString(email, true)}
	if err := svc.validate(form); err != nil {
		return err
	}

	if err := svc.backend.RequestPasswordReset(ctx, form.Email); err != nil {
		err = errors.Wrap(err, "requesting password reset")
		svc.fail("Failed to send password reset email", err)
		return err
	}
	svc.notifier.Success("Password Reset Email Sent!")
	return nil
}

// ResetPassword sets a new password from the one-time code of a reset link.
func (svc *Service) ResetPassword(ctx context.Context, form ResetPasswordForm) error {
	if form.Password != form.ConfirmPassword {
		svc.notifier.Warning("Passwords do not match")
		return ErrPasswordMismatch
	}
	if err := svc.validate(form); err != nil {
		return err
	}

	err := svc.backend.ResetPassword(ctx, ResetPasswordInput{OTP: form.OTP, UUIDB64: form.UUIDB64, Password: form.Password})
	if err != nil {
		err = errors.Wrap(err, "resetting password")
		svc.fail("An Error Occurred. Please Try Again", err)
		return err
	}
	svc.notifier.Success("Password Changed Successfully")
	return nil
}

// ChangePassword changes the signed-in user's password.
func (svc *Service) ChangePassword(ctx context.Context, form ChangePasswordForm) error {
	id, err := svc.sessions.Identity()
	if err != nil {
		return err
	}
	if form.NewPassword != form.ConfirmNewPassword {
		svc.notifier.Warning("New passwords do not match")
		return ErrPasswordMismatch
	}
	if err := svc.validate(changePassword{
		ChangePasswordForm: form,
		fullName:           id.FullName,
		email:              id.Email,
		username:           id.Username,
	}); err != nil {
		return err
	}

	msg, err := svc.backend.ChangePassword(ctx, ChangePasswordInput{
		UserID:      id.UserID,
		OldPassword: form.OldPassword,
		NewPassword: form.NewPassword,
	})
	if err != nil {
		err = errors.Wrap(err, "changing password")
		svc.fail("Failed to change password", err)
		return err
	}
	svc.notifier.Success(core.FirstNonEmpty(msg, "Password changed successfully"))
	return nil
}

func (svc *Service) validate(form interface{}) error {
	if err := svc.validator.Struct(form); err != nil {
		svc.notifier.Warning(core.UserMessage("Please fix the form", err))
		return err
	}
	return nil
}

func (svc *Service) fail(title string, err error) {
	if svc.logger != nil {
		svc.logger.Error(title, err)
	}
	svc.notifier.Error(core.UserMessage(title, err))
}
