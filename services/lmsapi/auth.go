package lmsapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/auth"
)

func (c *Client) Login(ctx context.Context, email, password string) (auth.Tokens, error) {
	var tokens auth.Tokens
	req := c.request(ctx).SetBody(map[string]string{"email": email, "password": password})
	if err := c.do(req, http.MethodPost, "user/token/", &tokens); err != nil {
		return auth.Tokens{}, err
	}
	if tokens.Access == "" {
		return auth.Tokens{}, errors.New("no access token in login response")
	}
	return tokens, nil
}

func (c *Client) Register(ctx context.Context, in auth.RegisterInput) error {
	req := c.request(ctx).SetBody(in)
	return c.do(req, http.MethodPost, "user/register/", nil)
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := c.request(ctx).SetPathParam("email", email)
	return c.do(req, http.MethodGet, "user/password-reset/{email}/", nil)
}

func (c *Client) ResetPassword(ctx context.Context, in auth.ResetPasswordInput) error {
	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"otp":      in.OTP,
		"uuidb64":  in.UUIDB64,
		"password": in.Password,
	})
	return c.do(req, http.MethodPost, "user/password-change/", nil)
}

// ChangePassword returns the confirmation message of the backend.
func (c *Client) ChangePassword(ctx context.Context, in auth.ChangePasswordInput) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"user_id":      strconv.Itoa(in.UserID),
		"old_password": in.OldPassword,
		"new_password": in.NewPassword,
	})
	if err := c.do(req, http.MethodPost, "user/change-password/", &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
