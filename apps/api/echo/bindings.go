package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Requests are bound from JSON or form bodies: field names must not clash with path parameters.
type (
	TokenRequest struct {
		Email    string `json:"email" form:"email" validate:"required,email"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	RefreshRequest struct {
		Refresh string `json:"refresh" form:"refresh" validate:"required"`
	}

	RegisterRequest struct {
		FullName  string `json:"full_name" form:"full_name" validate:"required"`
		Email     string `json:"email" form:"email" validate:"required,email"`
		Password  string `json:"password" form:"password" validate:"required,min=8"`
		Password2 string `json:"password2" form:"password2" validate:"required,eqfield=Password"`
	}

	PasswordChangeRequest struct {
		OTP      string `json:"otp" form:"otp" validate:"required"`
		UUIDB64  string `json:"uuidb64" form:"uuidb64" validate:"required"`
		Password string `json:"password" form:"password" validate:"required,min=8"`
	}

	ChangePasswordRequest struct {
		UserID      int    `json:"user_id" form:"user_id" validate:"required"`
		OldPassword string `json:"old_password" form:"old_password" validate:"required"`
		NewPassword string `json:"new_password" form:"new_password" validate:"required,min=8"`
	}

	ProfileRequest struct {
		FullName string `json:"full_name" form:"full_name" validate:"required"`
		About    string `json:"about" form:"about"`
		Country  string `json:"country" form:"country"`
	}

	CartRequest struct {
		CourseID    int     `json:"course_id" form:"course_id" validate:"required"`
		UserID      int     `json:"user_id" form:"user_id"`
		Price       float64 `json:"price" form:"price" validate:"min=0"`
		CountryName string  `json:"country_name" form:"country_name"`
		CartID      string  `json:"cart_id" form:"cart_id" validate:"required"`
	}

	OrderRequest struct {
		FullName string `json:"full_name" form:"full_name" validate:"required"`
		Email    string `json:"email" form:"email" validate:"required,email"`
		Country  string `json:"country" form:"country" validate:"required"`
		CartID   string `json:"cart_id" form:"cart_id" validate:"required"`
		UserID   int    `json:"user_id" form:"user_id" validate:"required"`
	}

	CompletionRequest struct {
		UserID        int    `json:"user_id" form:"user_id" validate:"required"`
		CourseID      int    `json:"course_id" form:"course_id" validate:"required"`
		VariantItemID string `json:"variant_item_id" form:"variant_item_id" validate:"required"`
	}

	NoteRequest struct {
		Title string `json:"title" form:"title" validate:"required"`
		Text  string `json:"note" form:"note" validate:"required"`
	}

	QuestionRequest struct {
		UserID  int    `json:"user_id" form:"user_id" validate:"required"`
		Title   string `json:"title" form:"title" validate:"required"`
		Message string `json:"message" form:"message" validate:"required"`
	}

	MessageRequest struct {
		CourseID int    `json:"course_id" form:"course_id" validate:"required"`
		UserID   int    `json:"user_id" form:"user_id" validate:"required"`
		QAID     int    `json:"qa_id" form:"qa_id" validate:"required"`
		Message  string `json:"message" form:"message" validate:"required"`
	}

	ReviewRequest struct {
		CourseID int    `json:"course_id" form:"course_id" validate:"required"`
		UserID   int    `json:"user_id" form:"user_id" validate:"required"`
		Rating   int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
		Text     string `json:"review" form:"review"`
	}

	ReviewUpdateRequest struct {
		CourseID int    `json:"course" form:"course"`
		UserID   int    `json:"user" form:"user"`
		Rating   int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
		Text     string `json:"review" form:"review"`
	}

	CourseUpdateRequest struct {
		Title       string  `json:"title" form:"title" validate:"required"`
		Description string  `json:"description" form:"description" validate:"required"`
		ImageURL    string  `json:"image_url" form:"image_url"`
		FileURL     string  `json:"file_url" form:"file_url"`
		Level       string  `json:"level" form:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
		Language    string  `json:"language" form:"language" validate:"required"`
		Price       float64 `json:"price" form:"price" validate:"min=0"`
		CategoryID  int     `json:"category" form:"category" validate:"required"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

// bind fills data from the request and validates it.
func (s *Server) bind(ctx echo.Context, data interface{}) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrapf(err, "binding to %T", data)
	}
	return s.validator.Struct(data)
}
