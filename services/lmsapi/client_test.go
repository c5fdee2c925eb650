package lmsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/auth"
	"github.com/trezcool/masomo-portal/core/cart"
	"github.com/trezcool/masomo-portal/core/course"
	"github.com/trezcool/masomo-portal/core/instructor"
	"github.com/trezcool/masomo-portal/core/profile"
)

type staticToken string

func (t staticToken) AccessToken() string { return string(t) }

// pngHeader is enough for the content type to be sniffed.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func setup(t *testing.T, token string) (*Client, *echo.Echo) {
	t.Helper()
	e := echo.New()
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	conf := &core.Config{
		TestMode: true,
		API: core.APIConfig{
			BaseURL:       srv.URL + "/api/v1/",
			Timeout:       5 * time.Second,
			UploadTimeout: 10 * time.Second,
		},
	}
	return New(conf, staticToken(token), nil), e
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantErr string
	}{
		{
			name:    "detail",
			status:  http.StatusUnauthorized,
			body:    `{"detail": "No active account found with the given credentials"}`,
			wantMsg: "No active account found with the given credentials",
			wantErr: "No active account found with the given credentials",
		},
		{
			name:    "field lists",
			status:  http.StatusBadRequest,
			body:    `{"password": ["This password is too short.", "This password is too common."], "email": "Enter a valid email address."}`,
			wantErr: "email: Enter a valid email address.; password: This password is too short. This password is too common.",
		},
		{
			name:    "message and fields",
			status:  http.StatusBadRequest,
			body:    `{"message": "Invalid data", "title": ["This field is required."]}`,
			wantMsg: "Invalid data",
			wantErr: "title: This field is required.",
		},
		{
			name:    "html body",
			status:  http.StatusInternalServerError,
			body:    `<h1>Server Error (500)</h1>`,
			wantErr: "internal server error",
		},
		{
			name:    "empty body",
			status:  http.StatusNotFound,
			wantErr: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError(tt.status, []byte(tt.body))
			apiErr, ok := err.(*core.APIError)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	client, e := setup(t, "")

	e.POST("/api/v1/user/token/", func(c echo.Context) error {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&body); err != nil {
			return err
		}
		if body.Email != "jane@example.com" || body.Password != "Pa$$w0rd!" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "No active account found with the given credentials"})
		}
		return c.JSON(http.StatusOK, auth.Tokens{Access: "access", Refresh: "refresh"})
	})

	tokens, err := client.Login(ctx, "jane@example.com", "Pa$$w0rd!")
	require.NoError(t, err)
	assert.Equal(t, auth.Tokens{Access: "access", Refresh: "refresh"}, tokens)

	_, err = client.Login(ctx, "jane@example.com", "wrong")
	assert.True(t, core.IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "No active account found with the given credentials", err.Error())
}

func TestClient_authorization(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "logged in", token: "abc", want: "Bearer abc"},
		{name: "logged out", token: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, e := setup(t, tt.token)
			var got string
			e.GET("/api/v1/student/course-list/:user/", func(c echo.Context) error {
				got = c.Request().Header.Get("Authorization")
				return c.JSON(http.StatusOK, []interface{}{})
			})

			_, err := client.EnrolledCourses(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_cart(t *testing.T) {
	ctx := context.Background()
	client, e := setup(t, "")

	var added map[string]string
	e.GET("/api/v1/course/cart-list/:cart/", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`[{"id": 1, "cart_id": "`+c.Param("cart")+`", "price": "49.99", "course": {"id": 7, "title": "Go", "price": "49.99"}}]`))
	})
	e.GET("/api/v1/cart/stats/:cart/", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"price": 49.99, "tax": "5.00", "total": "54.99"}`))
	})
	e.POST("/api/v1/course/cart/", func(c echo.Context) error {
		added = map[string]string{
			"course_id":    c.FormValue("course_id"),
			"user_id":      c.FormValue("user_id"),
			"price":        c.FormValue("price"),
			"country_name": c.FormValue("country_name"),
			"cart_id":      c.FormValue("cart_id"),
		}
		return c.JSON(http.StatusCreated, echo.Map{"message": "Cart Created Successfully"})
	})
	e.DELETE("/api/v1/course/cart-item-delete/:cart/:item/", func(c echo.Context) error {
		if c.Param("item") != "1" {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.POST("/api/v1/order/create-order/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Order Created Successfully", "order_oid": "OID42"})
	})

	items, err := client.CartItems(ctx, "123456")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "123456", items[0].CartID)
	assert.Equal(t, core.Money(49.99), items[0].Course.Price)

	stats, err := client.CartStats(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, cart.Stats{Price: 49.99, Tax: 5, Total: 54.99}, stats)

	require.NoError(t, client.AddToCart(ctx, cart.AddInput{CourseID: 7, UserID: 3, Price: 49.99, CountryName: "Kenya", CartID: "123456"}))
	assert.Equal(t, map[string]string{
		"course_id":    "7",
		"user_id":      "3",
		"price":        "49.99",
		"country_name": "Kenya",
		"cart_id":      "123456",
	}, added)

	require.NoError(t, client.RemoveCartItem(ctx, "123456", 1))
	err = client.RemoveCartItem(ctx, "123456", 2)
	assert.True(t, core.IsStatus(err, http.StatusNotFound))

	oid, err := client.CreateOrder(ctx, cart.OrderInput{FullName: "Jane", Email: "jane@example.com", Country: "Kenya", CartID: "123456", UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, "OID42", oid)
}

func TestClient_course(t *testing.T) {
	ctx := context.Background()
	client, e := setup(t, "abc")

	var completion, reviewUpdate map[string]string
	e.GET("/api/v1/student/course-detail/:user/:enrollment/", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{
			"enrollment_id": "`+c.Param("enrollment")+`",
			"course": {"id": 7, "title": "Go"},
			"curriculum": [{"variant_id": 1, "title": "Intro", "variant_items": [{"id": 11, "variant_item_id": "v11", "title": "Hello"}]}],
			"completed_lesson": [],
			"note": [{"id": 1, "title": "t", "note": "n"}],
			"question_answer": [],
			"review": null
		}`))
	})
	e.POST("/api/v1/student/course-completed/", func(c echo.Context) error {
		completion = map[string]string{
			"user_id":         c.FormValue("user_id"),
			"course_id":       c.FormValue("course_id"),
			"variant_item_id": c.FormValue("variant_item_id"),
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Course Marked As Completed"})
	})
	e.POST("/api/v1/student/question-answer-message-create/", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"message": "Message Sent", "question": {"qa_id": `+c.FormValue("qa_id")+`, "title": "Why?", "messages": [{"message": "`+c.FormValue("message")+`"}]}}`))
	})
	e.PATCH("/api/v1/student/review-detail/:user/:review/", func(c echo.Context) error {
		reviewUpdate = map[string]string{
			"path":   c.Param("user") + "/" + c.Param("review"),
			"course": c.FormValue("course"),
			"rating": c.FormValue("rating"),
		}
		return c.JSONBlob(http.StatusOK, []byte(`{"id": 5, "rating": `+c.FormValue("rating")+`, "review": "`+c.FormValue("review")+`"}`))
	})

	enrollment, err := client.GetEnrollment(ctx, 3, "E1")
	require.NoError(t, err)
	assert.Equal(t, "E1", enrollment.EnrollmentID)
	assert.Equal(t, 1, enrollment.LectureCount())
	assert.Nil(t, enrollment.Review)
	assert.Len(t, enrollment.Notes, 1)

	require.NoError(t, client.ToggleCompletion(ctx, course.CompletionInput{UserID: 3, CourseID: 7, VariantItemID: "v11"}))
	assert.Equal(t, map[string]string{"user_id": "3", "course_id": "7", "variant_item_id": "v11"}, completion)

	thread, err := client.SendMessage(ctx, course.MessageInput{CourseID: 7, UserID: 3, QAID: 9, Message: "because"})
	require.NoError(t, err)
	assert.Equal(t, 9, thread.QAID)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, "because", thread.Messages[0].Message)

	review, err := client.UpdateReview(ctx, 3, 5, course.ReviewInput{CourseID: 7, UserID: 3, Rating: 4, Review: "good"})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, map[string]string{"path": "3/5", "course": "7", "rating": "4"}, reviewUpdate)
}

func TestClient_Summary(t *testing.T) {
	ctx := context.Background()
	client, e := setup(t, "abc")

	e.GET("/api/v1/student/summary/:user/", func(c echo.Context) error {
		if c.Param("user") == "0" {
			return c.JSON(http.StatusOK, []interface{}{})
		}
		return c.JSONBlob(http.StatusOK, []byte(`[{"total_courses": 2, "completed_lessons": 5, "achieved_certificates": 1}]`))
	})

	summary, err := client.Summary(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalCourses)
	assert.Equal(t, 5, summary.CompletedLessons)
	assert.Equal(t, 1, summary.AchievedCertificates)

	summary, err = client.Summary(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, summary)
}

func TestClient_uploads(t *testing.T) {
	ctx := context.Background()
	client, e := setup(t, "abc")

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(imgPath, pngHeader, 0o644))

	var uploaded struct{ name, ctype string }
	e.POST("/api/v1/file-upload/", func(c echo.Context) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"file": []string{"No file was submitted."}})
		}
		uploaded.name, uploaded.ctype = fh.Filename, fh.Header.Get("Content-Type")
		return c.JSON(http.StatusOK, echo.Map{"url": "http://localhost:8000/media/course-file/" + fh.Filename})
	})

	var gotImage bool
	e.PATCH("/api/v1/user/profile/:user/", func(c echo.Context) error {
		_, err := c.FormFile("image")
		gotImage = err == nil
		return c.JSON(http.StatusOK, profile.Profile{ID: 1, User: 3, FullName: c.FormValue("full_name")})
	})

	url, err := client.UploadFile(ctx, imgPath)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/media/course-file/cover.png", url)
	assert.Equal(t, "cover.png", uploaded.name)
	assert.Equal(t, "image/png", uploaded.ctype)

	_, err = client.UploadFile(ctx, filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	p, err := client.UpdateProfile(ctx, 3, profile.Form{FullName: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.FullName)
	assert.False(t, gotImage)

	_, err = client.UpdateProfile(ctx, 3, profile.Form{FullName: "Jane Doe", ImagePath: imgPath})
	require.NoError(t, err)
	assert.True(t, gotImage)
}

func TestClient_UpdateCourse(t *testing.T) {
	ctx := context.Background()
	client, e := setup(t, "abc")

	var (
		ctype string
		form  map[string][]string
	)
	e.PUT("/api/v1/teacher/course-update/:teacher/:course/", func(c echo.Context) error {
		ctype = c.Request().Header.Get("Content-Type")
		params, err := c.FormParams()
		if err != nil {
			return err
		}
		form = params
		return c.JSON(http.StatusOK, echo.Map{"message": "Course Updated"})
	})

	in := instructor.UpdateInput{
		Title:       "Go",
		Description: "Learn Go",
		FileURL:     "course-file/intro.mp4",
		Level:       "Beginner",
		Language:    "English",
		Price:       10,
		Category:    2,
	}
	require.NoError(t, client.UpdateCourse(ctx, 4, "C1", in))
	assert.Contains(t, ctype, "application/x-www-form-urlencoded")
	assert.Equal(t, []string{"10.00"}, form["price"])
	assert.Equal(t, []string{"2"}, form["category"])
	assert.Equal(t, []string{"course-file/intro.mp4"}, form["file_url"])
	assert.NotContains(t, form, "image_url")
}
