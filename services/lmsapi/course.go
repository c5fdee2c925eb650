package lmsapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/trezcool/masomo-portal/core/course"
)

func (c *Client) GetEnrollment(ctx context.Context, userID int, enrollmentID string) (course.Enrollment, error) {
	var enrollment course.Enrollment
	req := c.request(ctx).SetPathParams(map[string]string{
		"user":       strconv.Itoa(userID),
		"enrollment": enrollmentID,
	})
	if err := c.do(req, http.MethodGet, "student/course-detail/{user}/{enrollment}/", &enrollment); err != nil {
		return course.Enrollment{}, err
	}
	return enrollment, nil
}

func (c *Client) ToggleCompletion(ctx context.Context, in course.CompletionInput) error {
	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"user_id":         strconv.Itoa(in.UserID),
		"course_id":       strconv.Itoa(in.CourseID),
		"variant_item_id": in.VariantItemID,
	})
	return c.do(req, http.MethodPost, "student/course-completed/", nil)
}

func (c *Client) CreateNote(ctx context.Context, userID int, enrollmentID string, in course.NoteInput) (course.Note, error) {
	var note course.Note
	req := c.noteRequest(ctx, userID, enrollmentID, in)
	if err := c.do(req, http.MethodPost, "student/course-note/{user}/{enrollment}/", &note); err != nil {
		return course.Note{}, err
	}
	return note, nil
}

func (c *Client) UpdateNote(ctx context.Context, userID int, enrollmentID string, noteID int, in course.NoteInput) (course.Note, error) {
	var note course.Note
	req := c.noteRequest(ctx, userID, enrollmentID, in).SetPathParam("note", strconv.Itoa(noteID))
	if err := c.do(req, http.MethodPatch, "student/course-note-detail/{user}/{enrollment}/{note}/", &note); err != nil {
		return course.Note{}, err
	}
	return note, nil
}

func (c *Client) DeleteNote(ctx context.Context, userID int, enrollmentID string, noteID int) error {
	req := c.request(ctx).SetPathParams(map[string]string{
		"user":       strconv.Itoa(userID),
		"enrollment": enrollmentID,
		"note":       strconv.Itoa(noteID),
	})
	return c.do(req, http.MethodDelete, "student/course-note-detail/{user}/{enrollment}/{note}/", nil)
}

func (c *Client) noteRequest(ctx context.Context, userID int, enrollmentID string, in course.NoteInput) *resty.Request {
	return c.request(ctx).
		SetPathParams(map[string]string{
			"user":       strconv.Itoa(userID),
			"enrollment": enrollmentID,
		}).
		SetMultipartFormData(map[string]string{
			"user_id":       strconv.Itoa(in.UserID),
			"enrollment_id": in.EnrollmentID,
			"title":         in.Title,
			"note":          in.Note,
		})
}

func (c *Client) CreateQuestion(ctx context.Context, in course.QuestionInput) (course.Question, error) {
	var question course.Question
	req := c.request(ctx).
		SetPathParam("course", strconv.Itoa(in.CourseID)).
		SetMultipartFormData(map[string]string{
			"course_id": strconv.Itoa(in.CourseID),
			"user_id":   strconv.Itoa(in.UserID),
			"title":     in.Title,
			"message":   in.Message,
		})
	if err := c.do(req, http.MethodPost, "student/question-answer-list-create/{course}/", &question); err != nil {
		return course.Question{}, err
	}
	return question, nil
}

// SendMessage returns the whole thread, the new message included.
func (c *Client) SendMessage(ctx context.Context, in course.MessageInput) (course.Question, error) {
	var resp struct {
		Question course.Question `json:"question"`
	}
	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"course_id": strconv.Itoa(in.CourseID),
		"user_id":   strconv.Itoa(in.UserID),
		"message":   in.Message,
		"qa_id":     strconv.Itoa(in.QAID),
	})
	if err := c.do(req, http.MethodPost, "student/question-answer-message-create/", &resp); err != nil {
		return course.Question{}, err
	}
	return resp.Question, nil
}

func (c *Client) CreateReview(ctx context.Context, in course.ReviewInput) (course.Review, error) {
	var review course.Review
	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"course_id": strconv.Itoa(in.CourseID),
		"user_id":   strconv.Itoa(in.UserID),
		"rating":    strconv.Itoa(in.Rating),
		"review":    in.Review,
	})
	if err := c.do(req, http.MethodPost, "student/rate-course/", &review); err != nil {
		return course.Review{}, err
	}
	return review, nil
}

func (c *Client) UpdateReview(ctx context.Context, userID, reviewID int, in course.ReviewInput) (course.Review, error) {
	var review course.Review
	req := c.request(ctx).
		SetPathParams(map[string]string{
			"user":   strconv.Itoa(userID),
			"review": strconv.Itoa(reviewID),
		}).
		SetMultipartFormData(map[string]string{
			"course": strconv.Itoa(in.CourseID),
			"user":   strconv.Itoa(in.UserID),
			"rating": strconv.Itoa(in.Rating),
			"review": in.Review,
		})
	if err := c.do(req, http.MethodPatch, "student/review-detail/{user}/{review}/", &review); err != nil {
		return course.Review{}, err
	}
	return review, nil
}
