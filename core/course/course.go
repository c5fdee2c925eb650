// Package course drives the course player: the enrollment detail, the lecture player,
// lecture completion, notes, Q&A threads and the course review.
//
// A Controller is meant to be driven from a single goroutine, like a screen of a UI.
package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

var (
	ErrNotLoaded       = errors.New("course not loaded")
	ErrLectureNotFound = errors.New("lecture not found")
	ErrBusy            = errors.New("another request is in flight")
	ErrNoConversation  = errors.New("no conversation open")
	ErrReviewExists    = errors.New("course already reviewed")
	ErrNoReview        = errors.New("course not reviewed yet")
)

type (
	CompletionInput struct {
		UserID        int    `json:"user_id"`
		CourseID      int    `json:"course_id"`
		VariantItemID string `json:"variant_item_id"`
	}

	NoteInput struct {
		UserID       int    `json:"user_id"`
		EnrollmentID string `json:"enrollment_id"`
		Title        string `json:"title"`
		Note         string `json:"note"`
	}

	QuestionInput struct {
		CourseID int    `json:"course_id"`
		UserID   int    `json:"user_id"`
		Title    string `json:"title"`
		Message  string `json:"message"`
	}

	MessageInput struct {
		CourseID int    `json:"course_id"`
		UserID   int    `json:"user_id"`
		QAID     int    `json:"qa_id"`
		Message  string `json:"message"`
	}

	ReviewInput struct {
		CourseID int    `json:"course_id"`
		UserID   int    `json:"user_id"`
		Rating   int    `json:"rating"`
		Review   string `json:"review"`
	}

	// Backend is the part of the LMS API the course player talks to.
	Backend interface {
		GetEnrollment(ctx context.Context, userID int, enrollmentID string) (Enrollment, error)
		ToggleCompletion(ctx context.Context, in CompletionInput) error
		CreateNote(ctx context.Context, userID int, enrollmentID string, in NoteInput) (Note, error)
		UpdateNote(ctx context.Context, userID int, enrollmentID string, noteID int, in NoteInput) (Note, error)
		DeleteNote(ctx context.Context, userID int, enrollmentID string, noteID int) error
		CreateQuestion(ctx context.Context, in QuestionInput) (Question, error)
		SendMessage(ctx context.Context, in MessageInput) (Question, error)
		CreateReview(ctx context.Context, in ReviewInput) (Review, error)
		UpdateReview(ctx context.Context, userID, reviewID int, in ReviewInput) (Review, error)
	}

	Deps struct {
		Backend   Backend
		Notifier  core.Notifier
		Logger    core.Logger
		Validator *core.Validator
	}
)

// Controller holds the state of one enrollment's course page.
type Controller struct {
	backend   Backend
	notifier  core.Notifier
	logger    core.Logger
	validator *core.Validator

	userID       int
	enrollmentID string

	enrollment Enrollment
	loaded     bool
	progress   int

	playback   Playback
	completion map[int]Status

	Notes     *Notes
	Questions *Questions
	Review    *Reviews
}

func NewController(deps Deps, userID int, enrollmentID string) *Controller {
	c := &Controller{
		backend:      deps.Backend,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		validator:    deps.Validator,
		userID:       userID,
		enrollmentID: enrollmentID,
		completion:   make(map[int]Status),
	}
	if c.validator == nil {
		c.validator = core.NewValidator()
	}
	c.playback = newPlayback()
	c.Notes = &Notes{c: c}
	c.Questions = &Questions{c: c}
	c.Review = &Reviews{c: c}
	return c
}

// Load (re)fetches the enrollment and recomputes the progress.
func (c *Controller) Load(ctx context.Context) error {
	enr, err := c.backend.GetEnrollment(ctx, c.userID, c.enrollmentID)
	if err != nil {
		err = errors.Wrap(err, "fetching enrollment")
		c.fail("Failed to load course", err)
		return err
	}

	c.enrollment = enr
	c.loaded = true
	c.progress = enr.CompletionPercentage()
	c.Notes.reset()
	c.Questions.reset()
	return nil
}

func (c *Controller) Loaded() bool           { return c.loaded }
func (c *Controller) Enrollment() Enrollment { return c.enrollment }
func (c *Controller) UserID() int            { return c.userID }
func (c *Controller) EnrollmentID() string   { return c.enrollmentID }

// Progress is the completion percentage of the last loaded enrollment.
func (c *Controller) Progress() int { return c.progress }

func (c *Controller) IsCompleted(lectureID int) bool {
	return c.enrollment.IsCompleted(lectureID)
}

func (c *Controller) courseID() int { return c.enrollment.Course.ID }

func (c *Controller) validate(form interface{}) error {
	if err := c.validator.Struct(form); err != nil {
		c.notifier.Warning(core.UserMessage("Please fix the form", err))
		return err
	}
	return nil
}

func (c *Controller) fail(title string, err error) {
	if c.logger != nil {
		c.logger.Error(title, err, map[string]interface{}{"enrollment_id": c.enrollmentID})
	}
	c.notifier.Error(core.UserMessage(title, err))
}

// guard flips a busy flag for the duration of a mutation; concurrent submissions are rejected.
func guard(busy *bool) (release func(), err error) {
	if *busy {
		return nil, ErrBusy
	}
	*busy = true
	return func() { *busy = false }, nil
}
