package course

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

type ReviewForm struct {
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Review string `json:"review" validate:"required"`
}

// Reviews manages the learner's single review of the course.
type Reviews struct {
	c    *Controller
	busy bool
}

// Current returns the learner's review, if they wrote one.
func (r *Reviews) Current() (Review, bool) {
	if r.c.enrollment.Review == nil {
		return Review{}, false
	}
	return *r.c.enrollment.Review, true
}

func (r *Reviews) Busy() bool { return r.busy }

// Mode tells whether submitting the form creates or updates the review.
func (r *Reviews) Mode() Mode {
	if _, ok := r.Current(); ok {
		return ModeUpdate
	}
	return ModeCreate
}

// Submit creates the review, or updates it when one exists.
func (r *Reviews) Submit(ctx context.Context, form ReviewForm) error {
	if r.Mode() == ModeUpdate {
		return r.Update(ctx, form)
	}
	return r.Create(ctx, form)
}

func (r *Reviews) Create(ctx context.Context, form ReviewForm) error {
	if _, ok := r.Current(); ok {
		return ErrReviewExists
	}
	release, err := guard(&r.busy)
	if err != nil {
		return err
	}
	defer release()

	if err := r.c.validate(form); err != nil {
		return err
	}

	_, err = r.c.backend.CreateReview(ctx, ReviewInput{
		CourseID: r.c.courseID(),
		UserID:   r.c.userID,
		Rating:   form.Rating,
		Review:   form.Review,
	})
	if err != nil {
		err = errors.Wrap(err, "creating review")
		r.c.fail("Failed to submit review", err)
		return err
	}

	r.c.notifier.Success("Review created")
	return r.c.Load(ctx)
}

// Update edits the existing review. A zero rating or an empty text keeps the previous value.
func (r *Reviews) Update(ctx context.Context, form ReviewForm) error {
	prev, ok := r.Current()
	if !ok {
		return ErrNoReview
	}
	release, err := guard(&r.busy)
	if err != nil {
		return err
	}
	defer release()

	if form.Rating == 0 {
		form.Rating = prev.Rating
	}
	form.Review = core.FirstNonEmpty(strings.TrimSpace(form.Review), prev.Review)
	if err := r.c.validate(form); err != nil {
		return err
	}

	_, err = r.c.backend.UpdateReview(ctx, r.c.userID, prev.ID, ReviewInput{
		CourseID: r.c.courseID(),
		UserID:   r.c.userID,
		Rating:   form.Rating,
		Review:   form.Review,
	})
	if err != nil {
		err = errors.Wrap(err, "updating review")
		r.c.fail("Failed to update review", err)
		return err
	}

	r.c.notifier.Success("Review updated")
	return r.c.Load(ctx)
}
