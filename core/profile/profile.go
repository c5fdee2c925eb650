// Package profile shows and edits the signed-in user's profile.
package profile

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

type (
	Profile struct {
		ID       int    `json:"id"`
		User     int    `json:"user"`
		Image    string `json:"image"`
		FullName string `json:"full_name"`
		About    string `json:"about"`
		Country  string `json:"country"`
		Date     string `json:"date,omitempty"`
	}

	// Form edits a profile. ImagePath is a local file, only uploaded when set.
	Form struct {
		FullName  string `json:"full_name" validate:"required"`
		About     string `json:"about"`
		Country   string `json:"country"`
		ImagePath string `json:"-"`
	}

	Backend interface {
		Profile(ctx context.Context, userID int) (Profile, error)
		UpdateProfile(ctx context.Context, userID int, form Form) (Profile, error)
	}
)

type Editor struct {
	backend   Backend
	notifier  core.Notifier
	logger    core.Logger
	validator *core.Validator
	userID    int

	profile Profile
}

func NewEditor(backend Backend, notifier core.Notifier, logger core.Logger, userID int) *Editor {
	return &Editor{
		backend:   backend,
		notifier:  notifier,
		logger:    logger,
		validator: core.NewValidator(),
		userID:    userID,
	}
}

func (e *Editor) Profile() Profile { return e.profile }

func (e *Editor) Load(ctx context.Context) (Profile, error) {
	p, err := e.backend.Profile(ctx, e.userID)
	if err != nil {
		err = errors.Wrap(err, "fetching profile")
		e.fail("Failed to load profile", err)
		return Profile{}, err
	}
	e.profile = p
	return p, nil
}

// Update saves the form. Blank fields keep their current value.
func (e *Editor) Update(ctx context.Context, form Form) (Profile, error) {
	form.FullName = core.FirstNonEmpty(core.CleanString(form.FullName), e.profile.FullName)
	form.About = core.FirstNonEmpty(form.About, e.profile.About)
	form.Country = core.FirstNonEmpty(core.CleanString(form.Country), e.profile.Country)
	if err := e.validator.Struct(form); err != nil {
		e.notifier.Warning(core.UserMessage("Please fix the form", err))
		return Profile{}, err
	}
	if form.ImagePath != "" {
		if _, err := os.Stat(form.ImagePath); err != nil {
			err = errors.Wrap(err, "reading image")
			e.fail("Failed to update profile", err)
			return Profile{}, err
		}
	}

	p, err := e.backend.UpdateProfile(ctx, e.userID, form)
	if err != nil {
		err = errors.Wrap(err, "updating profile")
		e.fail("Failed to update profile", err)
		return Profile{}, err
	}
	e.profile = p
	e.notifier.Success("Profile updated successfully")
	return p, nil
}

func (e *Editor) fail(title string, err error) {
	if e.logger != nil {
		e.logger.Error(title, err)
	}
	e.notifier.Error(core.UserMessage(title, err))
}
