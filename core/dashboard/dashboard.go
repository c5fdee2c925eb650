// Package dashboard loads the learner's summary and enrolled courses.
package dashboard

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/masomo-portal/core"
)

type (
	Summary struct {
		TotalCourses         int `json:"total_courses"`
		CompletedLessons     int `json:"completed_lessons"`
		AchievedCertificates int `json:"achieved_certificates"`
	}

	Course struct {
		ID       int    `json:"id"`
		Title    string `json:"title"`
		Image    string `json:"image"`
		Language string `json:"language"`
		Level    string `json:"level"`
	}

	Lecture struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	CompletedLesson struct {
		ID int `json:"id"`
	}

	EnrolledCourse struct {
		EnrollmentID     string            `json:"enrollment_id"`
		Course           Course            `json:"course"`
		Date             string            `json:"date"`
		Lectures         []Lecture         `json:"lectures"`
		CompletedLessons []CompletedLesson `json:"completed_lesson"`
	}

	Backend interface {
		Summary(ctx context.Context, userID int) (Summary, error)
		EnrolledCourses(ctx context.Context, userID int) ([]EnrolledCourse, error)
	}
)

// Progress is the enrolled course's completion percentage.
func (ec EnrolledCourse) Progress() int {
	if len(ec.Lectures) == 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(len(ec.CompletedLessons)) / float64(len(ec.Lectures))))
	if pct > 100 {
		pct = 100
	}
	return pct
}

type Dashboard struct {
	backend  Backend
	notifier core.Notifier
	logger   core.Logger
	userID   int

	summary Summary
	courses []EnrolledCourse
	shown   []EnrolledCourse
	query   string
}

func New(backend Backend, notifier core.Notifier, logger core.Logger, userID int) *Dashboard {
	return &Dashboard{backend: backend, notifier: notifier, logger: logger, userID: userID}
}

// Load fetches the summary and the course list concurrently.
func (d *Dashboard) Load(ctx context.Context) error {
	var (
		summary Summary
		courses []EnrolledCourse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, err = d.backend.Summary(gctx, d.userID)
		return errors.Wrap(err, "fetching summary")
	})
	g.Go(func() (err error) {
		courses, err = d.backend.EnrolledCourses(gctx, d.userID)
		return errors.Wrap(err, "fetching courses")
	})
	if err := g.Wait(); err != nil {
		if d.logger != nil {
			d.logger.Error("loading dashboard", err)
		}
		d.notifier.Error("Failed to load dashboard")
		return err
	}

	d.summary = summary
	d.courses = courses
	d.shown = courses
	d.query = ""
	return nil
}

func (d *Dashboard) Summary() Summary { return d.summary }

// Courses returns the courses matching the last search.
func (d *Dashboard) Courses() []EnrolledCourse { return d.shown }

// Search filters courses by title, case-insensitively. An empty query shows them all.
func (d *Dashboard) Search(query string) []EnrolledCourse {
	d.query = core.CleanString(query)
	if d.query == "" {
		d.shown = d.courses
		return d.shown
	}
	d.shown = nil
	for _, ec := range d.courses {
		if core.ContainsFold(ec.Course.Title, d.query) {
			d.shown = append(d.shown, ec)
		}
	}
	return d.shown
}
