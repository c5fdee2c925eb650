package dashboard

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/services/notify"
)

type fakeBackend struct {
	coursesErr error
}

func (fakeBackend) Summary(_ context.Context, _ int) (Summary, error) {
	return Summary{TotalCourses: 2, CompletedLessons: 3, AchievedCertificates: 1}, nil
}

func (b fakeBackend) EnrolledCourses(_ context.Context, _ int) ([]EnrolledCourse, error) {
	if b.coursesErr != nil {
		return nil, b.coursesErr
	}
	return []EnrolledCourse{
		{EnrollmentID: "a", Course: Course{ID: 1, Title: "Go Basics"}, Lectures: make([]Lecture, 4), CompletedLessons: make([]CompletedLesson, 3)},
		{EnrollmentID: "b", Course: Course{ID: 2, Title: "Advanced Rust"}},
	}, nil
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	d := New(fakeBackend{}, new(notify.Recorder), nil, 1)

	require.NoError(t, d.Load(ctx))
	assert.Equal(t, Summary{TotalCourses: 2, CompletedLessons: 3, AchievedCertificates: 1}, d.Summary())
	assert.Len(t, d.Courses(), 2)
	assert.Equal(t, 75, d.Courses()[0].Progress())
	assert.Equal(t, 0, d.Courses()[1].Progress())

	tests := []struct {
		query string
		want  []string
	}{
		{query: "go", want: []string{"a"}},
		{query: "RUST", want: []string{"b"}},
		{query: "python", want: nil},
		{query: "  ", want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, ec := range d.Search(tt.query) {
				got = append(got, ec.EnrollmentID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboard_Load_fails(t *testing.T) {
	notifier := new(notify.Recorder)
	d := New(fakeBackend{coursesErr: errors.New("boom")}, notifier, nil, 1)

	assert.Error(t, d.Load(context.Background()))
	assert.Equal(t, 1, notifier.Count(notify.LevelError))
	assert.Empty(t, d.Courses())
}
