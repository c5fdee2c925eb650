package instructor

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/services/notify"
)

type fakeBackend struct {
	course    Course
	catErr    error
	courseErr error
	uploads   []string
	updates   []UpdateInput
}

func (b *fakeBackend) Categories(_ context.Context) ([]Category, error) {
	if b.catErr != nil {
		return nil, b.catErr
	}
	return []Category{{ID: 1, Title: "Programming"}}, nil
}

func (b *fakeBackend) TeacherCourse(_ context.Context, _ string) (Course, error) {
	if b.courseErr != nil {
		return Course{}, b.courseErr
	}
	return b.course, nil
}

func (b *fakeBackend) UploadFile(_ context.Context, path string) (string, error) {
	b.uploads = append(b.uploads, path)
	return "http://localhost:8000/media/uploads/" + filepath.Base(path), nil
}

func (b *fakeBackend) UpdateCourse(_ context.Context, _ int, _ string, in UpdateInput) error {
	b.updates = append(b.updates, in)
	b.course.Title = in.Title
	return nil
}

type teacher int

func (t teacher) TeacherID() int { return int(t) }

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

var (
	pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mp4Data = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
)

func TestMediaPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "http://localhost:8000/media/course-file/intro.mp4", want: "course-file/intro.mp4"},
		{url: "/media/a.png", want: "a.png"},
		{url: "https://cdn.test/a.png", want: "https://cdn.test/a.png"},
		{url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := MediaPath(tt.url); got != tt.want {
				t.Errorf("MediaPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want CategoryRef
	}{
		{in: `3`, want: CategoryRef{ID: 3}},
		{in: `"4"`, want: CategoryRef{ID: 4}},
		{in: `{"id": 5, "title": "Design"}`, want: CategoryRef{ID: 5, Title: "Design"}},
		{in: `null`, want: CategoryRef{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got CategoryRef
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func fullCourse() Course {
	return Course{
		ID: 9, Title: "Go", Description: "<p>Learn Go</p>", Image: "course-file/old.png", File: "course-file/old.mp4",
		Level: "Beginner", Language: "English", Price: 20, Category: CategoryRef{ID: 1, Title: "Programming"},
	}
}

func TestEditor_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("categories failure is tolerated", func(t *testing.T) {
		backend := &fakeBackend{course: fullCourse(), catErr: core.NewAPIError(http.StatusInternalServerError, "")}
		notifier := new(notify.Recorder)
		ed := NewEditor(backend, teacher(2), notifier, nil, "9")

		require.NoError(t, ed.Load(ctx))
		assert.Empty(t, ed.Categories())
		assert.Equal(t, "Go", ed.Draft().Title)
		assert.Zero(t, notifier.Count(notify.LevelError))
	})

	t.Run("course not found", func(t *testing.T) {
		backend := &fakeBackend{courseErr: core.NewAPIError(http.StatusNotFound, "")}
		notifier := new(notify.Recorder)
		ed := NewEditor(backend, teacher(2), notifier, nil, "9")

		assert.Error(t, ed.Load(ctx))
		last, _ := notifier.Last()
		assert.Equal(t, "Course not found or server error.", last.Title)
	})
}

func TestEditor_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("unchanged media is not resent", func(t *testing.T) {
		backend := &fakeBackend{course: fullCourse()}
		ed := NewEditor(backend, teacher(2), new(notify.Recorder), nil, "9")
		require.NoError(t, ed.Load(ctx))

		ed.Draft().Title = " Go, updated "
		require.NoError(t, ed.Submit(ctx))
		require.Len(t, backend.updates, 1)
		assert.Equal(t, UpdateInput{
			Title: "Go, updated", Description: "<p>Learn Go</p>", Level: "Beginner", Language: "English", Price: 20, Category: 1,
		}, backend.updates[0])
		assert.Equal(t, "Go, updated", ed.Draft().Title, "course is refetched")
	})

	t.Run("uploaded media is sent as media paths", func(t *testing.T) {
		backend := &fakeBackend{course: fullCourse()}
		ed := NewEditor(backend, teacher(2), new(notify.Recorder), nil, "9")
		require.NoError(t, ed.Load(ctx))

		require.NoError(t, ed.UploadImage(ctx, writeFile(t, "cover.png", pngData)))
		require.NoError(t, ed.UploadIntro(ctx, writeFile(t, "intro.mp4", mp4Data)))
		assert.Equal(t, "http://localhost:8000/media/uploads/cover.png", ed.ImagePreview())

		require.NoError(t, ed.Submit(ctx))
		assert.Equal(t, "uploads/cover.png", backend.updates[0].ImageURL)
		assert.Equal(t, "uploads/intro.mp4", backend.updates[0].FileURL)
	})

	t.Run("media is sent once even when the refetch fails", func(t *testing.T) {
		backend := &fakeBackend{course: fullCourse()}
		ed := NewEditor(backend, teacher(2), new(notify.Recorder), nil, "9")
		require.NoError(t, ed.Load(ctx))

		require.NoError(t, ed.UploadImage(ctx, writeFile(t, "cover.png", pngData)))
		backend.courseErr = errors.New("connection reset")
		require.NoError(t, ed.Submit(ctx))
		require.NoError(t, ed.Submit(ctx))
		require.Len(t, backend.updates, 2)
		assert.Equal(t, "uploads/cover.png", backend.updates[0].ImageURL)
		assert.Empty(t, backend.updates[1].ImageURL)
	})

	t.Run("wrong file types are refused", func(t *testing.T) {
		backend := &fakeBackend{course: fullCourse()}
		ed := NewEditor(backend, teacher(2), new(notify.Recorder), nil, "9")
		require.NoError(t, ed.Load(ctx))

		assert.Error(t, ed.UploadImage(ctx, writeFile(t, "cover.png", []byte("just some text"))))
		assert.Error(t, ed.UploadIntro(ctx, writeFile(t, "intro.mp4", pngData)))
		assert.Empty(t, backend.uploads)
	})

	t.Run("required fields", func(t *testing.T) {
		crs := fullCourse()
		crs.Price = 0
		crs.Category = CategoryRef{}
		backend := &fakeBackend{course: crs}
		notifier := new(notify.Recorder)
		ed := NewEditor(backend, teacher(2), notifier, nil, "9")
		require.NoError(t, ed.Load(ctx))

		err := ed.Submit(ctx)
		require.Error(t, err)
		assert.Equal(t, []string{"category", "price"}, ed.Missing())
		last, _ := notifier.Last()
		assert.Equal(t, "Please fill in the following fields: category, price", last.Title)
		assert.Empty(t, backend.updates)
	})

	t.Run("teacher required", func(t *testing.T) {
		backend := &fakeBackend{course: fullCourse()}
		ed := NewEditor(backend, teacher(0), new(notify.Recorder), nil, "9")
		require.NoError(t, ed.Load(ctx))

		assert.Equal(t, ErrNotTeacher, ed.Submit(ctx))
	})
}
