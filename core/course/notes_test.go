package course

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/services/notify"
)

func TestNotes_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("created note is listed", func(t *testing.T) {
		ctrl, _, notifier := setup(t)
		ctrl.Notes.OpenCreate()

		require.NoError(t, ctrl.Notes.Create(ctx, NoteForm{Title: "Select", Note: "multiplexing"}))
		assert.False(t, ctrl.Notes.ModalOpen)
		assert.Equal(t, NoteForm{}, ctrl.Notes.Form)
		assert.Contains(t, ctrl.Notes.List(), Note{ID: 101, Title: "Select", Note: "multiplexing"})
		assert.Equal(t, 1, notifier.Count(notify.LevelSuccess))
	})

	t.Run("invalid form sends nothing", func(t *testing.T) {
		ctrl, backend, notifier := setup(t)
		ctrl.Notes.OpenCreate()

		err := ctrl.Notes.Create(ctx, NoteForm{Title: "Select"})
		require.Error(t, err)
		assert.Empty(t, backend.noteInputs)
		assert.True(t, ctrl.Notes.ModalOpen)
		assert.Equal(t, 1, notifier.Count(notify.LevelWarning))
	})

	t.Run("failure keeps the form", func(t *testing.T) {
		ctrl, backend, notifier := setup(t)
		backend.noteErr = core.NewAPIError(http.StatusBadRequest, "", core.FieldError{Field: "title", Error: "too long"})
		ctrl.Notes.OpenCreate()

		form := NoteForm{Title: "Select", Note: "multiplexing"}
		require.Error(t, ctrl.Notes.Create(ctx, form))
		assert.True(t, ctrl.Notes.ModalOpen)
		assert.Equal(t, form, ctrl.Notes.Form)
		assert.Len(t, ctrl.Notes.List(), 2)
		last, _ := notifier.Last()
		assert.Equal(t, notify.Toast{Level: notify.LevelError, Title: "Failed to create note: title: too long"}, last)
	})

	t.Run("concurrent submission is rejected", func(t *testing.T) {
		ctrl, backend, _ := setup(t)
		var nestedErr error
		backend.onCreateNote = func() {
			backend.onCreateNote = nil
			nestedErr = ctrl.Notes.Create(ctx, NoteForm{Title: "again", Note: "again"})
		}

		require.NoError(t, ctrl.Notes.Create(ctx, NoteForm{Title: "Select", Note: "multiplexing"}))
		assert.Equal(t, ErrBusy, nestedErr)
		assert.Len(t, backend.noteInputs, 1)
		assert.False(t, ctrl.Notes.Busy())
	})
}

func TestNotes_Edit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		form NoteForm
		want NoteInput
	}{
		{
			name: "both fields",
			form: NoteForm{Title: "Gophers", Note: "green threads"},
			want: NoteInput{UserID: 3, EnrollmentID: "enr1", Title: "Gophers", Note: "green threads"},
		},
		{
			name: "empty note keeps previous content",
			form: NoteForm{Title: "Gophers"},
			want: NoteInput{UserID: 3, EnrollmentID: "enr1", Title: "Gophers", Note: "cheap threads"},
		},
		{
			name: "blank title keeps previous title",
			form: NoteForm{Title: "  ", Note: "green threads"},
			want: NoteInput{UserID: 3, EnrollmentID: "enr1", Title: "Goroutines", Note: "green threads"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, backend, _ := setup(t)
			require.NoError(t, ctrl.Notes.OpenEdit(1))

			require.NoError(t, ctrl.Notes.Edit(ctx, 1, tt.form))
			assert.Equal(t, []NoteInput{tt.want}, backend.noteInputs)
			assert.Contains(t, ctrl.Notes.List(), Note{ID: 1, Title: tt.want.Title, Note: tt.want.Note})
			_, selected := ctrl.Notes.Selected()
			assert.False(t, selected)
		})
	}
}

func TestNotes_Delete(t *testing.T) {
	ctrl, _, _ := setup(t)

	require.NoError(t, ctrl.Notes.Delete(context.Background(), 2))
	assert.Equal(t, []Note{{ID: 1, Title: "Goroutines", Note: "cheap threads"}}, ctrl.Notes.List())
}

func TestNotes_Search(t *testing.T) {
	ctx := context.Background()
	ctrl, backend, _ := setup(t)

	require.NoError(t, ctrl.Notes.Search(ctx, "PIPES"))
	assert.Equal(t, []Note{{ID: 2, Title: "Channels", Note: "typed pipes"}}, ctrl.Notes.List())

	require.NoError(t, ctrl.Notes.Search(ctx, "nothing here"))
	assert.Empty(t, ctrl.Notes.List())

	gets := backend.gets
	require.NoError(t, ctrl.Notes.Search(ctx, " "))
	assert.Len(t, ctrl.Notes.List(), 2)
	assert.Equal(t, gets+1, backend.gets, "empty query refetches")
}
