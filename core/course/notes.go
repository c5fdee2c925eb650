package course

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

// NoteForm is the note modal's form.
type NoteForm struct {
	Title string `json:"title" validate:"required"`
	Note  string `json:"note" validate:"required"`
}

// Notes manages the enrollment's personal notes.
type Notes struct {
	c *Controller

	list     []Note
	query    string
	selected *Note
	busy     bool

	Form      NoteForm
	ModalOpen bool
}

func (n *Notes) reset() {
	n.query = ""
	n.list = append([]Note(nil), n.c.enrollment.Notes...)
	if n.selected != nil {
		if note, ok := n.c.enrollment.Note(n.selected.ID); ok {
			n.selected = &note
		} else {
			n.selected = nil
		}
	}
}

// List returns the notes currently shown, filtered by the last search.
func (n *Notes) List() []Note { return n.list }

func (n *Notes) Query() string { return n.query }

func (n *Notes) Busy() bool { return n.busy }

// Selected is the note being edited, if any.
func (n *Notes) Selected() (Note, bool) {
	if n.selected == nil {
		return Note{}, false
	}
	return *n.selected, true
}

// OpenCreate opens an empty note modal.
func (n *Notes) OpenCreate() {
	n.selected = nil
	n.Form = NoteForm{}
	n.ModalOpen = true
}

// OpenEdit opens the note modal on an existing note.
func (n *Notes) OpenEdit(noteID int) error {
	note, ok := n.c.enrollment.Note(noteID)
	if !ok {
		return errors.Errorf("note %d not found", noteID)
	}
	n.Select(note)
	return nil
}

// Select opens the note modal on note.
func (n *Notes) Select(note Note) {
	n.selected = &note
	n.Form = NoteForm{}
	n.ModalOpen = true
}

func (n *Notes) CloseModal() {
	n.ModalOpen = false
	n.selected = nil
}

// Create adds a note then refetches the enrollment.
// On failure the form keeps its content and the modal stays open.
func (n *Notes) Create(ctx context.Context, form NoteForm) error {
	release, err := guard(&n.busy)
	if err != nil {
		return err
	}
	defer release()

	n.Form = form
	if err := n.c.validate(form); err != nil {
		return err
	}

	_, err = n.c.backend.CreateNote(ctx, n.c.userID, n.c.enrollmentID, NoteInput{
		UserID:       n.c.userID,
		EnrollmentID: n.c.enrollmentID,
		Title:        form.Title,
		Note:         form.Note,
	})
	if err != nil {
		err = errors.Wrap(err, "creating note")
		n.c.fail("Failed to create note", err)
		return err
	}

	n.Form = NoteForm{}
	n.ModalOpen = false
	n.c.notifier.Success("Note created")
	return n.c.Load(ctx)
}

// Edit updates a note. Empty form fields keep the note's previous values.
func (n *Notes) Edit(ctx context.Context, noteID int, form NoteForm) error {
	release, err := guard(&n.busy)
	if err != nil {
		return err
	}
	defer release()

	prev, ok := n.c.enrollment.Note(noteID)
	if !ok {
		return errors.Errorf("note %d not found", noteID)
	}
	n.Form = form

	_, err = n.c.backend.UpdateNote(ctx, n.c.userID, n.c.enrollmentID, noteID, NoteInput{
		UserID:       n.c.userID,
		EnrollmentID: n.c.enrollmentID,
		Title:        core.FirstNonEmpty(strings.TrimSpace(form.Title), prev.Title),
		Note:         core.FirstNonEmpty(strings.TrimSpace(form.Note), prev.Note),
	})
	if err != nil {
		err = errors.Wrap(err, "updating note")
		n.c.fail("Failed to update note", err)
		return err
	}

	n.Form = NoteForm{}
	n.ModalOpen = false
	n.selected = nil
	n.c.notifier.Success("Note updated")
	return n.c.Load(ctx)
}

func (n *Notes) Delete(ctx context.Context, noteID int) error {
	release, err := guard(&n.busy)
	if err != nil {
		return err
	}
	defer release()

	if err := n.c.backend.DeleteNote(ctx, n.c.userID, n.c.enrollmentID, noteID); err != nil {
		err = errors.Wrap(err, "deleting note")
		n.c.fail("Failed to delete note", err)
		return err
	}

	n.c.notifier.Success("Note deleted")
	return n.c.Load(ctx)
}

// Search filters the fetched notes by title or content. An empty query refetches the list.
func (n *Notes) Search(ctx context.Context, query string) error {
	query = core.CleanString(query)
	if query == "" {
		return n.c.Load(ctx)
	}

	n.query = query
	n.list = n.list[:0:0]
	for _, note := range n.c.enrollment.Notes {
		if core.ContainsFold(note.Title, query) || core.ContainsFold(note.Note, query) {
			n.list = append(n.list, note)
		}
	}
	return nil
}
