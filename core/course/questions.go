package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

type QuestionForm struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type MessageForm struct {
	Message string `json:"message" validate:"required"`
}

// Questions manages the course's Q&A threads.
type Questions struct {
	c *Controller

	list   []Question
	query  string
	active *Question
	busy   bool

	Form      QuestionForm
	ModalOpen bool
}

func (q *Questions) reset() {
	q.query = ""
	q.list = append([]Question(nil), q.c.enrollment.Questions...)
}

// List returns the threads currently shown, filtered by the last search.
func (q *Questions) List() []Question { return q.list }

func (q *Questions) Query() string { return q.query }

func (q *Questions) Busy() bool { return q.busy }

// Active is the thread whose conversation is open, if any.
func (q *Questions) Active() (Question, bool) {
	if q.active == nil {
		return Question{}, false
	}
	return *q.active, true
}

func (q *Questions) OpenAsk() {
	q.Form = QuestionForm{}
	q.ModalOpen = true
}

// OpenConversation opens a thread by its qa_id.
func (q *Questions) OpenConversation(qaID int) error {
	for _, thread := range q.c.enrollment.Questions {
		if thread.QAID == qaID {
			q.Open(thread)
			return nil
		}
	}
	return errors.Errorf("question %d not found", qaID)
}

// Open opens the conversation of a thread.
func (q *Questions) Open(thread Question) {
	q.active = &thread
}

func (q *Questions) CloseConversation() {
	q.active = nil
}

// Ask creates a new thread then refetches the enrollment.
func (q *Questions) Ask(ctx context.Context, form QuestionForm) error {
	release, err := guard(&q.busy)
	if err != nil {
		return err
	}
	defer release()

	q.Form = form
	if err := q.c.validate(form); err != nil {
		return err
	}

	_, err = q.c.backend.CreateQuestion(ctx, QuestionInput{
		CourseID: q.c.courseID(),
		UserID:   q.c.userID,
		Title:    form.Title,
		Message:  form.Message,
	})
	if err != nil {
		err = errors.Wrap(err, "creating question")
		q.c.fail("Failed to ask question", err)
		return err
	}

	q.Form = QuestionForm{}
	q.ModalOpen = false
	q.c.notifier.Success("Question sent")
	return q.c.Load(ctx)
}

// Reply appends a message to the active thread. The thread is replaced by the server's copy.
func (q *Questions) Reply(ctx context.Context, form MessageForm) error {
	if q.active == nil {
		return ErrNoConversation
	}
	release, err := guard(&q.busy)
	if err != nil {
		return err
	}
	defer release()

	if err := q.c.validate(form); err != nil {
		return err
	}

	thread, err := q.c.backend.SendMessage(ctx, MessageInput{
		CourseID: q.c.courseID(),
		UserID:   q.c.userID,
		QAID:     q.active.QAID,
		Message:  form.Message,
	})
	if err != nil {
		err = errors.Wrap(err, "sending message")
		q.c.fail("Failed to send message", err)
		return err
	}

	q.active = &thread
	q.replace(thread)
	return nil
}

func (q *Questions) replace(thread Question) {
	for i := range q.c.enrollment.Questions {
		if q.c.enrollment.Questions[i].QAID == thread.QAID {
			q.c.enrollment.Questions[i] = thread
		}
	}
	for i := range q.list {
		if q.list[i].QAID == thread.QAID {
			q.list[i] = thread
		}
	}
}

// Search filters the fetched threads by title. An empty query refetches the list.
func (q *Questions) Search(ctx context.Context, query string) error {
	query = core.CleanString(query)
	if query == "" {
		return q.c.Load(ctx)
	}

	q.query = query
	q.list = q.list[:0:0]
	for _, thread := range q.c.enrollment.Questions {
		if core.ContainsFold(thread.Title, query) {
			q.list = append(q.list, thread)
		}
	}
	return nil
}
