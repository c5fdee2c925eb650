package course

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestions_Ask(t *testing.T) {
	ctx := context.Background()
	ctrl, _, _ := setup(t)
	ctrl.Questions.OpenAsk()

	require.Error(t, ctrl.Questions.Ask(ctx, QuestionForm{Title: "No message"}))
	assert.True(t, ctrl.Questions.ModalOpen)

	require.NoError(t, ctrl.Questions.Ask(ctx, QuestionForm{Title: "Generics?", Message: "since when"}))
	assert.False(t, ctrl.Questions.ModalOpen)
	assert.Len(t, ctrl.Questions.List(), 3)
}

func TestQuestions_Reply(t *testing.T) {
	ctx := context.Background()

	t.Run("no conversation", func(t *testing.T) {
		ctrl, _, _ := setup(t)
		assert.Equal(t, ErrNoConversation, ctrl.Questions.Reply(ctx, MessageForm{Message: "hi"}))
	})

	t.Run("thread is replaced by the server's copy", func(t *testing.T) {
		ctrl, _, _ := setup(t)
		require.NoError(t, ctrl.Questions.OpenConversation(21))

		require.NoError(t, ctrl.Questions.Reply(ctx, MessageForm{Message: "use the installer"}))
		active, ok := ctrl.Questions.Active()
		require.True(t, ok)
		assert.Equal(t, []Message{{Message: "use the installer"}}, active.Messages)
		assert.Equal(t, active, ctrl.Questions.List()[0])
	})

	t.Run("failure keeps the thread", func(t *testing.T) {
		ctrl, backend, _ := setup(t)
		backend.msgErr = errors.New("boom")
		require.NoError(t, ctrl.Questions.OpenConversation(22))

		require.Error(t, ctrl.Questions.Reply(ctx, MessageForm{Message: "hello"}))
		active, _ := ctrl.Questions.Active()
		assert.Empty(t, active.Messages)
	})
}

func TestQuestions_Search(t *testing.T) {
	ctx := context.Background()
	ctrl, backend, _ := setup(t)

	require.NoError(t, ctrl.Questions.Search(ctx, "install"))
	require.Len(t, ctrl.Questions.List(), 1)
	assert.Equal(t, 21, ctrl.Questions.List()[0].QAID)

	// message bodies are not searched
	require.NoError(t, ctrl.Questions.Search(ctx, "what are they"))
	assert.Empty(t, ctrl.Questions.List())

	gets := backend.gets
	require.NoError(t, ctrl.Questions.Search(ctx, ""))
	assert.Len(t, ctrl.Questions.List(), 2)
	assert.Equal(t, gets+1, backend.gets)
}
