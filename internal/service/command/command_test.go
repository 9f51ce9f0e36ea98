package command

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/session"
)

type fakeConversation struct {
	last     *session.TurnResult
	resets   int
	resetErr error
}

func (f *fakeConversation) LastTurn() *session.TurnResult { return f.last }
func (f *fakeConversation) MemoryUsage() (int, int)       { return 120, 3000 }
func (f *fakeConversation) Reset() error {
	f.resets++
	return f.resetErr
}

func TestRouter_IgnoresQuestions(t *testing.T) {
	r := New(NewCommands(&fakeConversation{}))

	_, ok := r.Execute(context.Background(), "What is the premium for a term policy?")
	assert.False(t, ok)
}

func TestRouter_Help(t *testing.T) {
	r := New(NewCommands(&fakeConversation{}))

	out, ok := r.Execute(context.Background(), "/help")
	require.True(t, ok)
	for _, name := range []string{"/help", "/sources", "/new", "/memory"} {
		assert.Contains(t, out, name)
	}

	out, ok = r.Execute(context.Background(), "/bogus")
	require.True(t, ok)
	assert.Contains(t, out, "Unknown command: /bogus")
}

func TestRouter_StripsBotName(t *testing.T) {
	conv := &fakeConversation{}
	r := New(NewCommands(conv))

	_, ok := r.Execute(context.Background(), "/new@insure_bot")
	require.True(t, ok)
	assert.Equal(t, 1, conv.resets)
}

func TestNewConversationCommand_Busy(t *testing.T) {
	conv := &fakeConversation{resetErr: core.ErrBusy}
	r := New(NewCommands(conv))

	out, ok := r.Execute(context.Background(), "/new")
	require.True(t, ok)
	assert.Contains(t, out, core.ErrBusy.Error())
}

func TestSourcesCommand(t *testing.T) {
	conv := &fakeConversation{}
	cmd := NewSourcesCommand(conv)

	out, err := cmd.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Ask a question first")

	conv.last = &session.TurnResult{Context: []core.ScoredChunk{
		{Chunk: core.Chunk{Text: "Term plan\npremiums depend on age.", Metadata: map[string]string{"source": "jeevan-amar.pdf"}}, Score: 0.912},
		{Chunk: core.Chunk{Text: strings.Repeat("claim ", 100)}, Score: 0.5},
	}}
	out, err = cmd.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "**[1]** score 0.912 · jeevan-amar.pdf")
	assert.Contains(t, out, "Term plan premiums depend on age.")
	assert.Contains(t, out, "…")
}

func TestMemoryCommand(t *testing.T) {
	out, err := NewMemoryCommand(&fakeConversation{}).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "120 / 3000 tokens")
}
