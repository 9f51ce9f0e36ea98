package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/session"
)

type fakeChat struct {
	mu         sync.Mutex
	transcript []core.Message
	inputs     []string
	reply      core.Message
	err        error
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		transcript: []core.Message{{Role: core.RoleAssistant, Content: core.Greeting}},
		reply:      core.Message{Role: core.RoleAssistant, Content: "A **term plan** covers death only."},
	}
}

func (f *fakeChat) Turn(ctx context.Context, input string) (*session.TurnResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	f.transcript = append(f.transcript, core.Message{Role: core.RoleUser, Content: input}, f.reply)
	return &session.TurnResult{Input: input, Reply: f.reply, Duration: time.Second}, f.err
}

func (f *fakeChat) LastTurn() *session.TurnResult { return nil }
func (f *fakeChat) MemoryUsage() (int, int)       { return 42, 3000 }

func (f *fakeChat) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcript = f.transcript[:1]
	return nil
}

func (f *fakeChat) Transcript() []core.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Message(nil), f.transcript...)
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 30})
	return next.(Model)
}

func typeLine(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func TestModel_ShowsGreeting(t *testing.T) {
	m := New(context.Background(), newFakeChat())
	assert.Equal(t, "Loading...", m.View())

	m = sized(t, m)
	view := m.View()
	assert.Contains(t, view, core.AppName)
	assert.Contains(t, view, core.Greeting)
}

func TestModel_SubmitRunsTurn(t *testing.T) {
	chat := newFakeChat()
	m := typeLine(sized(t, New(context.Background(), chat)), "What is a term plan?")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "Thinking...")
	assert.Contains(t, m.View(), "What is a term plan?")

	done := m.turn("What is a term plan?")()
	require.IsType(t, turnDoneMsg{}, done)

	next, _ = m.Update(done)
	m = next.(Model)
	assert.False(t, m.busy)
	assert.Contains(t, m.View(), "covers death only")
	assert.NotContains(t, m.View(), "**")
	assert.Equal(t, []string{"What is a term plan?"}, chat.inputs)
}

func TestModel_BlankInputIgnored(t *testing.T) {
	m := typeLine(sized(t, New(context.Background(), newFakeChat())), "   ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, next.(Model).busy)
}

func TestModel_RejectsInputWhileBusy(t *testing.T) {
	m := sized(t, New(context.Background(), newFakeChat()))
	m.busy = true
	m = typeLine(m, "second question")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, next.(Model).status, "Still answering")
}

func TestModel_NoticeOnFailure(t *testing.T) {
	chat := newFakeChat()
	chat.reply = core.Message{Role: core.RoleAssistant, Content: core.NoticeRetrieval, Notice: true}
	chat.err = core.ErrRetrievalUnavailable

	m := sized(t, New(context.Background(), chat))
	next, _ := m.Update(m.turn("claim status?")())
	view := next.(Model).View()

	assert.Contains(t, view, core.NoticeRetrieval)
	assert.Contains(t, view, failedStatus)
}

func TestModel_StatusHidesErrorDetail(t *testing.T) {
	err := fmt.Errorf("generate reply: %w: http 401: {\"error\":\"invalid key\"}", core.ErrLLM)
	status := statusFor(nil, err)

	assert.Contains(t, status, failedStatus)
	assert.NotContains(t, status, "invalid key")
}

func TestModel_CommandWhileBusyKeepsQuestionOnce(t *testing.T) {
	chat := newFakeChat()
	m := typeLine(sized(t, New(context.Background(), chat)), "ZZQ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, strings.Count(m.View(), "ZZQ"))

	// the session records the question as soon as the turn starts
	chat.mu.Lock()
	chat.transcript = append(chat.transcript, core.Message{Role: core.RoleUser, Content: "ZZQ"})
	chat.mu.Unlock()

	m = typeLine(m, "/memory")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.True(t, m.busy)
	assert.Contains(t, m.View(), "42 / 3000 tokens")
	assert.Equal(t, 1, strings.Count(m.View(), "ZZQ"))

	next, _ = m.Update(tea.WindowSizeMsg{Width: 180, Height: 30})
	assert.Equal(t, 1, strings.Count(next.(Model).View(), "ZZQ"))
}

func TestModel_Quit(t *testing.T) {
	m := New(context.Background(), newFakeChat())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_SlashCommandsRunLocally(t *testing.T) {
	chat := newFakeChat()
	m := sized(t, New(context.Background(), chat))
	next, _ := m.Update(m.turn("What is a term plan?")())
	m = next.(Model)

	m = typeLine(m, "/memory")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "42 / 3000 tokens")

	m = typeLine(m, "/new")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.NotContains(t, m.View(), "What is a term plan?")
	assert.Equal(t, []string{"What is a term plan?"}, chat.inputs)
}
