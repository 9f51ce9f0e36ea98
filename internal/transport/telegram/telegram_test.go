package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/command"
	"github.com/sandevgo/insurebot/internal/service/session"
)

func TestReplyFor(t *testing.T) {
	notice := &session.TurnResult{Reply: core.Message{Role: core.RoleAssistant, Content: core.NoticeRetrieval, Notice: true}}
	answer := &session.TurnResult{Reply: core.Message{Role: core.RoleAssistant, Content: "A **term plan** pays on death."}}

	tests := []struct {
		name   string
		res    *session.TurnResult
		err    error
		want   string
		wantOK bool
	}{
		{name: "answer", res: answer, want: answer.Reply.Content, wantOK: true},
		{name: "notice", res: notice, err: core.ErrRetrievalUnavailable, want: core.NoticeRetrieval, wantOK: true},
		{name: "blank input", err: core.ErrEmptyInput},
		{name: "busy", err: core.ErrBusy, want: busyReply, wantOK: true},
		{name: "error without result", err: fmt.Errorf("wrap: %w", core.ErrEmbedding), want: core.NoticeEmbedding, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := replyFor(tt.res, tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitHTML(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitHTML("short", 10))

	text := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)
	assert.Equal(t, []string{"aaaaaa", "bbbbbb"}, splitHTML(text, 10))

	long := strings.Repeat("x", 25)
	chunks := splitHTML(long, 10)
	require.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
}

type sent struct {
	text string
	html bool
}

type fakeMessenger struct {
	rejectHTML bool
	sent       []sent
}

func (f *fakeMessenger) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	html := false
	for _, o := range opts {
		if o == tele.ModeHTML {
			html = true
		}
	}
	if html && f.rejectHTML {
		return nil, errors.New("can't parse entities")
	}
	f.sent = append(f.sent, sent{text: what.(string), html: html})
	return &tele.Message{}, nil
}

func TestSender_SendMarkdown(t *testing.T) {
	m := &fakeMessenger{}
	s := newSender(m)

	require.NoError(t, s.sendMarkdown(context.Background(), &tele.Chat{ID: 1}, "Premiums are **annual**."))
	require.Len(t, m.sent, 1)
	assert.True(t, m.sent[0].html)
	assert.Contains(t, m.sent[0].text, "<strong>annual</strong>")
}

func TestSender_FallsBackToPlainText(t *testing.T) {
	m := &fakeMessenger{rejectHTML: true}
	s := newSender(m)

	require.NoError(t, s.sendMarkdown(context.Background(), &tele.Chat{ID: 1}, "Premiums are **annual**."))
	require.Len(t, m.sent, 1)
	assert.False(t, m.sent[0].html)
	assert.Contains(t, m.sent[0].text, "annual")
	assert.NotContains(t, m.sent[0].text, "<strong>")
}

type fakeChat struct {
	inputs []string
	resets int
}

func (f *fakeChat) Turn(ctx context.Context, input string) (*session.TurnResult, error) {
	f.inputs = append(f.inputs, input)
	return &session.TurnResult{Reply: core.Message{Role: core.RoleAssistant, Content: "Premiums are paid yearly."}}, nil
}

func (f *fakeChat) LastTurn() *session.TurnResult { return nil }
func (f *fakeChat) MemoryUsage() (int, int)       { return 0, 3000 }
func (f *fakeChat) Reset() error {
	f.resets++
	return nil
}

func TestBot_Respond(t *testing.T) {
	chat := &fakeChat{}
	b := &Bot{chat: chat, router: command.New(command.NewCommands(chat))}

	out, ok := b.respond(context.Background(), "How are premiums paid?")
	require.True(t, ok)
	assert.Equal(t, "Premiums are paid yearly.", out)

	out, ok = b.respond(context.Background(), "/new")
	require.True(t, ok)
	assert.Contains(t, out, "new conversation")
	assert.Equal(t, 1, chat.resets)
	assert.Equal(t, []string{"How are premiums paid?"}, chat.inputs, "commands never reach the model")
}
