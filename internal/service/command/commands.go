package command

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/insurebot/internal/service/session"
)

// Conversation is the part of a session the commands inspect or reset.
type Conversation interface {
	LastTurn() *session.TurnResult
	MemoryUsage() (used, limit int)
	Reset() error
}

const excerptLen = 240

// SourcesCommand lists the knowledge chunks behind the last answer.
type SourcesCommand struct {
	conv      Conversation
	formatter *ResponseFormatter
}

func NewSourcesCommand(conv Conversation) *SourcesCommand {
	return &SourcesCommand{conv: conv, formatter: NewResponseFormatter()}
}

func (c *SourcesCommand) Name() string        { return "sources" }
func (c *SourcesCommand) Description() string { return "Show the passages used for the last answer" }

func (c *SourcesCommand) Execute(ctx context.Context, args []string) (string, error) {
	last := c.conv.LastTurn()
	if last == nil {
		return c.formatter.Tip("Ask a question first."), nil
	}
	if len(last.Context) == 0 {
		return c.formatter.Tip("No passages were retrieved for the last question."), nil
	}

	items := make([]string, 0, len(last.Context))
	for i, sc := range last.Context {
		head := fmt.Sprintf("**[%d]** score %.3f", i+1, sc.Score)
		if src := sc.Metadata["source"]; src != "" {
			head += " · " + src
		}
		items = append(items, head+"\n"+excerpt(sc.Text, excerptLen))
	}
	return c.formatter.Combine(c.formatter.Info("Sources"), c.formatter.List(items)), nil
}

// NewConversationCommand clears the transcript and the model's memory.
type NewConversationCommand struct {
	conv      Conversation
	formatter *ResponseFormatter
}

func NewNewConversationCommand(conv Conversation) *NewConversationCommand {
	return &NewConversationCommand{conv: conv, formatter: NewResponseFormatter()}
}

func (c *NewConversationCommand) Name() string        { return "new" }
func (c *NewConversationCommand) Description() string { return "Start a new conversation" }

func (c *NewConversationCommand) Execute(ctx context.Context, args []string) (string, error) {
	if err := c.conv.Reset(); err != nil {
		return "", err
	}
	return c.formatter.Success("Started a new conversation."), nil
}

// MemoryCommand shows how much of the token budget the history uses.
type MemoryCommand struct {
	conv      Conversation
	formatter *ResponseFormatter
}

func NewMemoryCommand(conv Conversation) *MemoryCommand {
	return &MemoryCommand{conv: conv, formatter: NewResponseFormatter()}
}

func (c *MemoryCommand) Name() string        { return "memory" }
func (c *MemoryCommand) Description() string { return "Show conversation memory usage" }

func (c *MemoryCommand) Execute(ctx context.Context, args []string) (string, error) {
	used, limit := c.conv.MemoryUsage()
	return c.formatter.Combine(
		c.formatter.Info("Memory"),
		c.formatter.Label("Window", fmt.Sprintf("%d / %d tokens", used, limit)),
		c.formatter.Tip("Older messages are dropped first once the window is full."),
	), nil
}

func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return string(r[:n]) + "…"
}
