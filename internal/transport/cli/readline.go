package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/command"
	"github.com/sandevgo/insurebot/internal/service/session"
	"github.com/sandevgo/insurebot/pkg/conv"
	"github.com/sandevgo/insurebot/pkg/log"
)

// Chat is the conversation the prompt talks to.
type Chat interface {
	Turn(ctx context.Context, input string) (*session.TurnResult, error)
	command.Conversation
}

// ReadLine is a line-oriented chat for terminals where the full-screen UI does not fit.
type ReadLine struct {
	chat   Chat
	router *command.Router
	rl     *readline.Instance
}

func NewReadLine(chat Chat, historyFile string) (*ReadLine, error) {
	if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		chat:   chat,
		router: command.New(command.NewCommands(chat)),
		rl:     rl,
	}, nil
}

// Run reads questions until exit, EOF, ctrl+c on an empty line or ctx ends.
func (r *ReadLine) Run(ctx context.Context) error {
	out := r.rl.Stdout()
	fmt.Fprintf(out, "%s\n%s\n\n", core.AppName, core.Greeting)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if r.handleLine(ctx, line, out) {
			return nil
		}
	}
}

// handleLine answers one line and reports whether the user asked to leave.
func (r *ReadLine) handleLine(ctx context.Context, line string, out io.Writer) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "exit", "quit":
		return true
	}

	if reply, ok := r.router.Execute(ctx, line); ok {
		fmt.Fprintf(out, "%s\n\n", conv.MarkdownToPlainText(reply))
		return false
	}

	res, err := r.chat.Turn(ctx, line)
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Msg("turn failed")
	}
	if res != nil {
		fmt.Fprintf(out, "%s\n\n", FormatReply(res.Reply))
	}
	return false
}

// FormatReply renders an assistant message for a plain terminal. Notices are
// printed verbatim.
func FormatReply(msg core.Message) string {
	if msg.Notice {
		return msg.Content
	}
	return conv.MarkdownToPlainText(msg.Content)
}

func (r *ReadLine) Close() error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
