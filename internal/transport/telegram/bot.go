package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/command"
	"github.com/sandevgo/insurebot/internal/service/session"
	"github.com/sandevgo/insurebot/pkg/log"
)

const baseContextKey = "base_context"

const busyReply = "Still working on your previous question, please wait a moment."

// Chat is the conversation the owner talks to.
type Chat interface {
	Turn(ctx context.Context, input string) (*session.TurnResult, error)
	command.Conversation
}

type Bot struct {
	bot     *tele.Bot
	sender  *sender
	chat    Chat
	router  *command.Router
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	chat Chat,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		sender:  newSender(b),
		chat:    chat,
		router:  command.New(command.NewCommands(chat)),
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(fmt.Sprintf("<b>%s</b>\n%s", core.AppName, core.Greeting), tele.ModeHTML)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := baseContext(c)
	logger := log.FromCtx(ctx).With().Int64("chat_id", c.Chat().ID).Logger()
	ctx = logger.WithContext(ctx)

	_ = c.Notify(tele.Typing)

	text, ok := b.respond(ctx, c.Text())
	if !ok {
		return nil
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), text)
}

// respond answers a slash command directly and runs anything else as a turn.
func (b *Bot) respond(ctx context.Context, text string) (string, bool) {
	if out, ok := b.router.Execute(ctx, text); ok {
		return out, true
	}
	res, err := b.chat.Turn(ctx, text)
	return replyFor(res, err)
}

// replyFor picks the text sent back for a finished turn.
// ok is false when nothing should be sent.
func replyFor(res *session.TurnResult, err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrEmptyInput):
		return "", false
	case errors.Is(err, core.ErrBusy):
		return busyReply, true
	case res != nil:
		return res.Reply.Content, res.Reply.Content != ""
	case err != nil:
		return core.NoticeFor(err), true
	}
	return "", false
}

func baseContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}
