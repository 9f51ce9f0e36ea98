package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/command"
	"github.com/sandevgo/insurebot/internal/service/session"
	"github.com/sandevgo/insurebot/internal/service/ui"
	"github.com/sandevgo/insurebot/pkg/conv"
)

// Chat is the TUI-facing subset of a session.
type Chat interface {
	Turn(ctx context.Context, input string) (*session.TurnResult, error)
	Transcript() []core.Message
	command.Conversation
}

type turnDoneMsg struct {
	res *session.TurnResult
	err error
}

// Model renders the conversation and feeds typed questions to the session.
type Model struct {
	ctx      context.Context
	chat     Chat
	router   *command.Router
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	pending  string
	// info is command output shown under the transcript until the next input.
	info     string
	busy     bool
	status   string
	ready    bool
}

// New creates a new TUI model bound to chat. ctx scopes every turn.
func New(ctx context.Context, chat Chat) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about policies, premiums or claims"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.FlagStyle

	return Model{
		ctx:      ctx,
		chat:     chat,
		router:   command.New(command.NewCommands(chat)),
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		status:   "Type a question and press Enter. /help lists commands, ctrl+c quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		bw, bh := ui.BoxStyle.GetFrameSize()
		reserved := 2 + 1 + bh + 1 // header, status, input box, spacer
		m.viewport.Width = max(20, msg.Width-bw)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.input.Width = max(10, msg.Width-bw-len(m.input.Prompt)-1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case turnDoneMsg:
		m.busy = false
		m.pending = ""
		m.status = statusFor(msg.res, msg.err)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return m, nil
	}
	if out, ok := m.router.Execute(m.ctx, q); ok {
		m.info = conv.MarkdownToPlainText(out)
		m.input.Reset()
		m.refresh()
		return m, nil
	}
	if m.busy {
		m.status = "Still answering the previous question..."
		return m, nil
	}

	m.busy = true
	m.info = ""
	m.pending = q
	m.status = ""
	m.input.Reset()
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.turn(q))
}

func (m Model) turn(input string) tea.Cmd {
	ctx, chat := m.ctx, m.chat
	return func() tea.Msg {
		res, err := chat.Turn(ctx, input)
		return turnDoneMsg{res: res, err: err}
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	msgs := m.chat.Transcript()
	if m.pending != "" && !endsWithUser(msgs, m.pending) {
		msgs = append(msgs, core.Message{Role: core.RoleUser, Content: m.pending})
	}
	content := renderTranscript(msgs, m.viewport.Width)
	if m.info != "" {
		content += "\n" + ui.DescStyle.Render(m.info) + "\n"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// endsWithUser reports whether the session already recorded the pending input.
func endsWithUser(msgs []core.Message, input string) bool {
	if len(msgs) == 0 {
		return false
	}
	last := msgs[len(msgs)-1]
	return last.Role == core.RoleUser && last.Content == input
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := ui.TitleStyle.UnsetMarginBottom().Render(core.AppName) + "\n" + ui.DescStyle.Render(core.AppTagline)

	status := ui.DescStyle.Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + ui.DescStyle.Render("Thinking...")
	}

	return header + "\n" +
		ui.BoxStyle.Render(m.viewport.View()) + "\n" +
		ui.BoxStyle.Render(m.input.View()) + "\n" +
		status
}

var (
	userLabel      = ui.UsageStyle.Bold(true)
	assistantLabel = ui.TitleStyle.UnsetMarginBottom()
)

func renderTranscript(msgs []core.Message, width int) string {
	body := lipgloss.NewStyle().Width(max(10, width-2)).PaddingLeft(2)

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case msg.Role == core.RoleUser:
			b.WriteString(userLabel.Render("You") + "\n")
			b.WriteString(body.Render(msg.Content) + "\n")
		case msg.Notice:
			b.WriteString(assistantLabel.Render(core.AppName) + "\n")
			b.WriteString(body.Inherit(ui.ErrorStyle).Render(msg.Content) + "\n")
		default:
			b.WriteString(assistantLabel.Render(core.AppName) + "\n")
			b.WriteString(body.Render(conv.MarkdownToPlainText(msg.Content)) + "\n")
		}
	}
	return b.String()
}

const failedStatus = "The last answer failed, details are in the log file."

func statusFor(res *session.TurnResult, err error) string {
	switch {
	case errors.Is(err, core.ErrBusy):
		return "Still answering the previous question..."
	case errors.Is(err, core.ErrEmptyInput):
		return ""
	case err != nil:
		return ui.ErrorStyle.Render(failedStatus)
	case res != nil:
		return fmt.Sprintf("%d sources · %s", len(res.Context), res.Duration.Round(10*time.Millisecond))
	}
	return ""
}

// Run starts the chat TUI and blocks until the user quits.
func Run(ctx context.Context, chat Chat) error {
	p := tea.NewProgram(New(ctx, chat), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
