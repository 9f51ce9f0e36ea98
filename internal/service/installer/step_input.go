package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/insurebot/internal/config"
)

// inputStep asks for a single value and stores it under envKey.
// An empty answer falls back to the placeholder when fallback is set.
type inputStep struct {
	input    textinput.Model
	prompt   string
	envKey   string
	fallback bool
	optional bool
	when     func(state *InstallState) bool
	validate func(string) error
	err      error
}

func newInputStep(prompt, envKey, placeholder string) *inputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	return &inputStep{input: ti, prompt: prompt, envKey: envKey}
}

func (s *inputStep) secret() *inputStep {
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'
	return s
}

func (s *inputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *inputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.when != nil && !s.when(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && s.fallback {
			val = s.input.Placeholder
		}
		if val == "" {
			if s.optional {
				return nil, nil
			}
			return s, cmd
		}
		if s.validate != nil {
			if err := s.validate(val); err != nil {
				s.err = err
				return s, cmd
			}
		}
		state.EnvVars[s.envKey] = val
		return nil, nil
	}
	return s, cmd
}

func (s *inputStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + ":\n\n" + s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	switch {
	case s.fallback:
		b.WriteString("(press enter to accept the default)\n")
	case s.optional:
		b.WriteString("(optional - press enter to skip)\n")
	default:
		b.WriteString("(press enter to confirm)\n")
	}
	return b.String()
}

func providerIs(name string) func(*InstallState) bool {
	return func(s *InstallState) bool { return s.Provider() == name }
}

func NewCustomURLStep() Step {
	s := newInputStep("Enter the OpenAI-compatible base URL", "CUSTOM_OPENAI_BASE_URL", "https://api.example.com")
	s.when = providerIs(config.ProviderCustom)
	return s
}

func NewOllamaURLStep() Step {
	s := newInputStep("Enter Ollama base URL", "OLLAMA_BASE_URL", "http://localhost:11434")
	s.fallback = true
	s.when = providerIs(config.ProviderOllama)
	return s
}

// NewEmbeddingURLStep points the embedder at the server that built the knowledge base.
func NewEmbeddingURLStep() Step {
	s := newInputStep("Enter the embedding server URL (serving BAAI/bge-base-en-v1.5)", "EMBEDDING_BASE_URL", "http://localhost:8080/v1")
	s.fallback = true
	return s
}

type storeLocationStep struct {
	chroma *inputStep
	qdrant *inputStep
}

// NewStoreLocationStep asks for the directory or URL of the chosen knowledge store.
func NewStoreLocationStep() Step {
	chroma := newInputStep("Enter the knowledge base directory", "CHROMA_PATH", "./chroma-db2")
	chroma.fallback = true
	qdrant := newInputStep("Enter the Qdrant URL", "QDRANT_URL", "http://localhost:6333")
	qdrant.fallback = true
	return &storeLocationStep{chroma: chroma, qdrant: qdrant}
}

func (s *storeLocationStep) active(state *InstallState) *inputStep {
	if state.EnvVars["KNOWLEDGE_STORE"] == config.StoreQdrant {
		return s.qdrant
	}
	return s.chroma
}

func (s *storeLocationStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *storeLocationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	next, cmd := s.active(state).Update(msg, state, width, height)
	if next == nil {
		return nil, cmd
	}
	return s, cmd
}

func (s *storeLocationStep) View(state *InstallState) string {
	return s.active(state).View(state)
}

func telegramEnabled(s *InstallState) bool {
	return s.EnvVars["INSURE_CHANNEL"] == "telegram"
}

// NewTelegramTokenStep collects the Telegram bot token
func NewTelegramTokenStep() Step {
	s := newInputStep("Enter your Telegram Bot Token", "TELEGRAM_TOKEN", "123456789:ABCDEF...").secret()
	s.when = telegramEnabled
	return s
}

// NewTelegramOwnerStep collects the Telegram owner ID
func NewTelegramOwnerStep() Step {
	s := newInputStep("Enter your Telegram User ID (Owner)", "TELEGRAM_OWNER_ID", "123456789")
	s.when = telegramEnabled
	s.validate = func(v string) error {
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("owner id must be numeric")
		}
		return nil
	}
	return s
}
