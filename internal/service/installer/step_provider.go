package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandevgo/insurebot/internal/config"
)

// choiceStep is a vertical menu that stores the chosen id under envKey.
type choiceStep struct {
	prompt  string
	envKey  string
	choices []item
	cursor  int
}

func (s *choiceStep) Init() tea.Cmd {
	return nil
}

func (s *choiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[s.envKey] = s.choices[s.cursor].id
			return nil, nil
		}
	}
	return s, nil
}

func (s *choiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, choice := range s.choices {
		line := choice.title
		if choice.desc != "" {
			line += "  " + choice.desc
		}
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", line)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", line)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

// NewProviderStep allows selection of the LLM provider
func NewProviderStep() Step {
	return &choiceStep{
		prompt: "Select your LLM provider:",
		envKey: "LLM_PROVIDER",
		choices: []item{
			{id: config.ProviderGroq, title: "Groq", desc: "default, deepseek-r1-distill-llama-70b"},
			{id: config.ProviderOpenAI, title: "OpenAI"},
			{id: config.ProviderAnthropic, title: "Anthropic"},
			{id: config.ProviderOpenRouter, title: "OpenRouter"},
			{id: config.ProviderOllama, title: "Ollama"},
			{id: config.ProviderCustom, title: "Custom", desc: "any OpenAI-compatible endpoint"},
		},
	}
}

// NewStoreStep selects where the pre-built knowledge base lives
func NewStoreStep() Step {
	return &choiceStep{
		prompt: "Where is the insurance knowledge base stored?",
		envKey: "KNOWLEDGE_STORE",
		choices: []item{
			{id: config.StoreChroma, title: "Local directory", desc: "chromem persistent collection"},
			{id: config.StoreQdrant, title: "Qdrant", desc: "remote collection over REST"},
		},
	}
}

// NewChannelStep asks whether the Telegram bot should be configured too
func NewChannelStep() Step {
	return &choiceStep{
		prompt: "Select chat channels:",
		envKey: "INSURE_CHANNEL",
		choices: []item{
			{id: "terminal", title: "Terminal only"},
			{id: "telegram", title: "Terminal and Telegram"},
		},
	}
}
