package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep drops answers that only steer the wizard itself
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.EnvVars["INSURE_DEBUG"] == "" {
		state.EnvVars["INSURE_DEBUG"] = "0"
	}

	delete(state.EnvVars, "INSURE_CHANNEL")
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
