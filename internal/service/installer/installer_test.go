package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/session"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typeText(t *testing.T, step Step, state *InstallState, text string) Step {
	t.Helper()
	next, _ := step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}, state, 80, 24)
	require.NotNil(t, next)
	return next
}

func TestProviderStep(t *testing.T) {
	state := NewInstallState()
	step := NewProviderStep()

	step, _ = step.Update(down, state, 80, 24)
	require.NotNil(t, step)
	assert.Contains(t, step.View(state), "Anthropic")

	next, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, config.ProviderOpenAI, state.Provider())
}

func TestAPIKeyStep(t *testing.T) {
	state := NewInstallState()
	state.EnvVars["LLM_PROVIDER"] = config.ProviderGroq

	step := NewAPIKeyStep()
	step, _ = step.Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, step)
	assert.Contains(t, step.View(state), "Groq API Key")

	next, _ := step.Update(enter, state, 80, 24)
	require.NotNil(t, next, "groq key is required")

	next = typeText(t, next, state, "gsk_test")
	done, _ := next.Update(enter, state, 80, 24)
	assert.Nil(t, done)
	assert.Equal(t, "gsk_test", state.EnvVars["GROQ_API_KEY"])
}

func TestAPIKeyStep_OptionalForOllama(t *testing.T) {
	state := NewInstallState()
	state.EnvVars["LLM_PROVIDER"] = config.ProviderOllama

	step := NewAPIKeyStep()
	step, _ = step.Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, step)

	done, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, done)
	assert.NotContains(t, state.EnvVars, "OLLAMA_API_KEY")
}

func TestInputStep_SkippedForOtherProviders(t *testing.T) {
	state := NewInstallState()
	state.EnvVars["LLM_PROVIDER"] = config.ProviderGroq

	next, _ := NewCustomURLStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
	next, _ = NewOllamaURLStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
	assert.Empty(t, state.EnvVars["CUSTOM_OPENAI_BASE_URL"])
}

func TestInputStep_Fallback(t *testing.T) {
	state := NewInstallState()

	next, _ := NewEmbeddingURLStep().Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "http://localhost:8080/v1", state.EnvVars["EMBEDDING_BASE_URL"])
}

func TestStoreLocationStep(t *testing.T) {
	state := NewInstallState()
	state.EnvVars["KNOWLEDGE_STORE"] = config.StoreQdrant

	step := NewStoreLocationStep()
	assert.Contains(t, step.View(state), "Qdrant URL")

	next, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "http://localhost:6333", state.EnvVars["QDRANT_URL"])
	assert.NotContains(t, state.EnvVars, "CHROMA_PATH")
}

func TestTelegramOwnerStep(t *testing.T) {
	state := NewInstallState()

	next, _ := NewTelegramOwnerStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next, "telegram steps are skipped for terminal only setups")

	state.EnvVars["INSURE_CHANNEL"] = "telegram"
	step := typeText(t, NewTelegramOwnerStep(), state, "abc")
	step, _ = step.Update(enter, state, 80, 24)
	require.NotNil(t, step)
	assert.Contains(t, step.View(state), "numeric")

	step = typeText(t, NewTelegramOwnerStep(), state, "42")
	done, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, done)
	assert.Equal(t, "42", state.EnvVars["TELEGRAM_OWNER_ID"])
}

func TestModelStep(t *testing.T) {
	state := NewInstallState()
	state.EnvVars["LLM_PROVIDER"] = config.ProviderGroq

	step := NewModelStep(func(ctx context.Context, s *InstallState) ([]core.Model, error) {
		assert.Equal(t, config.ProviderGroq, s.Provider())
		return []core.Model{{ID: "deepseek-r1-distill-llama-70b", Name: "DeepSeek R1 70B"}}, nil
	})

	step, cmd := step.Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, cmd)
	step, _ = step.Update(cmd(), state, 80, 24)
	require.NotNil(t, step)

	done, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, done)
	assert.Equal(t, "deepseek-r1-distill-llama-70b", state.EnvVars["LLM_MODEL"])
}

func TestModelStep_SkipOnError(t *testing.T) {
	state := NewInstallState()
	step := NewModelStep(func(context.Context, *InstallState) ([]core.Model, error) {
		return nil, errors.New("unauthorized")
	})

	step, cmd := step.Update(nextMsg{}, state, 80, 24)
	step, _ = step.Update(cmd(), state, 80, 24)
	assert.Contains(t, step.View(state), "unauthorized")

	done, _ := step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, state, 80, 24)
	assert.Nil(t, done)
	assert.NotContains(t, state.EnvVars, "LLM_MODEL")
}

func TestFinalizationStep(t *testing.T) {
	state := NewInstallState()
	state.EnvVars["INSURE_CHANNEL"] = "telegram"

	next, _ := NewFinalizationStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
	assert.NotContains(t, state.EnvVars, "INSURE_CHANNEL")
	assert.Equal(t, "0", state.EnvVars["INSURE_DEBUG"])
}

func TestSaveEnv(t *testing.T) {
	root := filepath.Join(t.TempDir(), "runtime")
	state := NewInstallState()
	state.EnvVars["LLM_PROVIDER"] = config.ProviderGroq
	state.EnvVars["GROQ_API_KEY"] = "gsk_with spaces"

	require.NoError(t, SaveEnv(root, state))

	got, err := godotenv.Read(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, state.EnvVars, got)

	require.Error(t, SaveEnv(root, state), "existing .env is never overwritten")
}

func TestInitializeFiles(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, InitializeFiles(root))
	data, err := os.ReadFile(filepath.Join(root, "SYSTEM.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), session.DefaultInstructions)

	require.NoError(t, os.WriteFile(filepath.Join(root, "SYSTEM.md"), []byte("custom"), 0o644))
	require.NoError(t, InitializeFiles(root))
	data, err = os.ReadFile(filepath.Join(root, "SYSTEM.md"))
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))
}

func TestInitializeFilesStep_WarnsAboutScope(t *testing.T) {
	step := &InitializeFilesStep{root: t.TempDir()}

	next, _ := step.Update(nextMsg{}, NewInstallState(), 80, 24)
	assert.Nil(t, next)
	assert.Contains(t, step.View(NewInstallState()), "widen what the assistant answers")
}
