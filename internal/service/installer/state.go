package installer

// InstallState collects the answers of every step as environment variables.
type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) Provider() string {
	return s.EnvVars["LLM_PROVIDER"]
}
