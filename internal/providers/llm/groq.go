package llm

// Groq serves an OpenAI-compatible API under /openai.
type Groq struct {
	*OpenAICompatible
}

func NewGroq(apiKey, model string, temperature float64) *Groq {
	return &Groq{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:     "https://api.groq.com/openai",
			APIKey:      apiKey,
			Model:       model,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
			Temperature: temperature,
		}),
	}
}
