package core

const (
	AppName       = "Insurance Agent"
	AppTagline    = "A chatbot powered by Groq and a local knowledge base for LIC insurance policy information"
	UserAgent     = "InsureBot/0.1"
	RepositoryURL = "https://github.com/sandevgo/insurebot"
	Version       = "0.1.0"

	Greeting = "Hi how can I help you today?"
)

type Role = string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Notice marks an assistant-role error notice shown in place of a reply.
	// Notices are never sent to the model.
	Notice bool `json:"-"`
}

// Chunk is a pre-embedded document segment read from the knowledge store.
type Chunk struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]string
}

type ScoredChunk struct {
	Chunk
	Score float32
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}
