package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/insurebot/internal/core"
)

const DefaultInstructions = `You are an assistant for insurance information. Answer only questions about insurance policies: the types of policies, coverage options, premiums and claim processes, based on the knowledge base provided to you.
If a question is not related to insurance, or the knowledge base does not cover it, politely decline to answer and remind the user that this chatbot only handles insurance-related queries.`

const noContext = "No document in the knowledge base matched this question."

// SysPrompt supplies the fixed instructions. A non-empty file at path,
// read once at construction, replaces the built-in text so operators can reword
// them without a rebuild.
type SysPrompt struct {
	text string
}

func NewSysPrompt(path string) *SysPrompt {
	p := &SysPrompt{text: DefaultInstructions}
	if path == "" {
		return p
	}
	content, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(content)) == "" {
		return p
	}
	p.text = strings.TrimSpace(string(content))
	return p
}

func (p *SysPrompt) Instructions() string {
	if p == nil {
		return DefaultInstructions
	}
	return p.text
}

// FormatContext renders retrieved chunks as a system message body.
func FormatContext(chunks []core.ScoredChunk) string {
	var sb strings.Builder
	sb.WriteString("### Relevant Knowledge\n")
	if len(chunks) == 0 {
		sb.WriteString(noContext)
		return sb.String()
	}
	for i, c := range chunks {
		fmt.Fprintf(&sb, "\n[%d]", i+1)
		if src := c.Metadata["source"]; src != "" {
			fmt.Fprintf(&sb, " (%s)", src)
		}
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(c.Text))
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildPrompt assembles instructions, prior memory, retrieved context and the
// new input, in that order. window must end with the new user message.
func BuildPrompt(instructions string, window []core.Message, chunks []core.ScoredChunk) []core.Message {
	prompt := make([]core.Message, 0, len(window)+2)
	prompt = append(prompt, core.Message{Role: core.RoleSystem, Content: instructions})

	if len(window) == 0 {
		return append(prompt, core.Message{Role: core.RoleSystem, Content: FormatContext(chunks)})
	}

	last := len(window) - 1
	prompt = append(prompt, window[:last]...)
	prompt = append(prompt, core.Message{Role: core.RoleSystem, Content: FormatContext(chunks)})
	return append(prompt, window[last])
}
