package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToText flattens an HTML fragment into readable plain text.
// Input that fails to parse is returned trimmed but otherwise unchanged.
func HTMLToText(s string) string {
	text, err := html2text.FromString(s, html2text.Options{PrettyTables: true})
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(text)
}

// MarkdownToPlainText renders markdown and strips all markup, used where the
// rich rendering was rejected by the receiver.
func MarkdownToPlainText(md string) string {
	return HTMLToText(MarkdownToTelegramHTML([]byte(md)))
}
