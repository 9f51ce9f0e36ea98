package core

import "errors"

var (
	// ErrStartupConfig means a required secret or setting is missing. Fatal.
	ErrStartupConfig = errors.New("startup configuration error")

	// Per-turn, recoverable.
	ErrEmbedding            = errors.New("embedding failure")
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	ErrLLM                  = errors.New("llm failure")

	ErrEmptyInput   = errors.New("empty input")
	ErrBusy         = errors.New("a turn is already in progress")
	ErrInvalidQuery = errors.New("invalid query")
)

const (
	NoticeEmbedding = "Sorry, I couldn't process your question right now. Please try again."
	NoticeRetrieval = "Sorry, the insurance knowledge base is unavailable right now. Please try again shortly."
	NoticeLLM       = "Sorry, I couldn't generate an answer right now. Please try again."
)

// NoticeFor maps a per-turn error to the text shown to the user.
func NoticeFor(err error) string {
	switch {
	case errors.Is(err, ErrEmbedding):
		return NoticeEmbedding
	case errors.Is(err, ErrRetrievalUnavailable):
		return NoticeRetrieval
	default:
		return NoticeLLM
	}
}
