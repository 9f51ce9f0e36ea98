package memory

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/sandevgo/insurebot/pkg/log"
)

// PerMessageOverhead covers the role and separator tokens chat formats add
// around every message.
const PerMessageOverhead = 4

const DefaultEncoding = "cl100k_base"

type Tokenizer interface {
	Count(text string) int
}

type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

func NewTiktoken(encoding string) (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Estimate approximates one token per four characters.
type Estimate struct{}

func (Estimate) Count(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// NewTokenizer returns tiktoken when its encoding can be loaded and the
// estimator otherwise. tiktoken fetches the BPE ranks on first use.
func NewTokenizer(ctx context.Context) Tokenizer {
	tok, err := NewTiktoken(DefaultEncoding)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("tiktoken unavailable, estimating token counts")
		return Estimate{}
	}
	return tok
}
