package memory

import (
	"slices"
	"sync"

	"github.com/sandevgo/insurebot/internal/core"
)

// Memory is the append-only conversation record the model gets to see,
// read back through a token-bounded window. The greeting and error notices are
// never appended, so the window is a contiguous suffix of this record rather
// than of the displayed transcript.
type Memory struct {
	mu     sync.RWMutex
	tok    Tokenizer
	limit  int
	msgs   []core.Message
	counts []int
}

func New(tok Tokenizer, limit int) *Memory {
	return &Memory{tok: tok, limit: limit}
}

func (m *Memory) Append(msg core.Message) {
	n := m.count(msg)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	m.counts = append(m.counts, n)
}

// Window drops the oldest messages until the rest fit the token limit.
// The newest message is always kept, even when it alone is over the limit.
func (m *Memory) Window() []core.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, n := range m.counts {
		total += n
	}

	start := 0
	for total > m.limit && len(m.msgs)-start > 1 {
		total -= m.counts[start]
		start++
	}
	return slices.Clone(m.msgs[start:])
}

// Tokens is the serialized size of msgs as the window accounts for it.
func (m *Memory) Tokens(msgs []core.Message) int {
	total := 0
	for _, msg := range msgs {
		total += m.count(msg)
	}
	return total
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.msgs)
}

func (m *Memory) Limit() int {
	return m.limit
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = nil
	m.counts = nil
}

func (m *Memory) count(msg core.Message) int {
	return PerMessageOverhead + m.tok.Count(msg.Content)
}
