package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/memory"
	"github.com/sandevgo/insurebot/pkg/log"
	"github.com/sandevgo/insurebot/pkg/retry"
)

type State int32

const (
	Idle State = iota
	Processing
)

func (s State) String() string {
	if s == Processing {
		return "processing"
	}
	return "idle"
}

type Config struct {
	TopK             int
	RetrievalTimeout time.Duration
	LLMTimeout       time.Duration
	// MaxRetries bounds repeats of a failed retrieval or generation call.
	MaxRetries int
	// Backoff overrides the retry delays; MaxRetries and Retryable are always set from here.
	Backoff *retry.Config
}

// TurnResult describes one finished turn, successful or not.
type TurnResult struct {
	Input string
	// Reply is the assistant message appended to the transcript: the answer,
	// or a notice when Err is set.
	Reply    core.Message
	Context  []core.ScoredChunk
	Prompt   []core.Message
	Err      error
	Duration time.Duration
}

// Session is a single conversation: the transcript shown to the user plus the
// memory the model sees. One turn runs at a time.
type Session struct {
	id        string
	cfg       Config
	retriever core.Retriever
	llm       core.LLM
	memory    *memory.Memory
	prompt    *SysPrompt
	archive   core.TranscriptArchive
	retrier   *retry.Retrier

	state atomic.Int32

	mu         sync.RWMutex
	transcript []core.Message
	last       *TurnResult
}

type Option func(*Session)

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

func WithPrompt(p *SysPrompt) Option {
	return func(s *Session) { s.prompt = p }
}

// WithArchive stores the transcript after every turn. Archive failures are logged only.
func WithArchive(a core.TranscriptArchive) Option {
	return func(s *Session) { s.archive = a }
}

func New(cfg Config, retriever core.Retriever, llm core.LLM, mem *memory.Memory, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		retriever:  retriever,
		llm:        llm,
		memory:     mem,
		transcript: []core.Message{{Role: core.RoleAssistant, Content: core.Greeting}},
	}
	for _, opt := range opts {
		opt(s)
	}

	rc := retry.NewDefaultConfig()
	if cfg.Backoff != nil {
		c := *cfg.Backoff
		rc = &c
	}
	rc.MaxRetries = cfg.MaxRetries
	rc.Retryable = retryable
	s.retrier = retry.NewRetrier(rc)

	return s
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// Transcript returns a copy of everything shown to the user so far.
func (s *Session) Transcript() []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transcript)
}

// Turn runs one question through retrieval and generation.
//
// Blank input returns core.ErrEmptyInput and changes nothing. Input arriving
// while another turn runs returns core.ErrBusy. Any other failure leaves the
// user message in place, appends a notice and returns the error along with
// the result.
func (s *Session) Turn(ctx context.Context, input string) (*TurnResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, core.ErrEmptyInput
	}
	if !s.state.CompareAndSwap(int32(Idle), int32(Processing)) {
		return nil, core.ErrBusy
	}
	defer s.state.Store(int32(Idle))

	logger := log.FromCtx(ctx).With().Str("session_id", s.ID()).Logger()
	ctx = logger.WithContext(ctx)

	start := time.Now()
	res := &TurnResult{Input: input}

	userMsg := core.Message{Role: core.RoleUser, Content: input}
	s.appendTranscript(userMsg)
	s.memory.Append(userMsg)

	reply, err := s.run(ctx, res)
	res.Duration = time.Since(start)

	if err != nil {
		res.Err = err
		res.Reply = core.Message{Role: core.RoleAssistant, Content: core.NoticeFor(err), Notice: true}
		s.finish(res)
		s.save(ctx)

		logger.Warn().Err(err).Dur("took", res.Duration).Msg("turn failed")
		return res, err
	}

	res.Reply = core.Message{Role: core.RoleAssistant, Content: reply}
	s.memory.Append(res.Reply)
	s.finish(res)
	s.save(ctx)

	logger.Info().
		Int("chunks", len(res.Context)).
		Int("prompt_messages", len(res.Prompt)).
		Dur("took", res.Duration).
		Msg("turn completed")
	return res, nil
}

func (s *Session) run(ctx context.Context, res *TurnResult) (string, error) {
	chunks, err := s.retrieve(ctx, res.Input)
	if err != nil {
		return "", err
	}
	res.Context = chunks

	window := s.memory.Window()
	res.Prompt = BuildPrompt(s.prompt.Instructions(), window, chunks)

	log.FromCtx(ctx).Debug().
		Int("window_messages", len(window)).
		Int("window_tokens", s.memory.Tokens(window)).
		Msg("prompt assembled")

	return s.complete(ctx, res.Prompt)
}

func (s *Session) retrieve(ctx context.Context, input string) ([]core.ScoredChunk, error) {
	var chunks []core.ScoredChunk
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		rctx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalTimeout)
		defer cancel()

		c, err := s.retriever.Retrieve(rctx, input, s.cfg.TopK)
		if err != nil {
			return err
		}
		chunks = c
		return nil
	})
	if err != nil {
		if !errors.Is(err, core.ErrEmbedding) && !errors.Is(err, core.ErrRetrievalUnavailable) {
			err = fmt.Errorf("%w: %w", core.ErrRetrievalUnavailable, err)
		}
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	return chunks, nil
}

func (s *Session) complete(ctx context.Context, prompt []core.Message) (string, error) {
	var reply string
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		lctx, cancel := context.WithTimeout(ctx, s.cfg.LLMTimeout)
		defer cancel()

		r, err := s.llm.Complete(lctx, prompt)
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrLLM, err)
		}
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("%w: empty reply", core.ErrLLM)
		}
		reply = strings.TrimSpace(r)
		return nil
	})
	if err != nil {
		if !errors.Is(err, core.ErrLLM) {
			err = fmt.Errorf("%w: %w", core.ErrLLM, err)
		}
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}

func (s *Session) appendTranscript(msg core.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msg)
}

// finish records the reply and the turn that produced it.
func (s *Session) finish(res *TurnResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, res.Reply)
	s.last = res
}

// LastTurn returns the most recent finished turn, or nil before the first one.
func (s *Session) LastTurn() *TurnResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// MemoryUsage reports the size of the current window against its token limit.
func (s *Session) MemoryUsage() (used, limit int) {
	return s.memory.Tokens(s.memory.Window()), s.memory.Limit()
}

// Reset starts a new conversation under a new ID. It fails with core.ErrBusy
// while a turn is running.
func (s *Session) Reset() error {
	if !s.state.CompareAndSwap(int32(Idle), int32(Processing)) {
		return core.ErrBusy
	}
	defer s.state.Store(int32(Idle))

	s.memory.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.transcript = []core.Message{{Role: core.RoleAssistant, Content: core.Greeting}}
	s.last = nil
	return nil
}

func (s *Session) save(ctx context.Context) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.archive.SaveTranscript(ctx, s.ID(), s.Transcript()); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to archive transcript")
	}
}

// retryable repeats store and model failures unless the provider said the
// request itself is wrong.
func retryable(err error) bool {
	if !errors.Is(err, core.ErrRetrievalUnavailable) && !errors.Is(err, core.ErrLLM) {
		return false
	}
	var t interface{ Retryable() bool }
	if errors.As(err, &t) {
		return t.Retryable()
	}
	return true
}
