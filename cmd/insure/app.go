package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/providers/embedding"
	"github.com/sandevgo/insurebot/internal/providers/llm"
	"github.com/sandevgo/insurebot/internal/service/memory"
	"github.com/sandevgo/insurebot/internal/service/retriever"
	"github.com/sandevgo/insurebot/internal/service/session"
	"github.com/sandevgo/insurebot/internal/storage/chroma"
	"github.com/sandevgo/insurebot/internal/storage/qdrant"
	"github.com/sandevgo/insurebot/internal/storage/sqlite"
	"github.com/sandevgo/insurebot/pkg/log"
	"github.com/sandevgo/insurebot/pkg/srv"
)

// app holds everything a conversation needs. Sessions are cheap and created per chat.
type app struct {
	cfg       *config.AppConfig
	db        *sql.DB
	archive   core.TranscriptArchive
	store     core.KnowledgeStore
	retriever core.Retriever
	llm       core.LLM
	tokenizer memory.Tokenizer
	prompt    *session.SysPrompt
}

// loadAppConfig reads the .env files and the general settings.
func loadAppConfig() (*config.AppConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStartupConfig, err)
	}
	return config.LoadAppConfig()
}

func newApp(ctx context.Context, appCfg *config.AppConfig) (*app, error) {
	logger := log.FromCtx(ctx)

	// 1. Configuration
	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}
	embCfg, err := config.LoadEmbeddingConfig()
	if err != nil {
		return nil, err
	}
	storeCfg, err := config.LoadStoreConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       appCfg,
		tokenizer: memory.NewTokenizer(ctx),
		prompt:    session.NewSysPrompt(appCfg.GetSystemPromptPath()),
	}

	// 2. Storage
	a.db, err = sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if appCfg.ArchiveTranscripts {
		a.archive = sqlite.NewTranscriptRepo(a.db)
	}

	// 3. Embedder
	var cache core.EmbeddingCache
	if embCfg.Cache {
		cache = sqlite.NewEmbeddingCacheRepo(a.db)
	}
	embedder, err := embedding.New(ctx, embCfg, cache)
	if err != nil {
		a.close()
		return nil, err
	}

	// 4. Knowledge store
	a.store, err = openStore(ctx, storeCfg, embedder)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%w: %w", core.ErrStartupConfig, err)
	}
	a.retriever = retriever.New(embedder, a.store)

	// 5. LLM
	a.llm, err = llm.NewProvider(ctx, llmCfg)
	if err != nil {
		a.close()
		return nil, err
	}

	logger.Info().
		Str("llm", llmCfg.Provider+"/"+llmCfg.Model).
		Str("embedding", embCfg.Model).
		Str("store", storeCfg.Backend+"/"+storeCfg.Collection).
		Msg("initialized")
	return a, nil
}

func openStore(ctx context.Context, cfg *config.StoreConfig, embedder *embedding.Embedder) (core.KnowledgeStore, error) {
	switch cfg.Backend {
	case config.StoreQdrant:
		s := qdrant.NewStore(qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.Collection,
		})
		// Unreachable at startup is not fatal: each turn reports it on its own.
		if n, err := s.Count(ctx); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("url", cfg.QdrantURL).Msg("knowledge store not reachable")
		} else if n == 0 {
			log.FromCtx(ctx).Warn().Str("collection", cfg.Collection).Msg("knowledge store collection is empty")
		}
		return s, nil
	default:
		return chroma.Open(ctx, cfg.ChromaPath, cfg.Collection, cfg.ChromaCompress, embedder.Func())
	}
}

// newSession starts a conversation with a fresh memory window.
func (a *app) newSession(opts ...session.Option) *session.Session {
	mem := memory.New(a.tokenizer, a.cfg.MemoryTokenLimit)

	opts = append([]session.Option{session.WithPrompt(a.prompt)}, opts...)
	if a.archive != nil {
		opts = append(opts, session.WithArchive(a.archive))
	}

	return session.New(session.Config{
		TopK:             a.cfg.TopK,
		RetrievalTimeout: a.cfg.RetrievalTimeout,
		LLMTimeout:       a.cfg.LLMTimeout,
		MaxRetries:       a.cfg.MaxRetries,
	}, a.retriever, a.llm, mem, opts...)
}

// cleanups releases resources in reverse order of creation when run by srv.Run.
func (a *app) cleanups() []srv.Service {
	return []srv.Service{
		srv.NewCleanup(a.closeStore),
		srv.NewCleanup(a.closeDB),
	}
}

func (a *app) close() {
	_ = a.closeStore()
	_ = a.closeDB()
}

func (a *app) closeStore() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) closeDB() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
