package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/config"
	"github.com/aeriel/clai/internal/generate"
	"github.com/aeriel/clai/internal/llm"
	"github.com/aeriel/clai/internal/logger"
	"github.com/aeriel/clai/internal/store"
	"github.com/aeriel/clai/internal/studio"
)

// appEnv holds the dependencies shared by commands that touch the library.
type appEnv struct {
	cfg config.Config
	log *logger.Logger
	st  *store.Store
	svc *studio.Service
}

type envOptions struct {
	// logPath sends logs to a file instead of stderr.
	logPath string

	// needLLM makes a missing provider an error instead of a warning.
	needLLM bool
}

// openEnv opens the store, builds the LLM provider and returns the
// authoring service. Without a provider, generation calls fail but
// browsing and editing keep working.
func openEnv(cmd *cobra.Command, opts envOptions) (*appEnv, error) {
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode, opts.logPath)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var gen studio.Generator
	provider, llmCfg, err := llm.NewProviderFromEnv(cmd.Context(), st.EventRepo(), log)
	if err != nil {
		if opts.needLLM {
			st.Close()
			return nil, fmt.Errorf("LLM provider: %w", err)
		}
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
	} else {
		genCfg := generate.DefaultConfig()
		if llmCfg.MaxTokens > 0 {
			genCfg.MaxTokens = llmCfg.MaxTokens
		}
		gen = generate.New(provider, genCfg, log)
		log.Debug("LLM provider ready", "provider", llmCfg.Provider, "model", provider.ModelID())
	}

	return &appEnv{
		cfg: cfg,
		log: log,
		st:  st,
		svc: studio.New(studio.ReposFrom(st), gen, log),
	}, nil
}

func (e *appEnv) Close() {
	e.st.Close()
	e.log.Sync()
}
