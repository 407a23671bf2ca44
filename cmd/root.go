package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boligsjekk/boligsjekk/internal/analyze"
	"github.com/boligsjekk/boligsjekk/internal/chat"
	"github.com/boligsjekk/boligsjekk/internal/config"
	"github.com/boligsjekk/boligsjekk/internal/fetch"
	"github.com/boligsjekk/boligsjekk/internal/store"
	"github.com/boligsjekk/boligsjekk/pkg/anthropic"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "boligsjekk",
	Short: "Boligannonse-analyse med LLM",
	Long:  "Henter en boligannonse, normaliserer feltene til ett kanonisk skjema, og produserer en strukturert vurdering via Claude. Uten API-nøkkel brukes en deterministisk mock.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// env bundles the wired dependencies shared by the commands.
type env struct {
	Analyzer  *analyze.Analyzer
	Assistant *chat.Assistant
	Store     store.Store
}

// initEnv wires the fetch chain, LLM client, analyzer, assistant, and store
// from config. The store is nil-safe to skip by passing withStore=false.
func initEnv(withStore bool) (*env, error) {
	fetchers := []fetch.Fetcher{}
	if !cfg.Fetch.DisableBrowser {
		fetchers = append(fetchers, fetch.NewChromeFetcher(cfg.Fetch))
	}
	fetchers = append(fetchers, fetch.NewHTTPFetcher(cfg.Fetch))
	chain := fetch.NewChain(fetchers...)

	var llm anthropic.Client
	if cfg.Anthropic.HasCredential() {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	}

	e := &env{
		Analyzer:  analyze.New(cfg.Anthropic, chain, llm),
		Assistant: chat.New(cfg.Anthropic, cfg.Chat, llm),
	}

	if withStore {
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		e.Store = st
	}
	return e, nil
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
