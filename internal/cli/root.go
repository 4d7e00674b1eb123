// Package cli implements the assistant CLI commands.
package cli

// #region imports
import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/checkpoint"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/config"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/eval"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/logging"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/stage"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/transcript"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/workflow"
)

// #endregion

// #region root

var dbPathFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Intent-routed document assistant",
	Long:  "Routes each request through classification, a specialized stage (answer, summarize, or calculate), and memory maintenance, with durable per-session state.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPathFlag, "db", "d", "", "Database path (default: $ASSISTANT_DB or assistant.db)")
}

// #endregion root

// #region wiring

// app bundles the wired components a command needs.
type app struct {
	cfg        *config.Config
	log        *zap.SugaredLogger
	store      *checkpoint.SQLiteStore
	documents  *docs.Store
	transcript *transcript.Log
	engine     *workflow.Engine
}

// buildApp wires the full stack from configuration.
func buildApp() (*app, error) {
	cfg := config.Load()
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	store, err := checkpoint.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	documents, err := docs.NewStore(store.DB())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open document store: %w", err)
	}

	tlog, err := transcript.NewLog(store.DB())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open transcript log: %w", err)
	}

	client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)
	gen := llm.NewGenerator(client, cfg.LLMModel, cfg.LLMMaxRetries, log)

	var evaluator eval.Evaluator = eval.NewLocal()
	if cfg.EvalURL != "" {
		evaluator = eval.NewRemote(cfg.EvalURL, cfg.EvalTimeout)
	}

	engine, err := workflow.New(store, tlog, log,
		stage.NewClassifier(gen, log),
		stage.NewAnswer(gen, documents, log),
		stage.NewSummarize(gen, documents, log),
		stage.NewCalculate(documents, evaluator, log),
		stage.NewMemory(gen, log),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		documents:  documents,
		transcript: tlog,
		engine:     engine,
	}, nil
}

func (a *app) close() {
	a.store.Close()
	a.log.Sync()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// #endregion wiring
