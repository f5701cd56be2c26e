package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/altum-analytics/uidmatch/internal/cache"
	"github.com/altum-analytics/uidmatch/internal/config"
	"github.com/altum-analytics/uidmatch/internal/connector"
	"github.com/altum-analytics/uidmatch/internal/connector/postgres"
	"github.com/altum-analytics/uidmatch/internal/engine"
	"github.com/altum-analytics/uidmatch/internal/engine/embedder"
	"github.com/altum-analytics/uidmatch/internal/logging"
	"github.com/altum-analytics/uidmatch/internal/output"
	"github.com/altum-analytics/uidmatch/internal/output/csv"
	"github.com/altum-analytics/uidmatch/internal/output/multi"
	"github.com/altum-analytics/uidmatch/internal/output/stdout"
	"github.com/altum-analytics/uidmatch/internal/pipeline"

	// Register survey source implementations.
	_ "github.com/altum-analytics/uidmatch/internal/connector/surveymonkey"
)

func main() {
	surveyFlag := flag.String("surveys", "", "comma-separated survey IDs (default: all)")
	providerFlag := flag.String("provider", "surveymonkey", "survey source provider")
	noSemantic := flag.Bool("no-semantic", false, "skip semantic matching (no model load)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "uidmatch: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Output.Format == "stdout", logging.ParseLevel(cfg.LogLevel))

	if err := run(cfg, *providerFlag, splitIDs(*surveyFlag), *noSemantic); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, provider string, surveyIDs []string, noSemantic bool) error {
	var emb embedder.Embedder
	if !noSemantic {
		onnx, err := embedder.New(embedder.Config{
			ModelPath:     cfg.Engine.ModelPath,
			TokenizerPath: cfg.Engine.TokenizerPath,
			OrtLibPath:    cfg.Engine.OrtLibPath,
		})
		if err != nil {
			return fmt.Errorf("create embedder: %w", err)
		}
		defer onnx.Close()
		emb = onnx
	}

	var store *cache.Store
	if cfg.Engine.CachePath != "" {
		var err error
		store, err = cache.Open(cfg.Engine.CachePath)
		if err != nil {
			return fmt.Errorf("open embedding cache: %w", err)
		}
		defer store.Close()
	}

	eng, err := engine.New(engine.Config{Thresholds: cfg.Thresholds, Cache: store, BatchSize: cfg.Engine.BatchSize}, emb)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	surveys, err := connector.NewSurveySource(provider, cfg.Survey)
	if err != nil {
		return fmt.Errorf("create survey source: %w", err)
	}

	bank, err := postgres.Open(cfg.Warehouse.DSN)
	if err != nil {
		return fmt.Errorf("open warehouse: %w", err)
	}
	defer bank.Close()

	out, err := buildOutput(cfg.Output)
	if err != nil {
		return err
	}

	p := pipeline.New(surveys, bank, eng, out)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	summary, err := p.Run(ctx, surveyIDs)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "uidmatch: %d surveys, %d questions, match rate %.1f%%\n",
		summary.Surveys, summary.Questions, summary.MatchRate)
	return nil
}

func buildOutput(cfg config.OutputConfig) (output.Output, error) {
	switch cfg.Format {
	case "stdout":
		return stdout.New(), nil
	case "csv":
		return csv.New(cfg.ExportDir)
	case "both":
		fileOut, err := csv.New(cfg.ExportDir)
		if err != nil {
			return nil, err
		}
		return multi.New(stdout.New(), fileOut), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
