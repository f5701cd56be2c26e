package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/altum-analytics/uidmatch/internal/api"
	"github.com/altum-analytics/uidmatch/internal/cache"
	"github.com/altum-analytics/uidmatch/internal/config"
	"github.com/altum-analytics/uidmatch/internal/engine"
	"github.com/altum-analytics/uidmatch/internal/engine/embedder"
	"github.com/altum-analytics/uidmatch/internal/logging"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "uidmatch-server: %v\n", err)
		os.Exit(1)
	}
	logging.Init(false, logging.ParseLevel(cfg.LogLevel))

	var emb embedder.Embedder
	if os.Getenv("UIDMATCH_NO_SEMANTIC") == "" {
		onnx, err := embedder.New(embedder.Config{
			ModelPath:     cfg.Engine.ModelPath,
			TokenizerPath: cfg.Engine.TokenizerPath,
			OrtLibPath:    cfg.Engine.OrtLibPath,
		})
		if err != nil {
			slog.Error("create embedder", "error", err)
			os.Exit(1)
		}
		defer onnx.Close()
		emb = onnx
	}

	var store *cache.Store
	if cfg.Engine.CachePath != "" {
		var err error
		store, err = cache.Open(cfg.Engine.CachePath)
		if err != nil {
			slog.Error("open embedding cache", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	eng, err := engine.New(engine.Config{Thresholds: cfg.Thresholds, Cache: store, BatchSize: cfg.Engine.BatchSize}, emb)
	if err != nil {
		slog.Error("create engine", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	api.NewHandler(eng).RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("listening", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
