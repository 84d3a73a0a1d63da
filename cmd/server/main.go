package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bloomgen/internal/api"
	"github.com/dgallion1/bloomgen/internal/auth"
	"github.com/dgallion1/bloomgen/internal/config"
	"github.com/dgallion1/bloomgen/internal/export"
	"github.com/dgallion1/bloomgen/internal/llm"
	"github.com/dgallion1/bloomgen/internal/logger"
	"github.com/dgallion1/bloomgen/internal/parser"
	"github.com/dgallion1/bloomgen/internal/pipeline"
	"github.com/dgallion1/bloomgen/internal/questions"
	"github.com/dgallion1/bloomgen/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Completion client.
	stats := llm.NewStats(cfg.LLMStatsWindow)
	completer, err := llm.FromConfig(cfg, stats, log)
	if err != nil {
		log.Error("init llm", "error", err)
		os.Exit(1)
	}
	model := ""
	if m, ok := completer.(llm.Modeler); ok {
		model = m.Model()
	}

	// Pipeline.
	summarizer := questions.NewSummarizer(completer, log)
	summarizer.Chunking.MaxChunk = cfg.ChunkSize
	summarizer.Chunking.Overlap = cfg.ChunkOverlap
	summarizer.MaxChunks = cfg.MaxSummaryChunks
	summarizer.MaxWords = cfg.SummaryMaxWords

	generator := questions.NewGenerator(completer, cfg.BatchSize, log)
	generator.Params.Temperature = cfg.LLMTemperature
	generator.Params.MaxOutputTokens = cfg.LLMMaxOutputTokens

	pipe := pipeline.New(summarizer, generator, cfg.MaxQuestions, log)

	// Authentication.
	authn, closeAuth, err := buildAuthenticator(ctx, cfg)
	if err != nil {
		log.Error("init auth", "error", err)
		os.Exit(1)
	}
	defer closeAuth()

	// Sessions.
	sessions, closeSessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		log.Error("init session store", "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	// Export.
	var template []byte
	if cfg.ExportTemplate != "" {
		template, err = os.ReadFile(cfg.ExportTemplate)
		if err != nil {
			log.Error("read export template", "path", cfg.ExportTemplate, "error", err)
			os.Exit(1)
		}
	}

	extractor := &parser.Extractor{
		Options: parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		OnError: func(filename string, err error) {
			log.Warn("text extraction failed", "filename", filename, "error", err)
		},
	}

	srv := api.NewServer(api.Deps{
		Pipeline:      pipe,
		Extractor:     extractor,
		Authenticator: authn,
		Tokens:        auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Sessions:      sessions,
		Exporter:      &export.Exporter{Dir: cfg.OutputDir},
		DOCXTemplate:  template,
		Stats:         stats,
		Model:         model,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // generation issues several sequential completion calls
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		llm.Close(completer)
	}()

	log.Info("starting bloomgen",
		"port", cfg.Port,
		"provider", cfg.LLMProvider,
		"model", model,
		"session_store", cfg.SessionStore,
		"auth_backend", cfg.AuthBackend,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func buildAuthenticator(ctx context.Context, cfg config.Config) (auth.Authenticator, func(), error) {
	if cfg.AuthBackend == "sqlite" {
		db, err := auth.OpenDBAuthenticator(cfg.AuthDBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Seed(ctx, cfg.AuthUsers); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}
	static, err := auth.NewStaticAuthenticator(cfg.AuthUsers)
	if err != nil {
		return nil, nil, err
	}
	return static, func() {}, nil
}

func buildSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.SessionStore == "redis" {
		rs, err := session.NewRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { rs.Close() }, nil
	}
	ms := session.NewMemoryStore(cfg.SessionTTL)
	go ms.Janitor(ctx, 5*time.Minute)
	return ms, func() {}, nil
}
