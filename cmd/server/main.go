package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-insight/internal/ai"
	"github.com/p-n-ai/pai-insight/internal/attempt"
	"github.com/p-n-ai/pai-insight/internal/content"
	"github.com/p-n-ai/pai-insight/internal/learning"
	"github.com/p-n-ai/pai-insight/internal/platform/cache"
	"github.com/p-n-ai/pai-insight/internal/platform/config"
	"github.com/p-n-ai/pai-insight/internal/platform/database"
	"github.com/p-n-ai/pai-insight/internal/realtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	loader, err := content.NewLoader(cfg.ContentPath)
	if err != nil {
		return err
	}

	var (
		store  attempt.Store = attempt.NewMemoryStore()
		sink   attempt.EventLogger
		checks = map[string]func(context.Context) error{}
	)

	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return fmt.Errorf("connecting database: %w", err)
		}
		defer db.Close()

		if err := attempt.Migrate(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		pgStore, err := attempt.NewPostgresStore(db.Pool)
		if err != nil {
			return err
		}
		store = pgStore
		sink = attempt.NewPostgresEventLogger(db.Pool)
		checks["database"] = db.HealthCheck
		slog.Info("using postgres attempt store")
	} else {
		slog.Info("LEARN_DATABASE_URL not set, attempts are kept in memory")
	}

	hub := realtime.NewHub()
	opts := []learning.Option{
		learning.WithEventLogger(attempt.Tee(sink, hub)),
		learning.WithDefaultLimit(cfg.RecommendLimit),
	}

	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return fmt.Errorf("connecting cache: %w", err)
		}
		defer c.Close()
		opts = append(opts, learning.WithCache(c, cfg.Cache.TTL))
		checks["cache"] = c.HealthCheck
	}

	if router := newAIRouter(cfg); router.HasProvider() {
		opts = append(opts,
			learning.WithExplainer(ai.NewTutor(router, cfg.AI.Model)),
			learning.WithExplainTimeout(cfg.AI.Timeout),
		)
	} else {
		slog.Info("no AI provider configured, recommendations carry no explanation")
	}

	svc := learning.NewService(loader, loader, store, opts...)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newMux(svc, loader, hub, checks),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

// newAIRouter registers every configured provider in a fixed fallback order.
func newAIRouter(cfg *config.Config) *ai.Router {
	router := ai.NewRouter()
	if cfg.AI.OpenAI.APIKey != "" {
		router.Register("openai", ai.NewOpenAIProvider(cfg.AI.OpenAI.APIKey, ai.WithBaseURL(cfg.AI.OpenAI.BaseURL)))
	}
	if cfg.AI.DeepSeek.APIKey != "" {
		router.Register("deepseek", ai.NewDeepSeekProvider(cfg.AI.DeepSeek.APIKey))
	}
	if cfg.AI.OpenRouter.APIKey != "" {
		router.Register("openrouter", ai.NewOpenRouterProvider(cfg.AI.OpenRouter.APIKey))
	}
	if cfg.AI.Ollama.Enabled {
		router.Register("ollama", ai.NewOllamaProvider(cfg.AI.Ollama.URL))
	}
	return router
}

// newLogger builds the process logger. Unknown levels fall back to info.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
