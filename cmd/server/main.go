package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sheetmind/sheetmind/internal/ai"
	"github.com/sheetmind/sheetmind/internal/chat"
	"github.com/sheetmind/sheetmind/internal/config"
	"github.com/sheetmind/sheetmind/internal/httpapi"
	"github.com/sheetmind/sheetmind/internal/httpapi/handlers"
	"github.com/sheetmind/sheetmind/internal/session"
)

func newLogger(mode string) *zap.Logger {
	if mode == gin.DebugMode {
		log, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return log
	}
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return log
}

func main() {
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	log := newLogger(cfg.GinMode)
	defer log.Sync()

	// Provider registry (route by configured provider + model)
	reg := ai.NewRegistry()
	reg.Register("openai", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenAIModel
		}
		return ai.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, m, cfg.OpenAITemperature), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})

	model := cfg.OpenAIModel
	if cfg.AIProvider == "ollama" {
		model = cfg.OllamaModel
	}

	store := session.NewStore(session.WithTTL(cfg.SessionTTL))
	svc := chat.NewService(store, reg, cfg.AIProvider, model, cfg.ContextWindowSize, log)
	h := handlers.NewHandler(cfg, svc, store, log)
	r := httpapi.NewRouter(cfg, h, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store.StartSweeper(ctx, cfg.SweepInterval, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("provider", cfg.AIProvider),
			zap.String("model", model),
			zap.Duration("session_ttl", cfg.SessionTTL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
