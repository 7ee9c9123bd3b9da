package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"web-navigator/internal/di"
	"web-navigator/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, di.Config{
		BrowserHeadless:  envService.GetBool("BROWSER_HEADLESS", true),
		BrowserSlowMo:    envService.GetDuration("BROWSER_SLOW_MO", 0),
		LLMAPIKey:        envService.Get("OPENROUTER_API_KEY"),
		LLMModel:         envService.GetDefault("OPENROUTER_MODEL_NAME", "openai/gpt-4o-mini"),
		LLMBaseURL:       envService.Get("OPENROUTER_BASE_URL"),
		ProfilesFile:     envService.Get("PROFILES_FILE"),
		LogLevel:         envService.GetDefault("LOG_LEVEL", "info"),
		LogDevelopment:   envService.GetBool("LOG_DEVELOPMENT", false),
		CaptureOnFailure: envService.GetBool("CAPTURE_ON_FAILURE", false),
	})
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer container.Close()

	addr := ":" + envService.GetDefault("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           container.Server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		container.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			container.Logger.Error("shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("server failed", "error", err)
		}
	}
}
