// Package main runs the lottery webhook middleware as a standalone HTTP server.
// It receives form platform webhooks and relays them to the lottery system
// and the Power Automate flow.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lottery-tool-middleware/internal/config"
	"lottery-tool-middleware/internal/handlers"
	"lottery-tool-middleware/internal/services/relay"
	"lottery-tool-middleware/internal/services/transformer"
	"lottery-tool-middleware/internal/services/webhook"
	"lottery-tool-middleware/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load config; the lottery endpoint is mandatory
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger().Fatal("Invalid configuration", utils.Error(err))
	}

	if err := utils.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		utils.GetLogger().Fatal("Failed to initialize logger", utils.Error(err))
	}
	defer utils.Sync()
	logger := utils.Logger

	client := webhook.NewClient(
		cfg.LotteryWebhookURL,
		cfg.LotteryWebhookToken,
		cfg.PowerAutomateWebhookURL,
		cfg.WebhookTimeout,
	)
	rl := relay.New(client)
	tr := transformer.New(transformer.DefaultFieldMapping, cfg.Timezone)
	server := handlers.NewServer(cfg, tr, rl, client)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			utils.String("addr", cfg.Addr()),
			utils.String("stage", cfg.Stage),
			utils.Bool("powerAutomateConfigured", cfg.PowerAutomateConfigured()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server failed", utils.Error(err))
		}
		return
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout+cfg.WebhookTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", utils.Error(err))
	}
	// Scheduled relays outlive their requests; give them a chance to finish.
	if err := rl.Wait(shutdownCtx); err != nil {
		logger.Warn("Abandoned in-flight relays", utils.Error(err))
	}
	logger.Info("Server stopped")
}
