package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agenthands/textgraph/internal/app"
	"github.com/agenthands/textgraph/internal/config"
	"github.com/agenthands/textgraph/internal/logging"
	"github.com/agenthands/textgraph/internal/queue"
	"github.com/agenthands/textgraph/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, true)
	if err != nil {
		logger.WithError(err).Fatal("failed to start")
	}
	defer a.Close()

	if cfg.AMQP.URL != "" {
		worker, err := queue.Dial(cfg.AMQP, a.Builder, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to start queue worker")
		}
		defer worker.Close()
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("queue worker stopped")
			}
		}()
	}

	var builds server.BuildLister
	if a.Builds != nil {
		builds = a.Builds
	}
	srv := server.NewServer(a.Builder, builds, cfg.Server, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.SetupRouter(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.WithField("port", cfg.Server.Port).Info("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server failed")
	}
}
