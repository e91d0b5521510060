package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/textgraph/internal/app"
	"github.com/agenthands/textgraph/internal/cli"
	"github.com/agenthands/textgraph/internal/config"
	"github.com/agenthands/textgraph/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cli.SetOpener(func(ctx context.Context, persist bool) (cli.Pipeline, func(), error) {
		cfgPath := os.Getenv("CONFIG_PATH")
		if cfgPath == "" {
			cfgPath = "config.toml"
		}
		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return nil, nil, err
		}
		if os.Getenv("LOG_LEVEL") == "" {
			cfg.Log.Level = "warn"
		}
		logger, err := logging.NewLogger(cfg.Log)
		if err != nil {
			return nil, nil, err
		}
		a, err := app.New(ctx, cfg, logger, persist)
		if err != nil {
			return nil, nil, err
		}
		return a.Builder, a.Close, nil
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
