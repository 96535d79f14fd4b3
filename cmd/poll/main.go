package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/14kear/poll-manager/internal/app"
	"github.com/14kear/poll-manager/internal/cli"
	"github.com/14kear/poll-manager/internal/config"
	"github.com/14kear/poll-manager/utils"
)

func main() {
	configPath := flag.String("config", "config/local.yaml", "path to config file")
	flag.Parse()

	cfg := config.Load(*configPath)

	log := utils.New(cfg.Env)
	log.Info("starting poll manager",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Storage.Backend),
		slog.String("path", cfg.Storage.Path))

	ctx := context.Background()
	application := app.NewApp(ctx, log, cfg)

	menu := cli.NewMenu(application.Polls, os.Stdin, os.Stdout)
	menu.Run(ctx)

	log.Info("poll manager stopped")
}
