package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/14kear/poll-manager/internal/config"
	"github.com/14kear/poll-manager/internal/services/polls"
	"github.com/14kear/poll-manager/internal/storage/jsonfile"
	"github.com/14kear/poll-manager/internal/storage/sqlite"
)

type App struct {
	Polls *polls.Service
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	storage, err := newStorage(cfg.Storage)
	if err != nil {
		panic(err)
	}

	pollService, err := polls.New(ctx, log, storage)
	if err != nil {
		panic(err)
	}

	return &App{Polls: pollService}
}

func newStorage(cfg config.StorageConfig) (polls.Storage, error) {
	switch cfg.Backend {
	case "jsonfile":
		return jsonfile.New(cfg.Path), nil
	case "sqlite":
		storage, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
