// Package sweeper assembles the premium expiry sweeper binary.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/coddink/interview-backend/internal/config"
	sweeperservice "github.com/coddink/interview-backend/internal/services/sweeper"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

const sweepInterval = 24 * time.Hour

type App struct {
	sweeper *sweeperservice.SweeperService
	db      *repository.Storage
	logger  *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	return &App{
		sweeper: sweeperservice.NewSweeperService(db, logger),
		db:      db,
		logger:  logger,
	}, nil
}

// Run sweeps immediately and then once every 24 hours until the context
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.sweeper.Run(ctx, sweepInterval)

	a.logger.Info("sweeper shutting down gracefully")
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}
	return nil
}
