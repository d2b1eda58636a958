package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gangstaai/scanclient/internal/config"
	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	// one pool shared by the scan and feed repositories
	do.Provide(injector, func(i do.Injector) (*pgxpool.Pool, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.DatabaseURL == "" {
			return nil, repository.ErrNoDatabase
		}
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()

		p, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return p, nil
	})

	do.Provide(injector, func(i do.Injector) (repository.ScanRepository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.DatabaseURL == "" {
			if cfg.ScanHistoryPath == "" {
				return nil, errors.New("SCAN_HISTORY_PATH is not set and no user cache directory is available")
			}
			slog.Debug("DATABASE_URL not set, keeping scan history in a local file", "path", cfg.ScanHistoryPath)
			repo, err := OpenFileRepository(cfg.ScanHistoryPath)
			if err != nil {
				return nil, err
			}
			return repo, nil
		}
		p, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()
		if err := RunMigration(ctx, p); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to run migration: %w", err)
		}
		return NewPostgresRepository(p), nil
	})

	do.Provide(injector, func(i do.Injector) (repository.FeedRepository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.DatabaseURL == "" {
			return NoFeed{}, nil
		}
		p, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}
		return NewPostgresFeedRepository(p), nil
	})
}
