package cli

import (
	"context"
	"fmt"

	"github.com/example/table-booker/internal/application/usecases"
	"github.com/example/table-booker/internal/domain/booking"
	"github.com/example/table-booker/internal/infrastructure/config"
	"github.com/example/table-booker/internal/infrastructure/logging"
	"github.com/example/table-booker/internal/infrastructure/postgres"
	"github.com/example/table-booker/internal/infrastructure/redisstore"
	"github.com/example/table-booker/internal/infrastructure/storage"
	"github.com/sirupsen/logrus"
)

// app holds everything a command needs, opened from one Config.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	store    *storage.Adapter
	sessions *storage.SessionRepo
	engine   *usecases.Engine
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel)

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := storage.NewAdapter(backend, cfg.StorageNamespace, logging.Component(log, "storage"))

	tables := storage.NewTableRepo(store)
	seeded, err := tables.Seed(ctx, booking.DefaultTables())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed tables: %w", err)
	}
	if seeded {
		log.WithField("backend", cfg.StorageBackend).Info("seeded default tables")
	}

	engine := usecases.NewEngine(tables, storage.NewBookingRepo(store), usecases.Options{
		Clock:       usecases.SystemClock{Loc: cfg.Location},
		SubmitDelay: cfg.SubmitDelay,
		Log:         log,
	})
	return &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		sessions: storage.NewSessionRepo(store),
		engine:   engine,
	}, nil
}

func (a *app) Close() error { return a.store.Close() }

func (a *app) today() string {
	return a.engine.Submit.Clock.Now().In(a.cfg.Location).Format(booking.DateLayout)
}

func openBackend(ctx context.Context, cfg config.Config) (storage.Backend, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemory(), nil
	case config.BackendFile:
		return storage.NewFile(cfg.StorageDir)
	case config.BackendRedis:
		return redisstore.Open(ctx, cfg.RedisURL)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
