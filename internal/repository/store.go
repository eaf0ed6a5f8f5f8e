package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/persistence"
)

// Store bundles the repositories of the configured driver.
type Store struct {
	Users         UserRepository
	Conversations ConversationRepository
	Analytics     AnalyticsRepository

	driver string
	ping   func(ctx context.Context) error
	close  func()
}

// OpenStore connects to the driver named in cfg.Store and applies migrations.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Store{
			Users:         NewSQLiteUserRepository(db.DB),
			Conversations: NewSQLiteConversationRepository(db.DB),
			Analytics:     NewSQLiteAnalyticsRepository(db.DB),
			driver:        config.StoreDriverSQLite,
			ping:          db.Ping,
			close:         db.Close,
		}, nil

	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if pg.PoolHandle() == nil {
			return nil, errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		pool := pg.PoolHandle()
		return &Store{
			Users:         NewUserRepository(pool),
			Conversations: NewConversationRepository(pool),
			Analytics:     NewAnalyticsRepository(pool),
			driver:        config.StoreDriverPostgres,
			ping:          pg.Ping,
			close:         pg.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// Driver names the backing database.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks the backing database.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the connection.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}
