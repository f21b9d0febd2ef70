package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/arturoeanton/go-repo-onboarding/internal/metrics"
	"github.com/arturoeanton/go-repo-onboarding/internal/port"
)

// DialFunc opens and verifies a database handle.
type DialFunc func(ctx context.Context, dsn string) (*sql.DB, error)

// ConnectorConfig configures the lazy database connection.
type ConnectorConfig struct {
	DSN            string
	ConnectTimeout time.Duration
	// AutoMigrate applies pending migrations on the first successful dial.
	AutoMigrate bool
}

// Connector owns the process-wide *sql.DB. The first caller dials, callers
// arriving meanwhile share that attempt, and a failed attempt leaves
// nothing behind so the next caller dials again.
type Connector struct {
	cfg     ConnectorConfig
	dial    DialFunc
	migrate func(ctx context.Context, db *sql.DB) error
	group   singleflight.Group
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu sync.RWMutex
	db *sql.DB
}

// ConnectorOption customizes a Connector.
type ConnectorOption func(*Connector)

// WithDialer replaces the Postgres dialer.
func WithDialer(d DialFunc) ConnectorOption {
	return func(c *Connector) { c.dial = d }
}

// NewConnector creates a connector. Nothing is dialed until DB is called.
func NewConnector(cfg ConnectorConfig, logger zerolog.Logger, m *metrics.Metrics, opts ...ConnectorOption) *Connector {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	c := &Connector{
		cfg:     cfg,
		dial:    dialPostgres,
		logger:  logger.With().Str("component", "store").Logger(),
		metrics: m,
	}
	if cfg.AutoMigrate {
		c.migrate = func(ctx context.Context, db *sql.DB) error {
			return Migrate(ctx, db, c.logger, -1)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DB returns the shared handle, dialing on first use. Errors wrap
// port.ErrDatabaseUnavailable.
func (c *Connector) DB(ctx context.Context) (*sql.DB, error) {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	ch := c.group.DoChan("connect", func() (any, error) {
		c.mu.RLock()
		existing := c.db
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}
		return c.connect(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*sql.DB), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", port.ErrDatabaseUnavailable, ctx.Err())
	}
}

func (c *Connector) connect(ctx context.Context) (*sql.DB, error) {
	// The attempt is shared, so one caller giving up must not abort it.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.ConnectTimeout)
	defer cancel()

	start := time.Now()
	db, err := c.dial(dctx, c.cfg.DSN)
	if err == nil && c.migrate != nil {
		if err = c.migrate(dctx, db); err != nil {
			_ = db.Close()
		}
	}
	c.metrics.RecordDBConnect(metrics.Outcome(err))
	if err != nil {
		c.logger.Error().Err(err).Dur("took", time.Since(start)).Msg("database connect failed")
		return nil, fmt.Errorf("%w: %w", port.ErrDatabaseUnavailable, err)
	}

	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
	c.logger.Info().Dur("took", time.Since(start)).Msg("database connected")
	return db, nil
}

// Close closes the handle if one was opened.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func dialPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
