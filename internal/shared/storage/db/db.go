package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"docverify-backend/internal/shared/telemetry"
)

// Runtime selects pool defaults for the kind of process opening the database.
type Runtime int

const (
	RuntimeServer Runtime = iota
	RuntimeLambda
	RuntimeMigrate
)

// ErrNoDatabaseURL is returned when no connection string is configured.
var ErrNoDatabaseURL = errors.New("database url is empty")

// Options controls pool sizing and the connect-time ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// DefaultOptions returns pool defaults for the runtime. Lambda instances keep
// the pool tiny since every concurrent instance holds its own connections.
func DefaultOptions(rt Runtime) Options {
	switch rt {
	case RuntimeLambda:
		return Options{MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxIdleTime: 30 * time.Second, ConnMaxLifetime: 15 * time.Minute, PingTimeout: 3 * time.Second}
	case RuntimeMigrate:
		return Options{MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second}
	default:
		return Options{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second}
	}
}

// DetectRuntime reports RuntimeLambda inside AWS Lambda and RuntimeServer otherwise.
func DetectRuntime() Runtime {
	if strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "" {
		return RuntimeLambda
	}
	return RuntimeServer
}

// WithEnv returns a copy of o with DB_* environment overrides applied.
// Unparseable values are logged and ignored.
func (o Options) WithEnv() Options {
	envInt("DB_MAX_OPEN_CONNS", &o.MaxOpenConns)
	envInt("DB_MAX_IDLE_CONNS", &o.MaxIdleConns)
	envDuration("DB_CONN_MAX_LIFETIME", &o.ConnMaxLifetime)
	envDuration("DB_CONN_MAX_IDLE_TIME", &o.ConnMaxIdleTime)
	envDuration("DB_PING_TIMEOUT", &o.PingTimeout)
	return o
}

func (o Options) apply(database *sql.DB) {
	if o.MaxOpenConns > 0 {
		database.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		database.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		database.SetConnMaxLifetime(o.ConnMaxLifetime)
	}
	if o.ConnMaxIdleTime > 0 {
		database.SetConnMaxIdleTime(o.ConnMaxIdleTime)
	}
}

var openDB = sql.Open

// Connect opens a pgx-backed *sql.DB and pings it before returning.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoDatabaseURL
	}
	database, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	opts.apply(database)

	if err := Ping(ctx, database, opts.PingTimeout); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := database.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return database, nil
}

var shared struct {
	mu sync.Mutex
	db *sql.DB
}

// Shared returns one *sql.DB per process, connecting on first use. Warm Lambda
// invocations reuse it. A failed connect is not cached, so the next call retries.
func Shared(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.db != nil {
		return shared.db, nil
	}
	database, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	shared.db = database
	return database, nil
}

// Ping checks connectivity with a bounded timeout. A nil database is healthy
// because the service then runs on in-memory repositories.
func Ping(ctx context.Context, database *sql.DB, timeout time.Duration) error {
	if database == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return database.PingContext(pingCtx)
}

func envInt(key string, dst *int) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err})
		return
	}
	*dst = v
}

func envDuration(key string, dst *time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err})
		return
	}
	*dst = v
}
