package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

// Predefined errors for store operations
var (
	ErrCategoryNotFound   = errors.New("store: category not found")
	ErrCategoryNameExists = errors.New("store: category name already exists")
	ErrProductNotFound    = errors.New("store: product not found")
	ErrOrderNotFound      = errors.New("store: order not found")
)

const uniqueViolation = "23505"

// Options configures a PostgresStore connection.
type Options struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Automigrate  bool
	QueryTimeout time.Duration
}

// PostgresStore implements the catalog, order and sales read interfaces on PostgreSQL.
type PostgresStore struct {
	db           *sqlx.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewPostgresStore wraps an open connection pool. A zero queryTimeout disables the
// per-query deadline.
func NewPostgresStore(db *sqlx.DB, logger *zap.Logger, queryTimeout time.Duration) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger, queryTimeout: queryTimeout}
}

// Connect opens the pool, pings it and optionally applies pending migrations.
func Connect(ctx context.Context, opts Options, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	s := NewPostgresStore(db, logger, opts.QueryTimeout)
	if opts.Automigrate {
		n, err := s.Migrate()
		if err != nil {
			db.Close()
			return nil, err
		}
		s.logger.Info("applied migrations", zap.Int("count", n))
	}
	return s, nil
}

//go:embed migrations
var migrations embed.FS

func migrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrations, Root: "migrations"}
}

// Migrate applies every pending up migration and returns how many ran.
func (s *PostgresStore) Migrate() (int, error) {
	n, err := migrate.Exec(s.db.DB, "postgres", migrationSource(), migrate.Up)
	if err != nil {
		return n, fmt.Errorf("store: db migrations have failed: %w", err)
	}
	return n, nil
}

// MigrateDown rolls back at most max migrations; max 0 rolls back all of them.
func (s *PostgresStore) MigrateDown(max int) (int, error) {
	n, err := migrate.ExecMax(s.db.DB, "postgres", migrationSource(), migrate.Down, max)
	if err != nil {
		return n, fmt.Errorf("store: db rollback has failed: %w", err)
	}
	return n, nil
}

// Ping checks the connection for health probes.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// uuidStrings converts ids to the text form pq sends for uuid[] parameters.
func uuidStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseUUIDs reads a uuid[] column scanned as text. Malformed entries are skipped.
func parseUUIDs(raw pq.StringArray) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// namesByID resolves ids in table to their names. Missing ids are simply absent from
// the result.
func (s *PostgresStore) namesByID(ctx context.Context, table string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uuid.UUID `db:"id"`
		Name string    `db:"name"`
	}
	query := fmt.Sprintf("SELECT id, name FROM %s WHERE id = ANY($1::uuid[])", table)
	if err := s.db.SelectContext(ctx, &rows, query, uuidStrings(ids)); err != nil {
		return nil, fmt.Errorf("store: resolve %s names: %w", table, err)
	}
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names, nil
}
