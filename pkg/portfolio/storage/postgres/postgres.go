// Package postgres stores portfolio objects as rows of a single table.
package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS portfolio_objects (
	key          TEXT PRIMARY KEY,
	data         BYTEA NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Backend implements portfolio.Backend using PostgreSQL
type Backend struct {
	db DBTX
}

// New creates a new PostgreSQL backend
func New(db DBTX) *Backend {
	return &Backend{db: db}
}

// NewPool connects to databaseURL, optionally setting search_path, and
// verifies the connection
func NewPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if schema != "" {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the objects table if it does not exist
func (b *Backend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.Exec(ctx, schemaSQL); err != nil {
		return b.handlePostgresError("ensure schema", err)
	}
	return nil
}

func (b *Backend) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return portfolio.ErrObjectNotFound
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// GetObjectMeta retrieves metadata for a stored object
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*portfolio.ObjectMeta, error) {
	var (
		size        int64
		contentType string
		updatedAt   time.Time
		sum         string
	)
	err := b.db.QueryRow(ctx, `
		SELECT octet_length(data), content_type, updated_at, md5(data)
		FROM portfolio_objects WHERE key = $1`, objectKey).
		Scan(&size, &contentType, &updatedAt, &sum)
	if err != nil {
		return nil, b.handlePostgresError("get object meta", err)
	}

	return &portfolio.ObjectMeta{
		Key:         objectKey,
		Size:        size,
		ContentType: contentType,
		UpdatedAt:   updatedAt,
		ETag:        sum,
	}, nil
}

// Upload replaces the row for objectKey in a single statement
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	_, err = b.db.Exec(ctx, `
		INSERT INTO portfolio_objects (key, data, content_type, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, content_type = EXCLUDED.content_type, updated_at = EXCLUDED.updated_at`,
		objectKey, data, http.DetectContentType(data))
	if err != nil {
		return b.handlePostgresError("upload", err)
	}
	return nil
}

// Download returns the stored bytes for objectKey
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	var data []byte
	err := b.db.QueryRow(ctx, `SELECT data FROM portfolio_objects WHERE key = $1`, objectKey).Scan(&data)
	if err != nil {
		return nil, b.handlePostgresError("download", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
