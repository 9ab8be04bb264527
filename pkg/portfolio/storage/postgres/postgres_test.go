package postgres

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	dbURL := os.Getenv("PORTFOLIO_TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("PORTFOLIO_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dbURL, "")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	b := New(pool)
	require.NoError(t, b.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `DELETE FROM portfolio_objects WHERE key LIKE 'test/%'`)
	require.NoError(t, err)
	return b
}

func TestPostgresBackend_UploadDownload(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Upload(ctx, "test/data.md", strings.NewReader("first")))
	require.NoError(t, b.Upload(ctx, "test/data.md", strings.NewReader("second")))

	rc, err := b.Download(ctx, "test/data.md")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	meta, err := b.GetObjectMeta(ctx, "test/data.md")
	require.NoError(t, err)
	assert.Equal(t, int64(6), meta.Size)
	assert.Len(t, meta.ETag, 32)
}

func TestPostgresBackend_Missing(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	_, err := b.Download(ctx, "test/missing")
	assert.ErrorIs(t, err, portfolio.ErrObjectNotFound)

	_, err = b.GetObjectMeta(ctx, "test/missing")
	assert.ErrorIs(t, err, portfolio.ErrObjectNotFound)
}
