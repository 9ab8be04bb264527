package portfolio_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
)

const documentKey = "data.md"

const scenarioDocument = "---\ncontactEmail: a@x.com\n---\n\n# About\n\nHi there\n\n# Skills\n\nPython"

var errDiskFull = errors.New("disk full")

// readOnlyBackend serves reads from an inner backend and fails every write
type readOnlyBackend struct {
	portfolio.Backend
}

func (b *readOnlyBackend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return errDiskFull
}

var errConnReset = errors.New("connection reset by peer")

// unreadableBackend fails every read and counts write attempts
type unreadableBackend struct {
	portfolio.Backend
	uploads atomic.Int32
}

func (b *unreadableBackend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return nil, errConnReset
}

func (b *unreadableBackend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	b.uploads.Add(1)
	return b.Backend.Upload(ctx, objectKey, reader)
}

// gatedBackend holds the first n downloads until all n have read, so n
// concurrent read-modify-write cycles all start from the same snapshot
type gatedBackend struct {
	portfolio.Backend
	gate  sync.WaitGroup
	n     int32
	calls atomic.Int32
}

func newGatedBackend(inner portfolio.Backend, n int) *gatedBackend {
	g := &gatedBackend{Backend: inner, n: int32(n)}
	g.gate.Add(n)
	return g
}

func (g *gatedBackend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	rc, err := g.Backend.Download(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	if g.calls.Add(1) <= g.n {
		g.gate.Done()
		g.gate.Wait()
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type recordingSink struct {
	mu      sync.Mutex
	changes []portfolio.Change
}

func (s *recordingSink) DocumentChanged(ctx context.Context, change portfolio.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, change)
}

func (s *recordingSink) Changes() []portfolio.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]portfolio.Change(nil), s.changes...)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []portfolio.MailMessage
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg portfolio.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newStore(t *testing.T, backend portfolio.Backend, defaultContact string) *portfolio.DocumentStore {
	t.Helper()
	store, err := portfolio.NewDocumentStore(backend, portfolio.StoreConfig{
		DocumentKey:         documentKey,
		DefaultContactEmail: defaultContact,
	})
	require.NoError(t, err)
	return store
}

func newTestService(t *testing.T, document string, opts ...portfolio.Option) (portfolio.Service, *memory.Backend) {
	t.Helper()
	backend := memory.New()
	if document != "" {
		backend.Put(documentKey, []byte(document))
	}
	opts = append([]portfolio.Option{portfolio.WithDocumentStore(newStore(t, backend, ""))}, opts...)
	svc, err := portfolio.New(opts...)
	require.NoError(t, err)
	return svc, backend
}
