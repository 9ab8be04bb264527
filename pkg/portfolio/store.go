package portfolio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tendant/simple-portfolio/pkg/portfolio/metrics"
)

// StoreConfig locates the document inside its backend.
type StoreConfig struct {
	// DocumentKey is the backend key of the markdown document (e.g. "data.md")
	DocumentKey string

	// DefaultContactEmail seeds the configuration when the document cannot be read
	DefaultContactEmail string
}

// LoadResult is the outcome of reading the document. A failed read is never
// returned as an error: Document holds the default document, Defaulted is
// set and Err carries the cause.
type LoadResult struct {
	Document  Document
	Defaulted bool
	Err       error
}

// DocumentStore reads and writes the document through a Backend. It keeps no
// state between calls.
type DocumentStore struct {
	backend Backend
	config  StoreConfig
}

// NewDocumentStore creates a document store over backend.
func NewDocumentStore(backend Backend, config StoreConfig) (*DocumentStore, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if config.DocumentKey == "" {
		return nil, errors.New("document key is required")
	}
	return &DocumentStore{backend: backend, config: config}, nil
}

// Key returns the backend key of the document.
func (s *DocumentStore) Key() string {
	return s.config.DocumentKey
}

// Load reads and decodes the document, falling back to the default document
// on any failure.
func (s *DocumentStore) Load(ctx context.Context) LoadResult {
	doc, err := s.read(ctx)
	if err != nil {
		slog.Error("Failed to read document, serving defaults", "key", s.config.DocumentKey, "err", err)
		metrics.DocumentLoads.WithLabelValues("defaulted").Inc()
		return LoadResult{Document: s.defaultDocument(), Defaulted: true, Err: err}
	}
	metrics.DocumentLoads.WithLabelValues("ok").Inc()
	return LoadResult{Document: doc}
}

func (s *DocumentStore) read(ctx context.Context) (Document, error) {
	rc, err := s.backend.Download(ctx, s.config.DocumentKey)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open document: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	doc, err := DecodeDocument(raw)
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) defaultDocument() Document {
	cfg := Config{}
	if s.config.DefaultContactEmail != "" {
		cfg[KeyContactEmail] = s.config.DefaultContactEmail
	}
	return Document{Config: cfg}
}

// Save encodes doc and overwrites the stored document. Failures are returned
// as *PersistenceError.
func (s *DocumentStore) Save(ctx context.Context, doc Document) error {
	raw, err := EncodeDocument(doc.Config, doc.Body)
	if err != nil {
		metrics.DocumentWrites.WithLabelValues("error").Inc()
		return &PersistenceError{Key: s.config.DocumentKey, Op: "encode", Err: err}
	}

	if err := s.backend.Upload(ctx, s.config.DocumentKey, bytes.NewReader(raw)); err != nil {
		metrics.DocumentWrites.WithLabelValues("error").Inc()
		return &PersistenceError{Key: s.config.DocumentKey, Op: "write", Err: err}
	}

	metrics.DocumentWrites.WithLabelValues("ok").Inc()
	return nil
}
