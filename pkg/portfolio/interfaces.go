package portfolio

import (
	"context"
	"io"
	"time"
)

// Service is the operation surface used by the HTTP, CLI and MCP front ends.
type Service interface {
	// GetAll returns the configuration, the parsed sections and the raw body.
	GetAll(ctx context.Context) (*Content, error)

	// GetSection returns the body of a single section.
	GetSection(ctx context.Context, title string) (string, error)

	// UpdateConfig merges the non-empty values of patch into the configuration
	// and persists the document with its body untouched.
	UpdateConfig(ctx context.Context, patch Config) (Config, error)

	// UpdateSection inserts or replaces a section and persists the rebuilt body.
	UpdateSection(ctx context.Context, title, body string) (*Section, error)

	// RenderSection returns the sanitized HTML rendering of a section.
	RenderSection(ctx context.Context, title string) (string, error)

	// SendContactMessage validates and emails a contact-form submission,
	// returning the generated message ID.
	SendContactMessage(ctx context.Context, msg ContactMessage) (string, error)

	// OpenResume opens the resume file for streaming. The caller closes Body.
	OpenResume(ctx context.Context) (*Resume, error)
}

// Backend stores opaque blobs by key. The document and the resume are both
// kept in a Backend.
type Backend interface {
	// Upload replaces the object at key with the reader's contents
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download opens the object at key; ErrObjectNotFound when absent
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// GetObjectMeta retrieves metadata for an object; ErrObjectNotFound when absent
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// EventSink is notified after every successful document write.
type EventSink interface {
	DocumentChanged(ctx context.Context, change Change)
}

// Renderer turns section markdown into HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}
