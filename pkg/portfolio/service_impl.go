package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tendant/simple-portfolio/pkg/portfolio/metrics"
)

// service implements the Service interface
type service struct {
	store     *DocumentStore
	eventSink EventSink
	renderer  Renderer
	mailer    Mailer
	validate  *validator.Validate

	recipientOverride string

	resumeBackend  Backend
	resumeKey      string
	resumeFilename string

	// writeMu serializes the read-modify-write span of every mutation.
	writeMu sync.Mutex
}

// Option is a functional option for configuring the service
type Option func(*service)

// WithDocumentStore sets the document store for the service
func WithDocumentStore(store *DocumentStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithEventSink sets the sink notified after document writes
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithRenderer replaces the default markdown renderer
func WithRenderer(renderer Renderer) Option {
	return func(s *service) {
		s.renderer = renderer
	}
}

// WithMailer sets the transport for contact messages. Without one,
// SendContactMessage fails with ErrEmailNotConfigured.
func WithMailer(mailer Mailer) Option {
	return func(s *service) {
		s.mailer = mailer
	}
}

// WithRecipientOverride sends contact messages to addr instead of the
// document's contactEmail
func WithRecipientOverride(addr string) Option {
	return func(s *service) {
		s.recipientOverride = addr
	}
}

// WithResume configures where the resume file is stored and the filename
// offered to downloaders
func WithResume(backend Backend, key, filename string) Option {
	return func(s *service) {
		s.resumeBackend = backend
		s.resumeKey = key
		s.resumeFilename = filename
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	if s.renderer == nil {
		s.renderer = NewMarkdownRenderer()
	}
	if s.resumeFilename == "" {
		s.resumeFilename = "resume.pdf"
	}
	s.validate = validator.New()

	return s, nil
}

func (s *service) GetAll(ctx context.Context) (*Content, error) {
	doc := s.store.Load(ctx).Document
	return &Content{
		Config:     doc.Config,
		Sections:   ParseSections(doc.Body),
		RawContent: doc.Body,
	}, nil
}

func (s *service) GetSection(ctx context.Context, title string) (string, error) {
	doc := s.store.Load(ctx).Document
	body, ok := ParseSections(doc.Body).Get(title)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSectionNotFound, title)
	}
	return body, nil
}

func (s *service) UpdateConfig(ctx context.Context, patch Config) (Config, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}
	cfg := doc.Config.Clone()
	cfg.Merge(patch)

	if err := s.store.Save(ctx, Document{Config: cfg, Body: doc.Body}); err != nil {
		return nil, fmt.Errorf("failed to update config: %w", err)
	}

	slog.Info("Config updated", "keys", patchKeys(patch))
	s.eventSink.DocumentChanged(ctx, Change{Kind: ChangeConfig})
	return cfg, nil
}

func (s *service) UpdateSection(ctx context.Context, title, body string) (*Section, error) {
	if !validTitle(title) {
		return nil, ErrInvalidSectionTitle
	}
	title = strings.TrimSpace(title)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}
	sections := ParseSections(doc.Body)
	sections.Set(title, body)

	if err := s.store.Save(ctx, Document{Config: doc.Config, Body: RenderSections(sections)}); err != nil {
		return nil, fmt.Errorf("failed to update section %q: %w", title, err)
	}

	slog.Info("Section updated", "section", title)
	s.eventSink.DocumentChanged(ctx, Change{Kind: ChangeSection, Section: title})
	return &Section{Title: title, Body: body}, nil
}

// loadForWrite returns the document a mutation builds on. A missing document
// starts from the defaults; any other read or decode failure aborts the
// write so the stored document is never replaced by the defaults.
func (s *service) loadForWrite(ctx context.Context) (Document, error) {
	res := s.store.Load(ctx)
	if res.Defaulted && !errors.Is(res.Err, ErrObjectNotFound) {
		return Document{}, fmt.Errorf("refusing to overwrite unreadable document: %w", res.Err)
	}
	return res.Document, nil
}

func (s *service) RenderSection(ctx context.Context, title string) (string, error) {
	body, err := s.GetSection(ctx, title)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(body)
}

func (s *service) SendContactMessage(ctx context.Context, msg ContactMessage) (string, error) {
	if err := validateContact(s.validate, msg); err != nil {
		return "", err
	}
	if s.mailer == nil {
		metrics.EmailsSent.WithLabelValues("not_configured").Inc()
		return "", ErrEmailNotConfigured
	}

	to := s.recipientOverride
	if to == "" {
		to = s.store.Load(ctx).Document.Config[KeyContactEmail]
	}
	if to == "" {
		to = s.store.config.DefaultContactEmail
	}
	if to == "" {
		metrics.EmailsSent.WithLabelValues("not_configured").Inc()
		return "", fmt.Errorf("%w: no recipient address", ErrEmailNotConfigured)
	}

	html, err := renderContactHTML(msg)
	if err != nil {
		return "", fmt.Errorf("failed to render contact email: %w", err)
	}

	id := uuid.New().String()
	err = s.mailer.Send(ctx, MailMessage{
		ID:       id,
		To:       to,
		ReplyTo:  msg.Email,
		Subject:  contactSubject(msg.Subject),
		HTMLBody: html,
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to send contact email: %w", err)
	}

	metrics.EmailsSent.WithLabelValues("ok").Inc()
	slog.Info("Contact email sent", "message_id", id, "to", to)
	return id, nil
}

func (s *service) OpenResume(ctx context.Context) (*Resume, error) {
	if s.resumeBackend == nil || s.resumeKey == "" {
		return nil, ErrResumeNotFound
	}

	meta, err := s.resumeBackend.GetObjectMeta(ctx, s.resumeKey)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to stat resume: %w", err)
	}

	body, err := s.resumeBackend.Download(ctx, s.resumeKey)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to open resume: %w", err)
	}

	contentType := meta.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "application/pdf"
	}

	return &Resume{
		Body:        body,
		Filename:    s.resumeFilename,
		ContentType: contentType,
		Size:        meta.Size,
	}, nil
}

func patchKeys(patch Config) []string {
	keys := make([]string, 0, len(patch))
	for k, v := range patch {
		if v != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
