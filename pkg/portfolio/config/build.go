package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	resendmail "github.com/tendant/simple-portfolio/pkg/portfolio/mail/resend"
	smtpmail "github.com/tendant/simple-portfolio/pkg/portfolio/mail/smtp"
	fsstorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/fs"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
	pgstorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/postgres"
	s3storage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/s3"
)

// Runtime is the assembled service together with the pieces binaries need
// direct access to
type Runtime struct {
	Service portfolio.Service
	Store   *portfolio.DocumentStore
	Backend portfolio.Backend

	closers []func()
}

// Close releases connections opened while building the runtime
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// BuildBackend creates the storage backend named by StorageURL. The returned
// close function is never nil.
func (c *ServerConfig) BuildBackend(ctx context.Context) (portfolio.Backend, func(), error) {
	noop := func() {}

	switch c.StorageType {
	case StorageMemory:
		return memorystorage.New(), noop, nil
	case StorageFS:
		backend, err := fsstorage.New(fsstorage.Config{BaseDir: c.Storage.BaseDir})
		if err != nil {
			return nil, noop, err
		}
		return backend, noop, nil
	case StorageS3:
		backend, err := s3storage.New(s3storage.Config{
			Region:          c.AWS.Region,
			Bucket:          c.Storage.Bucket,
			Prefix:          c.Storage.Prefix,
			AccessKeyID:     c.AWS.AccessKeyID,
			SecretAccessKey: c.AWS.SecretAccessKey,
			Endpoint:        c.AWS.Endpoint,
			UsePathStyle:    c.AWS.UsePathStyle,
		})
		if err != nil {
			return nil, noop, err
		}
		return backend, noop, nil
	case StoragePostgres:
		pool, err := pgstorage.NewPool(ctx, c.Storage.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, noop, err
		}
		backend := pgstorage.New(pool)
		if err := backend.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return backend, pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

// BuildMailer creates the contact mail transport. It returns nil, nil when
// no credentials are configured.
func (c *ServerConfig) BuildMailer() (portfolio.Mailer, error) {
	switch c.MailProvider() {
	case "resend":
		return resendmail.New(c.Email.ResendAPIKey, c.Email.From)
	case "smtp":
		return smtpmail.New(smtpmail.Config{
			Host:     c.Email.SMTPHost,
			Port:     c.Email.SMTPPort,
			User:     c.Email.User,
			Password: c.Email.Password,
			From:     c.Email.From,
		})
	default:
		return nil, nil
	}
}

// BuildService creates a Runtime from the server configuration. Extra options
// are applied after the configured ones.
func (c *ServerConfig) BuildService(ctx context.Context, extra ...portfolio.Option) (*Runtime, error) {
	rt := &Runtime{}

	backend, closeBackend, err := c.BuildBackend(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}
	rt.Backend = backend
	rt.closers = append(rt.closers, closeBackend)

	store, err := portfolio.NewDocumentStore(backend, portfolio.StoreConfig{
		DocumentKey:         c.DocumentKey,
		DefaultContactEmail: c.DefaultContactEmail,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Store = store

	options := []portfolio.Option{
		portfolio.WithDocumentStore(store),
		portfolio.WithResume(backend, c.ResumeKey, c.ResumeFilename),
		portfolio.WithRecipientOverride(c.Email.Recipient),
	}

	mailer, err := c.BuildMailer()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build mailer: %w", err)
	}
	if mailer != nil {
		options = append(options, portfolio.WithMailer(mailer))
	} else {
		slog.Warn("No email transport configured, contact form is disabled")
	}

	svc, err := portfolio.New(append(options, extra...)...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Service = svc

	slog.Info("Portfolio service ready",
		"storage", c.StorageType,
		"document", c.DocumentKey,
		"mail", c.MailProvider())
	return rt, nil
}
