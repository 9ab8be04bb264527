// Package smtp delivers contact messages over SMTP with STARTTLS.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	gosmtp "net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Gmail defaults, matching the accounts most portfolios send from.
const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

// Config options for the SMTP mailer
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string // Defaults to User
}

// Mailer sends mail through an SMTP server that supports STARTTLS
type Mailer struct {
	config Config
	dialer net.Dialer
}

// New creates a new SMTP mailer
func New(config Config) (*Mailer, error) {
	if config.User == "" || config.Password == "" {
		return nil, portfolio.ErrEmailNotConfigured
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.From == "" {
		config.From = config.User
	}
	if err := validateAddress(config.From); err != nil {
		return nil, fmt.Errorf("invalid sender email in config: %w", err)
	}

	return &Mailer{
		config: config,
		dialer: net.Dialer{Timeout: 15 * time.Second},
	}, nil
}

// Send delivers msg. The context bounds the connection attempt and the whole
// SMTP conversation.
func (m *Mailer) Send(ctx context.Context, msg portfolio.MailMessage) error {
	if err := validateAddress(msg.To); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	body, err := m.buildMessage(msg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))
	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := gosmtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer func() { _ = client.Close() }()

	tlsConfig := &tls.Config{
		ServerName: m.config.Host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := gosmtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(m.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("failed to quit SMTP connection: %w", err)
	}
	return nil
}

func (m *Mailer) buildMessage(msg portfolio.MailMessage) ([]byte, error) {
	headers := map[string]string{
		"From":         m.config.From,
		"To":           msg.To,
		"Subject":      mime.QEncoding.Encode("utf-8", msg.Subject),
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	if msg.ReplyTo != "" {
		if err := validateAddress(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to email: %w", err)
		}
		headers["Reply-To"] = msg.ReplyTo
	}
	if msg.ID != "" {
		headers["Message-ID"] = fmt.Sprintf("<%s@%s>", msg.ID, senderDomain(m.config.From))
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, headers[k])
	}
	buf.WriteString("\r\n")
	buf.WriteString(msg.HTMLBody)
	return buf.Bytes(), nil
}

// validateAddress rejects malformed addresses and header injection attempts
func validateAddress(email string) error {
	if strings.ContainsAny(email, "\r\n") {
		return errors.New("invalid email address: contains newline characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

func senderDomain(from string) string {
	if addr, err := mail.ParseAddress(from); err == nil {
		if i := strings.LastIndex(addr.Address, "@"); i >= 0 {
			return addr.Address[i+1:]
		}
	}
	return "localhost"
}
