package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Well-known configuration keys. The configuration has no fixed schema; these
// are the keys the HTTP surface exposes for editing.
const (
	KeyContactEmail = "contactEmail"
	KeyHeroTitle    = "heroTitle"
	KeyHeroSubtitle = "heroSubtitle"
)

// Config is the site metadata stored in the document's front matter.
type Config map[string]string

// Clone returns a copy of the configuration.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge copies every non-empty value of patch into c. An empty value is
// indistinguishable from an omitted one and leaves the key untouched.
func (c Config) Merge(patch Config) {
	for k, v := range patch {
		if v == "" {
			continue
		}
		c[k] = v
	}
}

// Section is a top-level heading and the text that follows it.
type Section struct {
	Title string `json:"section"`
	Body  string `json:"content"`
}

// Document is the persisted artifact: front matter plus the raw markdown body.
type Document struct {
	Config Config
	Body   string
}

// Content is the read model returned by Service.GetAll.
type Content struct {
	Config     Config    `json:"config"`
	Sections   *Sections `json:"sections"`
	RawContent string    `json:"raw_content"`
}

// Sections is an ordered title -> body mapping. Titles keep the position in
// which they were first seen.
type Sections struct {
	order  []string
	bodies map[string]string
}

// NewSections returns an empty ordered section map.
func NewSections() *Sections {
	return &Sections{bodies: make(map[string]string)}
}

// Get returns the body for title.
func (s *Sections) Get(title string) (string, bool) {
	body, ok := s.bodies[title]
	return body, ok
}

// Set inserts or replaces the body for title. A replaced section keeps its
// position; a new one is appended.
func (s *Sections) Set(title, body string) {
	if _, ok := s.bodies[title]; !ok {
		s.order = append(s.order, title)
	}
	s.bodies[title] = body
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	return len(s.order)
}

// Titles returns the section titles in order.
func (s *Sections) Titles() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns the sections in order.
func (s *Sections) All() []Section {
	out := make([]Section, 0, len(s.order))
	for _, title := range s.order {
		out = append(out, Section{Title: title, Body: s.bodies[title]})
	}
	return out
}

// Map returns the sections as an unordered map.
func (s *Sections) Map() map[string]string {
	out := make(map[string]string, len(s.bodies))
	for k, v := range s.bodies {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the sections as a JSON object whose keys appear in
// section order.
func (s *Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, title := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(title)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.bodies[title])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (s *Sections) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("sections: expected JSON object")
	}
	*s = Sections{bodies: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		title, _ := tok.(string)
		var body string
		if err := dec.Decode(&body); err != nil {
			return err
		}
		s.Set(title, body)
	}
	_, err = dec.Token()
	return err
}

// ContactMessage is a contact-form submission.
type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

// MailMessage is an outbound email handed to a Mailer.
type MailMessage struct {
	ID       string
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// Resume is an open handle on the resume file.
type Resume struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

// ChangeKind identifies what a write changed.
type ChangeKind string

const (
	ChangeConfig   ChangeKind = "config"
	ChangeSection  ChangeKind = "section"
	ChangeExternal ChangeKind = "external"
)

// Change describes a document mutation delivered to an EventSink.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Section string     `json:"section,omitempty"`
}
