package portfolio

import (
	"errors"
	"fmt"
	"strings"
)

// Error types
var (
	// ErrSectionNotFound indicates the requested section title is not in the document
	ErrSectionNotFound = errors.New("section not found")

	// ErrResumeNotFound indicates the resume file is missing from storage
	ErrResumeNotFound = errors.New("resume not found")

	// ErrObjectNotFound is returned by storage backends for a missing key
	ErrObjectNotFound = errors.New("object not found")

	// ErrEmailNotConfigured indicates no mail transport or credentials are configured
	ErrEmailNotConfigured = errors.New("email transport not configured")

	// ErrInvalidSectionTitle indicates an empty or multi-line section title
	ErrInvalidSectionTitle = errors.New("invalid section title")

	// ErrMalformedFrontMatter indicates an opening front matter fence without a closing one
	ErrMalformedFrontMatter = errors.New("malformed front matter")
)

// PersistenceError represents a failed write of the document
type PersistenceError struct {
	Key string
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence operation %s failed for %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError lists the fields of a request that failed validation
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// IsNotFound reports whether err is one of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrResumeNotFound) ||
		errors.Is(err, ErrObjectNotFound)
}
