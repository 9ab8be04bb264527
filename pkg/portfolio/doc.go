// Package portfolio provides the content store behind a personal portfolio
// site: a single markdown document with YAML front matter whose top-level
// headings are addressable sections.
//
// The Service re-reads the document from its storage Backend on every call,
// so external edits are visible immediately. Mutations are serialized by a
// single writer lock that spans the whole read-modify-write, and are
// persisted by re-encoding the full document.
//
// Document layout
//
//	---
//	contactEmail: "me@example.com"
//	heroTitle: "Hello"
//	---
//
//	# About
//
//	Body text, possibly with ## sub-headings.
//
//	# Skills
//
//	Go
//
// Storage backends (filesystem, memory, S3, Postgres) live under storage/,
// mail transports under mail/, and the HTTP surface under api/.
package portfolio
