// Package mimetypes decides whether a content type is acceptable against a
// configurable allow-list, and sniffs types for payloads that carry none.
package mimetypes

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultAllowed is the stock allow-list of common image, video, audio and
// document types. Callers override it per call through conversion options.
var DefaultAllowed = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"video/mp4",
	"video/webm",
	"video/quicktime",
	"audio/mpeg",
	"audio/wav",
	"audio/ogg",
	"application/pdf",
	"text/plain",
}

// IsAllowed reports whether mimeType is acceptable against the allow-list.
// A type matches an entry exactly, or by top-level category when the entry
// is a bare category ("image") or a wildcard ("image/*"). A malformed type
// with no slash can only match exactly. Never errors; no match means false.
func IsAllowed(mimeType string, allowed []string) bool {
	if mimeType == "" {
		return false
	}

	category, _, hasSubtype := strings.Cut(mimeType, "/")

	for _, entry := range allowed {
		if mimeType == entry {
			return true
		}
		if !hasSubtype {
			continue
		}
		if entry == category || entry == category+"/*" {
			return true
		}
	}

	return false
}

// Detect sniffs the content type of raw data. It always returns a usable
// type, falling back to application/octet-stream for unrecognized content.
func Detect(data []byte) string {
	return mimetype.Detect(data).String()
}

// Normalize strips any media-type parameters (e.g. "; charset=utf-8") and
// lowercases the bare type.
func Normalize(mimeType string) string {
	bare, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(bare))
}
