// Package registry maps short-lived string references to in-memory media
// buffers, standing in for a platform object-URL facility. Entries live
// until explicitly revoked; the registry never expires them on its own.
package registry

import (
	"sync"

	"github.com/google/uuid"
)

const refScheme = "blob:"

// Entry is a registered buffer with its content type.
type Entry struct {
	Data        []byte
	ContentType string
}

// Registry is a concurrency-safe reference registry.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Create registers the buffer and returns a fresh dereferenceable reference.
func (r *Registry) Create(data []byte, contentType string) string {
	ref := refScheme + uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[ref] = Entry{Data: data, ContentType: contentType}

	return ref
}

// Resolve looks up a previously issued reference.
func (r *Registry) Resolve(ref string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[ref]
	return entry, ok
}

// Revoke invalidates a reference. It reports whether the reference was
// still registered; revoking twice is harmless.
func (r *Registry) Revoke(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[ref]; !ok {
		return false
	}
	delete(r.entries, ref)
	return true
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
