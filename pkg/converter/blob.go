package converter

const bytesPerMB = 1024 * 1024

// Blob is an in-memory media buffer tagged with a content type and a
// filename. Operations never mutate a Blob after returning it.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// SizeInMB returns the payload size in megabytes.
func (b *Blob) SizeInMB() float64 {
	return float64(len(b.Data)) / bytesPerMB
}

// Result is the outcome of a bytes-to-text conversion: a data URI plus the
// metadata callers typically persist alongside it.
type Result struct {
	Data     string
	MimeType string
	Filename string
	SizeInMB float64
}

// Reference is a registered dereferenceable handle. Release revokes the
// registry entry; entries are never revoked on the caller's behalf, so a
// caller that drops a Reference without releasing it leaks the entry for
// the life of the registry.
type Reference struct {
	URL     string
	Release func()
}
