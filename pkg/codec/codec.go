// Package codec implements the chunked base64 codec behind every text
// conversion. Encoding and decoding both walk the input in fixed windows so
// peak temporary allocation stays bounded no matter how large the payload is.
package codec

import (
	"encoding/base64"
	"strings"

	"github.com/iamdineshbasnet/media-converter/pkg/converr"
)

const (
	// encodeChunkSize is a multiple of 3 so each window encodes to whole
	// base64 quanta and windows concatenate without padding in the middle.
	encodeChunkSize = 3 * 16384

	// decodeChunkSize is a multiple of 4 for the same reason in reverse;
	// padding can only appear in the final window.
	decodeChunkSize = 4 * 16384

	// headerSeparator splits a data-URI header from its payload.
	headerSeparator = ","

	dataURIPrefix  = "data:"
	encodingMarker = ";base64"
)

// Encode converts raw bytes to a bare base64 payload, one fixed-size window
// at a time.
func Encode(data []byte) string {
	var sb strings.Builder
	sb.Grow(base64.StdEncoding.EncodedLen(len(data)))

	for start := 0; start < len(data); start += encodeChunkSize {
		end := start + encodeChunkSize
		if end > len(data) {
			end = len(data)
		}
		sb.WriteString(base64.StdEncoding.EncodeToString(data[start:end]))
	}

	return sb.String()
}

// Decode converts an encoded text back to raw bytes. The text may carry a
// data-URI style header ("data:image/png;base64,....") or be a bare payload;
// everything up to and including the first separator is stripped. Malformed
// base64 yields a DECODE_FAILED error.
func Decode(text string) ([]byte, error) {
	payload := text
	if idx := strings.Index(text, headerSeparator); idx >= 0 {
		payload = text[idx+1:]
	}
	payload = strings.TrimSpace(payload)

	if payload == "" {
		return []byte{}, nil
	}

	out := make([]byte, 0, base64.StdEncoding.DecodedLen(len(payload)))

	for start := 0; start < len(payload); start += decodeChunkSize {
		end := start + decodeChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk, err := base64.StdEncoding.DecodeString(payload[start:end])
		if err != nil {
			return nil, converr.Wrap(converr.CodeDecodeFailed, "invalid base64 text", err)
		}
		out = append(out, chunk...)
	}

	return out, nil
}

// FormatDataURI wraps a base64 payload in a self-describing header:
// "data:<content-type>;base64,<payload>".
func FormatDataURI(mimeType, payload string) string {
	return dataURIPrefix + mimeType + encodingMarker + headerSeparator + payload
}

// ContentTypeOf recovers the content type from a data-URI header, or ""
// when the text has no header.
func ContentTypeOf(text string) string {
	if !strings.HasPrefix(text, dataURIPrefix) {
		return ""
	}
	header, _, found := strings.Cut(text, headerSeparator)
	if !found {
		return ""
	}
	header = strings.TrimPrefix(header, dataURIPrefix)
	mimeType, _, _ := strings.Cut(header, ";")
	return mimeType
}
