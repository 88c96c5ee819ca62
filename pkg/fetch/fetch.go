// Package fetch pulls a remote resource into memory chunk by chunk,
// reporting incremental progress and enforcing a size ceiling while the
// transfer is still running.
package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/iamdineshbasnet/media-converter/pkg/converr"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
	"github.com/iamdineshbasnet/media-converter/pkg/mimetypes"
)

// DefaultContentType tags downloads whose response declares no type.
const DefaultContentType = "application/octet-stream"

// ProgressFunc receives a completion percentage in [0, 100] after each
// received chunk. It is only called when the server declares a total
// length; without one no progress is ever fabricated.
type ProgressFunc func(percent float64)

// Blob is a fully downloaded resource.
type Blob struct {
	Data        []byte
	ContentType string
}

// accumulator collects response chunks, advances the received-byte counter
// and aborts the copy as soon as the ceiling is crossed.
type accumulator struct {
	buf        bytes.Buffer
	received   int64
	total      int64
	maxBytes   int64
	onProgress ProgressFunc
}

func (a *accumulator) Write(p []byte) (int, error) {
	n, _ := a.buf.Write(p)
	a.received += int64(n)

	if a.maxBytes > 0 && a.received > a.maxBytes {
		return n, converr.Newf(converr.CodeSizeExceeded,
			"download exceeds the %s limit", humanize.Bytes(uint64(a.maxBytes)))
	}

	if a.total > 0 && a.onProgress != nil {
		a.onProgress(float64(a.received) / float64(a.total) * 100)
	}

	return n, nil
}

// Fetch downloads url into memory. A non-2xx status fails with an
// HTTP_STATUS error before any body byte is read; maxBytes <= 0 disables
// the ceiling. On any failure the partially accumulated bytes are
// discarded, never returned.
func Fetch(ctx context.Context, client *http.Client, url string, maxBytes int64, onProgress ProgressFunc, logger *logging.Logger) (*Blob, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, converr.Wrap(converr.CodeTransportFailed, "building request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, converr.Wrap(converr.CodeTransportFailed, "requesting resource", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, converr.NewHTTPStatus(resp.StatusCode)
	}

	contentType := mimetypes.Normalize(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = DefaultContentType
	}

	acc := &accumulator{
		total:      resp.ContentLength,
		maxBytes:   maxBytes,
		onProgress: onProgress,
	}

	logger.Debug("downloading", "url", url, "contentType", contentType,
		"declaredLength", resp.ContentLength)

	if _, err := io.Copy(acc, resp.Body); err != nil {
		if converr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, converr.Wrap(converr.CodeTransportFailed, "streaming body", err)
	}

	logger.Debug("download complete", "url", url,
		"size", humanize.Bytes(uint64(acc.received)))

	return &Blob{Data: acc.buf.Bytes(), ContentType: contentType}, nil
}
