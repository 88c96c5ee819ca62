// Package converter exposes the four public conversion operations, wrapping
// the codec, fetcher and registry with a single validation policy.
package converter

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/iamdineshbasnet/media-converter/pkg/codec"
	"github.com/iamdineshbasnet/media-converter/pkg/converr"
	"github.com/iamdineshbasnet/media-converter/pkg/fetch"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
	"github.com/iamdineshbasnet/media-converter/pkg/mimetypes"
	"github.com/iamdineshbasnet/media-converter/pkg/registry"
)

// DefaultDownloadFilename names downloads whose URL yields no usable
// path segment.
const DefaultDownloadFilename = "downloaded_file"

// Operation names used as error prefixes.
const (
	opFileToText      = "fileToText"
	opTextToFile      = "textToFile"
	opURLToFile       = "urlToFile"
	opFileToReference = "fileToReference"
)

// Converter composes the conversion operations with their platform
// collaborators. It holds no per-call state; a single Converter is safe
// for concurrent use.
type Converter struct {
	fs       afero.Fs
	client   *http.Client
	registry *registry.Registry
	logger   *logging.Logger
}

// New creates a Converter. Nil collaborators fall back to the OS
// filesystem, the default HTTP client, a fresh registry and the shared
// logger.
func New(fs afero.Fs, client *http.Client, reg *registry.Registry, logger *logging.Logger) *Converter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if reg == nil {
		reg = registry.New()
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Converter{fs: fs, client: client, registry: reg, logger: logger}
}

// Registry returns the reference registry this Converter issues
// references from.
func (c *Converter) Registry() *registry.Registry {
	return c.registry
}

// FileToText reads a file and converts it to a self-describing data URI.
// The size ceiling and allow-list are checked before any text is produced.
func (c *Converter) FileToText(filePath string, opts ...OptionFunc) (*Result, error) {
	o := buildOptions(opts)

	data, err := afero.ReadFile(c.fs, filePath)
	if err != nil {
		return nil, converr.Wrap(converr.CodeReadFailed, "reading file", err).WithOp(opFileToText)
	}

	contentType := contentTypeForFile(filePath, data)
	if err := checkPolicy(contentType, float64(len(data))/bytesPerMB, o); err != nil {
		return nil, err.WithOp(opFileToText)
	}

	c.logger.Debug("encoding file", "path", filePath, "contentType", contentType, "bytes", len(data))

	return &Result{
		Data:     codec.FormatDataURI(contentType, codec.Encode(data)),
		MimeType: contentType,
		Filename: filepath.Base(filePath),
		SizeInMB: float64(len(data)) / bytesPerMB,
	}, nil
}

// TextToFile decodes an encoded text back into a file-like Blob. An empty
// mimeType falls back to the type declared in the text's header, when any.
func (c *Converter) TextToFile(text, filename, mimeType string, opts ...OptionFunc) (*Blob, error) {
	o := buildOptions(opts)

	if mimeType == "" {
		mimeType = codec.ContentTypeOf(text)
	}

	if o.ValidateContent && !mimetypes.IsAllowed(mimeType, o.AllowedTypes) {
		return nil, mimeRejected(mimeType).WithOp(opTextToFile)
	}

	data, err := codec.Decode(text)
	if err != nil {
		return nil, stamp(err, opTextToFile)
	}

	if o.MaxSizeMB > 0 && float64(len(data))/bytesPerMB > o.MaxSizeMB {
		return nil, sizeExceeded(float64(len(data))/bytesPerMB, o.MaxSizeMB).WithOp(opTextToFile)
	}

	return &Blob{Data: data, ContentType: mimeType, Filename: filename}, nil
}

// URLToFile downloads a resource into a file-like Blob, reporting progress
// through the configured sink when the server declares a total length. The
// size ceiling is enforced while the body streams, so oversized resources
// abort early. When filename is empty the final URL path segment is used,
// falling back to DefaultDownloadFilename.
func (c *Converter) URLToFile(ctx context.Context, rawURL, filename string, opts ...OptionFunc) (*Blob, error) {
	o := buildOptions(opts)

	var maxBytes int64
	if o.MaxSizeMB > 0 {
		maxBytes = int64(o.MaxSizeMB * bytesPerMB)
	}

	downloaded, err := fetch.Fetch(ctx, c.client, rawURL, maxBytes, o.Progress, c.logger)
	if err != nil {
		return nil, stamp(err, opURLToFile)
	}

	if o.ValidateContent && !mimetypes.IsAllowed(downloaded.ContentType, o.AllowedTypes) {
		return nil, mimeRejected(downloaded.ContentType).WithOp(opURLToFile)
	}

	if filename == "" {
		filename = filenameFromURL(rawURL)
	}

	return &Blob{Data: downloaded.Data, ContentType: downloaded.ContentType, Filename: filename}, nil
}

// FileToReference registers the blob and returns a dereferenceable
// reference with an explicit release operation. No validation is applied;
// a well-formed blob always succeeds. Release is idempotent.
func (c *Converter) FileToReference(blob *Blob) (*Reference, error) {
	if blob == nil {
		return nil, converr.New(converr.CodeReadFailed, "nil blob").WithOp(opFileToReference)
	}

	ref := c.registry.Create(blob.Data, blob.ContentType)

	var once sync.Once
	release := func() {
		once.Do(func() {
			c.registry.Revoke(ref)
		})
	}

	return &Reference{URL: ref, Release: release}, nil
}

// contentTypeForFile resolves a file's content type from its extension,
// sniffing the bytes when the extension is unknown.
func contentTypeForFile(filePath string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filePath)); byExt != "" {
		return mimetypes.Normalize(byExt)
	}
	return mimetypes.Detect(data)
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultDownloadFilename
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return DefaultDownloadFilename
	}
	return name
}

func checkPolicy(contentType string, sizeMB float64, o Options) *converr.Error {
	if o.ValidateContent && !mimetypes.IsAllowed(contentType, o.AllowedTypes) {
		return mimeRejected(contentType)
	}
	if o.MaxSizeMB > 0 && sizeMB > o.MaxSizeMB {
		return sizeExceeded(sizeMB, o.MaxSizeMB)
	}
	return nil
}

func mimeRejected(contentType string) *converr.Error {
	return converr.Newf(converr.CodeMimeRejected, "content type %q is not allowed", contentType)
}

func sizeExceeded(sizeMB, limitMB float64) *converr.Error {
	return converr.Newf(converr.CodeSizeExceeded, "size %.2f MB exceeds the %.0f MB limit", sizeMB, limitMB)
}

// stamp attributes an inner conversion error to a public operation,
// wrapping foreign errors as transport failures.
func stamp(err error, op string) error {
	var ce *converr.Error
	if errors.As(err, &ce) {
		return ce.WithOp(op)
	}
	return converr.Wrap(converr.CodeTransportFailed, "unexpected failure", err).WithOp(op)
}
