package converter_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamdineshbasnet/media-converter/pkg/codec"
	"github.com/iamdineshbasnet/media-converter/pkg/converr"
	"github.com/iamdineshbasnet/media-converter/pkg/converter"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
	"github.com/iamdineshbasnet/media-converter/pkg/registry"
)

// pngHeader is enough magic for content sniffing to say image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func newTestConverter(t *testing.T) (*converter.Converter, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return converter.New(fs, nil, registry.New(), logging.NewTestLogger()), fs
}

func TestFileToText(t *testing.T) {
	conv, fs := newTestConverter(t)
	require.NoError(t, afero.WriteFile(fs, "/media/photo.png", pngHeader, 0o644))

	result, err := conv.FileToText("/media/photo.png")
	require.NoError(t, err)

	assert.Equal(t, "image/png", result.MimeType)
	assert.Equal(t, "photo.png", result.Filename)
	assert.True(t, strings.HasPrefix(result.Data, "data:image/png;base64,"))
	assert.InDelta(t, float64(len(pngHeader))/(1024*1024), result.SizeInMB, 1e-12)

	decoded, err := codec.Decode(result.Data)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, decoded)
}

func TestFileToTextSniffsUnknownExtension(t *testing.T) {
	conv, fs := newTestConverter(t)
	require.NoError(t, afero.WriteFile(fs, "/media/photo", pngHeader, 0o644))

	result, err := conv.FileToText("/media/photo")
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.MimeType)
}

func TestFileToTextReadError(t *testing.T) {
	conv, _ := newTestConverter(t)

	_, err := conv.FileToText("/missing.png")
	require.Error(t, err)
	assert.True(t, converr.IsCode(err, converr.CodeReadFailed))
	assert.Contains(t, err.Error(), "fileToText:")
}

func TestFileToTextMimeRejected(t *testing.T) {
	conv, fs := newTestConverter(t)
	require.NoError(t, afero.WriteFile(fs, "/media/photo.png", pngHeader, 0o644))

	_, err := conv.FileToText("/media/photo.png", converter.WithAllowedTypes("audio/mpeg"))
	require.Error(t, err)
	assert.True(t, converr.IsCode(err, converr.CodeMimeRejected))
	assert.Contains(t, err.Error(), "fileToText:")

	// Validation off lets the same file through.
	_, err = conv.FileToText("/media/photo.png",
		converter.WithAllowedTypes("audio/mpeg"), converter.WithoutValidation())
	assert.NoError(t, err)
}

func TestFileToTextSizeExceeded(t *testing.T) {
	conv, fs := newTestConverter(t)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x00}, 3*1024*1024)...)
	require.NoError(t, afero.WriteFile(fs, "/media/big.png", big, 0o644))

	result, err := conv.FileToText("/media/big.png", converter.WithMaxSizeMB(2))
	require.Error(t, err)
	assert.Nil(t, result, "no partial result past the ceiling")
	assert.True(t, converr.IsCode(err, converr.CodeSizeExceeded))
	assert.Contains(t, err.Error(), "fileToText:")
}

func TestTextToFile(t *testing.T) {
	conv, _ := newTestConverter(t)

	text := codec.FormatDataURI("image/png", codec.Encode(pngHeader))

	blob, err := conv.TextToFile(text, "photo.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, blob.Data)
	assert.Equal(t, "image/png", blob.ContentType)
	assert.Equal(t, "photo.png", blob.Filename)
}

func TestTextToFileHeaderFallback(t *testing.T) {
	conv, _ := newTestConverter(t)

	text := codec.FormatDataURI("image/png", codec.Encode(pngHeader))

	blob, err := conv.TextToFile(text, "photo.png", "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.ContentType)
}

func TestTextToFileDecodeError(t *testing.T) {
	conv, _ := newTestConverter(t)

	_, err := conv.TextToFile("data:image/png;base64,@@not@@base64@@", "f.png", "image/png")
	require.Error(t, err)
	assert.True(t, converr.IsCode(err, converr.CodeDecodeFailed))
	assert.Contains(t, err.Error(), "textToFile:")
}

func TestTextToFileMimeRejected(t *testing.T) {
	conv, _ := newTestConverter(t)

	text := codec.FormatDataURI("application/zip", codec.Encode([]byte("zip")))

	_, err := conv.TextToFile(text, "a.zip", "application/zip")
	require.Error(t, err)
	assert.True(t, converr.IsCode(err, converr.CodeMimeRejected))
}

func TestTextToFileSizeExceeded(t *testing.T) {
	conv, _ := newTestConverter(t)

	payload := codec.Encode(bytes.Repeat([]byte{0x01}, 2*1024*1024))
	text := codec.FormatDataURI("image/png", payload)

	blob, err := conv.TextToFile(text, "big.png", "image/png", converter.WithMaxSizeMB(1))
	require.Error(t, err)
	assert.Nil(t, blob)
	assert.True(t, converr.IsCode(err, converr.CodeSizeExceeded))
}

func TestURLToFile(t *testing.T) {
	conv, _ := newTestConverter(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	}))
	defer ts.Close()

	blob, err := conv.URLToFile(context.Background(), ts.URL+"/gallery/photo.png", "")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, blob.Data)
	assert.Equal(t, "image/png", blob.ContentType)
	assert.Equal(t, "photo.png", blob.Filename, "filename comes from the URL path")
}

func TestURLToFileExplicitFilename(t *testing.T) {
	conv, _ := newTestConverter(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	}))
	defer ts.Close()

	blob, err := conv.URLToFile(context.Background(), ts.URL, "renamed.png")
	require.NoError(t, err)
	assert.Equal(t, "renamed.png", blob.Filename)
}

func TestURLToFileDefaultFilename(t *testing.T) {
	conv, _ := newTestConverter(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	}))
	defer ts.Close()

	// Bare host URL, no path segment to name the file after.
	blob, err := conv.URLToFile(context.Background(), ts.URL, "")
	require.NoError(t, err)
	assert.Equal(t, converter.DefaultDownloadFilename, blob.Filename)
}

func TestURLToFileBadStatus(t *testing.T) {
	conv, _ := newTestConverter(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	blob, err := conv.URLToFile(context.Background(), ts.URL+"/missing.png", "")
	require.Error(t, err)
	assert.Nil(t, blob)
	assert.True(t, converr.IsCode(err, converr.CodeHTTPStatus))
	assert.Equal(t, 404, converr.StatusOf(err))
	assert.Contains(t, err.Error(), "urlToFile:")
}

func TestURLToFileMimeRejected(t *testing.T) {
	conv, _ := newTestConverter(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write([]byte("zip"))
	}))
	defer ts.Close()

	_, err := conv.URLToFile(context.Background(), ts.URL, "")
	require.Error(t, err)
	assert.True(t, converr.IsCode(err, converr.CodeMimeRejected))
}

func TestURLToFileSizeExceeded(t *testing.T) {
	conv, _ := newTestConverter(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write(bytes.Repeat([]byte{0x02}, 2*1024*1024))
	}))
	defer ts.Close()

	blob, err := conv.URLToFile(context.Background(), ts.URL+"/clip.mp4", "",
		converter.WithMaxSizeMB(1))
	require.Error(t, err)
	assert.Nil(t, blob)
	assert.True(t, converr.IsCode(err, converr.CodeSizeExceeded))
}

func TestURLToFileProgress(t *testing.T) {
	conv, _ := newTestConverter(t)
	body := bytes.Repeat([]byte{0x03}, 128*1024)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	var reported []float64
	blob, err := conv.URLToFile(context.Background(), ts.URL+"/song.mp3", "",
		converter.WithProgress(func(percent float64) {
			reported = append(reported, percent)
		}))
	require.NoError(t, err)
	assert.Equal(t, body, blob.Data)

	require.NotEmpty(t, reported)
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1])
	}
	assert.InDelta(t, 100, reported[len(reported)-1], 1e-9)
}

func TestFileToReferenceLifecycle(t *testing.T) {
	conv, _ := newTestConverter(t)

	blob := &converter.Blob{Data: pngHeader, ContentType: "image/png", Filename: "photo.png"}

	ref, err := conv.FileToReference(blob)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.URL, "blob:"))

	entry, ok := conv.Registry().Resolve(ref.URL)
	require.True(t, ok)
	assert.Equal(t, pngHeader, entry.Data)
	assert.Equal(t, "image/png", entry.ContentType)

	ref.Release()
	_, ok = conv.Registry().Resolve(ref.URL)
	assert.False(t, ok, "released references no longer resolve")

	// Releasing again is safe.
	ref.Release()
}

func TestFileToReferenceNilBlob(t *testing.T) {
	conv, _ := newTestConverter(t)
	_, err := conv.FileToReference(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fileToReference:")
}

func TestRoundTripThroughFacade(t *testing.T) {
	conv, fs := newTestConverter(t)

	original := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x7F}, 10240)...)
	require.NoError(t, afero.WriteFile(fs, "/in/photo.png", original, 0o644))

	result, err := conv.FileToText("/in/photo.png")
	require.NoError(t, err)

	blob, err := conv.TextToFile(result.Data, result.Filename, result.MimeType)
	require.NoError(t, err)

	assert.Equal(t, original, blob.Data)
	assert.Equal(t, result.MimeType, blob.ContentType)
}
