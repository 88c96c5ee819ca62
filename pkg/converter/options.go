package converter

import (
	"github.com/iamdineshbasnet/media-converter/pkg/fetch"
	"github.com/iamdineshbasnet/media-converter/pkg/mimetypes"
)

// Options configures a single conversion call. Callers never build one
// directly; each operation merges OptionFunc overrides over the defaults.
type Options struct {
	MaxSizeMB       float64            // upper bound on accepted payload size; <= 0 disables
	ValidateContent bool               // whether the allow-list is enforced
	AllowedTypes    []string           // acceptable content types or categories
	Progress        fetch.ProgressFunc // optional download progress sink
}

// OptionFunc is a functional option for a conversion call.
type OptionFunc func(opts *Options)

// DefaultOptions returns the stock configuration: a 50 MB ceiling with
// content validation against the common media allow-list.
func DefaultOptions() Options {
	return Options{
		MaxSizeMB:       50,
		ValidateContent: true,
		AllowedTypes:    mimetypes.DefaultAllowed,
	}
}

// WithMaxSizeMB overrides the size ceiling in megabytes. Zero or negative
// disables the ceiling.
func WithMaxSizeMB(mb float64) OptionFunc {
	return func(opts *Options) {
		opts.MaxSizeMB = mb
	}
}

// WithoutValidation disables the content-type allow-list for this call.
func WithoutValidation() OptionFunc {
	return func(opts *Options) {
		opts.ValidateContent = false
	}
}

// WithAllowedTypes replaces the allow-list. Entries are exact types
// ("image/png"), bare categories ("image") or wildcards ("image/*").
func WithAllowedTypes(types ...string) OptionFunc {
	return func(opts *Options) {
		opts.AllowedTypes = types
	}
}

// WithProgress registers a sink for download progress percentages.
func WithProgress(fn fetch.ProgressFunc) OptionFunc {
	return func(opts *Options) {
		opts.Progress = fn
	}
}

func buildOptions(fns []OptionFunc) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}
