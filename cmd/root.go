// Package cmd wires the conversion library into the mediaconv CLI.
package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/iamdineshbasnet/media-converter/pkg/converter"
	"github.com/iamdineshbasnet/media-converter/pkg/environment"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
)

// policyFlags are the conversion-policy flags shared by every subcommand.
type policyFlags struct {
	maxSizeMB  float64
	noValidate bool
	allowed    []string
}

// optionFuncs translates the flags into per-call conversion options.
func (f *policyFlags) optionFuncs() []converter.OptionFunc {
	var opts []converter.OptionFunc
	opts = append(opts, converter.WithMaxSizeMB(f.maxSizeMB))
	if f.noValidate {
		opts = append(opts, converter.WithoutValidation())
	}
	if len(f.allowed) > 0 {
		opts = append(opts, converter.WithAllowedTypes(f.allowed...))
	}
	return opts
}

// NewRootCommand returns the root command with all subcommands attached.
func NewRootCommand(fs afero.Fs, ctx context.Context, environ *environment.Environment, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "mediaconv",
		Short: "Convert media between files, base64 text and references.",
		Long: `Mediaconv converts media between three representations: a binary file,
a base64 data URI, and a short-lived in-memory reference. It validates
content types against an allow-list and enforces a size ceiling, and can
stream remote resources with download progress.`,
		SilenceUsage: true,
	}

	flags := &policyFlags{maxSizeMB: environ.MaxSizeMB, noValidate: !environ.ValidateContent}
	rootCmd.PersistentFlags().Float64Var(&flags.maxSizeMB, "max-size-mb", flags.maxSizeMB,
		"maximum accepted payload size in megabytes (0 disables the check)")
	rootCmd.PersistentFlags().BoolVar(&flags.noValidate, "no-validate", flags.noValidate,
		"skip content-type validation")
	rootCmd.PersistentFlags().StringSliceVar(&flags.allowed, "allow", nil,
		`override the content-type allow-list (exact types, categories like "image", or wildcards like "image/*")`)

	conv := converter.New(fs, nil, nil, logger)
	rootCmd.AddCommand(NewEncodeCommand(fs, conv, flags, logger))
	rootCmd.AddCommand(NewDecodeCommand(fs, conv, flags, logger))
	rootCmd.AddCommand(NewFetchCommand(fs, ctx, conv, flags, logger))

	return rootCmd
}
