package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/iamdineshbasnet/media-converter/pkg/converter"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
)

// NewFetchCommand creates the 'fetch' command: URL to file, with a
// progress line when the server declares a total length.
func NewFetchCommand(fs afero.Fs, ctx context.Context, conv *converter.Converter, flags *policyFlags, logger *logging.Logger) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:     "fetch <url>",
		Aliases: []string{"f"},
		Short:   "Download a remote media resource to a file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			opts := flags.optionFuncs()
			opts = append(opts, converter.WithProgress(func(percent float64) {
				fmt.Fprintf(out, "\r%s", strings.Repeat(" ", 50))
				fmt.Fprintf(out, "\rDownloading... %.1f%% complete", percent)
			}))

			blob, err := conv.URLToFile(ctx, args[0], outPath, opts...)
			fmt.Fprintln(out)
			if err != nil {
				return err
			}

			dest := outPath
			if dest == "" {
				dest = blob.Filename
			}

			if err := afero.WriteFile(fs, dest, blob.Data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}

			logger.Info("downloaded", "file", dest, "type", blob.ContentType,
				"size", humanize.Bytes(uint64(len(blob.Data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "destination file (defaults to the URL's filename)")
	return cmd
}
