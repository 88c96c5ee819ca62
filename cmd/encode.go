package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/iamdineshbasnet/media-converter/pkg/converter"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
)

// NewEncodeCommand creates the 'encode' command: file to base64 data URI.
func NewEncodeCommand(fs afero.Fs, conv *converter.Converter, flags *policyFlags, logger *logging.Logger) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:     "encode <file>",
		Aliases: []string{"e"},
		Short:   "Encode a media file to a base64 data URI",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := conv.FileToText(args[0], flags.optionFuncs()...)
			if err != nil {
				return err
			}

			logger.Info("encoded", "file", result.Filename, "type", result.MimeType,
				"sizeMB", fmt.Sprintf("%.2f", result.SizeInMB))

			if outPath != "" {
				return afero.WriteFile(fs, outPath, []byte(result.Data), 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Data)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the data URI to a file instead of stdout")
	return cmd
}
