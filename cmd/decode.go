package cmd

import (
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/iamdineshbasnet/media-converter/pkg/converter"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
)

// NewDecodeCommand creates the 'decode' command: base64 text to file.
// The argument is either the encoded text itself or @path to read it
// from a file.
func NewDecodeCommand(fs afero.Fs, conv *converter.Converter, flags *policyFlags, logger *logging.Logger) *cobra.Command {
	var (
		outPath  string
		mimeType string
	)

	cmd := &cobra.Command{
		Use:     "decode <text|@file>",
		Aliases: []string{"d"},
		Short:   "Decode a base64 data URI back into a media file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if strings.HasPrefix(text, "@") {
				raw, err := afero.ReadFile(fs, strings.TrimPrefix(text, "@"))
				if err != nil {
					return err
				}
				text = string(raw)
			}

			blob, err := conv.TextToFile(text, outPath, mimeType, flags.optionFuncs()...)
			if err != nil {
				return err
			}

			logger.Info("decoded", "file", blob.Filename, "type", blob.ContentType,
				"bytes", len(blob.Data))

			return afero.WriteFile(fs, outPath, blob.Data, 0o644)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "decoded.bin", "destination file")
	cmd.Flags().StringVarP(&mimeType, "type", "t", "", "content type (defaults to the data URI header)")
	return cmd
}
