package main

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/iamdineshbasnet/media-converter/cmd"
	"github.com/iamdineshbasnet/media-converter/pkg/environment"
	"github.com/iamdineshbasnet/media-converter/pkg/logging"
)

func main() {
	fs := afero.NewOsFs()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.GetLogger()

	environ, err := environment.NewEnvironment()
	if err != nil {
		logger.Error("Failed to load environment", "error", err)
		os.Exit(1)
	}

	rootCmd := cmd.NewRootCommand(fs, ctx, environ, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
