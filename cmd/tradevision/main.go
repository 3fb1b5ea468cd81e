package main

import (
	"fmt"
	"os"
	"strings"

	"tradevision/internal/cli"
	"tradevision/internal/config"
	"tradevision/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.Logging, config.DefaultConfigDir())

	rootCmd, err := cli.NewRootCmd(cfg, logger)
	if err != nil {
		return err
	}

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		return err
	}
	return nil
}

// configDirFromArgs pre-parses --config so the configuration is loaded
// before cobra runs.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
