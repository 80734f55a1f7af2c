package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "snapkeeper",
	Short:         "Tiered snapshot lifecycle manager for btrfs and zfs volumes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
}

// setup loads and validates the config and builds the logger the
// subcommands share.
func setup() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format), nil
}
