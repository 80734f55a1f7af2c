package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/daemon"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run as a daemon: rotate on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d := daemon.New(cfg, log)

		// Hot reload on SIGHUP.
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		go func() {
			for range hup {
				newCfg, err := config.Load(cfgFile)
				if err != nil {
					log.Error("config reload failed", "error", err)
					continue
				}
				if err := newCfg.Validate(); err != nil {
					log.Error("config reload rejected", "error", err)
					continue
				}
				d.UpdateConfig(newCfg)
			}
		}()

		return d.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
