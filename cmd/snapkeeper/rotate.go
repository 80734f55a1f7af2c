package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/coldstore/snapkeeper/internal/gate"
	"github.com/coldstore/snapkeeper/internal/rotation"
)

var rotateForce bool

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Create a snapshot of every volume and prune under the retention policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		g := gate.New(cfg.Gate, log)
		if ok, reason := g.Check(cfg.Volumes); !ok && !rotateForce {
			return errors.New("rotation gated: " + reason)
		}

		rep, err := rotation.New(log).Rotate(cmd.Context(), cfg.Volumes, cfg.Policy, time.Now())
		if err != nil {
			return err
		}
		g.Consume()

		cmd.Print(rep.Summary())
		if !rep.OverallOk() {
			return errors.New("rotation finished with failures")
		}
		return nil
	},
}

func init() {
	rotateCmd.Flags().BoolVar(&rotateForce, "force", false, "run even when the gate says no")
	rootCmd.AddCommand(rotateCmd)
}
