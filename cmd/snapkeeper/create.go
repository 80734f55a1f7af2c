package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/coldstore/snapkeeper/internal/rotation"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a snapshot of every volume without pruning anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		results, err := rotation.New(log).CreateAll(cmd.Context(), cfg.Volumes, time.Now())
		if err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			switch {
			case res.Err != nil:
				failed++
			case res.Existed:
				cmd.Printf("%s: %s (already existed)\n", res.Volume, res.Name)
			default:
				cmd.Printf("%s: %s\n", res.Volume, res.Name)
			}
		}
		if failed > 0 {
			return errors.New("snapshot creation failed for some volumes")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
