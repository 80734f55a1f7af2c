package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/coldstore/snapkeeper/internal/diff"
)

var diffExcludes []string

var diffCmd = &cobra.Command{
	Use:   "diff SOURCE DEST",
	Short: "Compare a source tree or snapshot against a transfer destination",
	Long: `Compare the file listing of SOURCE against DEST and report what the
transfer left behind, dropped, or resized. Paths containing ':' are listed
with rclone; everything else is walked locally.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lister := diff.NewLister(diffExcludes)

		source, err := lister.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		dest, err := lister.List(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		changes := diff.Compare(source, dest)
		diff.Render(cmd.OutOrStdout(), changes, source, dest, time.Now())
		if !changes.Empty() {
			return errors.New("source and destination differ")
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().StringArrayVar(&diffExcludes, "exclude", nil, "exclude pattern (repeatable)")
	rootCmd.AddCommand(diffCmd)
}
