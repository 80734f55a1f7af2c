package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Overridden at build time via -ldflags.
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("snapkeeper %s (%s, %s)\n", buildVersion, buildCommit, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
