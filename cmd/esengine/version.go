package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/esengine/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of esengine",
	// No config needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "esengine %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
