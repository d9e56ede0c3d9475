package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	healthuc "github.com/kailas-cloud/esengine/internal/usecase/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the index service and host endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := buildComponents(cfg, logger)
		report := c.health.Check(cmd.Context())

		names := make([]string, 0, len(report.Checks))
		for name := range report.Checks {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			fmt.Fprintf(out, "%-6s %s\n", name, report.Checks[name])
		}
		fmt.Fprintf(out, "status %s\n", report.Status)

		if report.Status != healthuc.Healthy {
			return fmt.Errorf("health status %s", report.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
