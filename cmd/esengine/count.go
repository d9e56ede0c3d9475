package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of documents in the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := buildComponents(cfg, logger)
		n, err := c.engine.GetQueryTotalCount(cmd.Context())
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
