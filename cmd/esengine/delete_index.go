package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteIndexCmd = &cobra.Command{
	Use:   "delete-index",
	Short: "Delete the whole search index",
	Long: `delete-index removes the configured index from the index service.
A missing index counts as deleted. Requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteYes {
			return errors.New("refusing to delete the index without --yes")
		}

		c := buildComponents(cfg, logger)
		deleted, err := c.engine.Delete(cmd.Context(), "")
		if err != nil {
			return fmt.Errorf("delete index: %w", err)
		}
		if !deleted {
			return fmt.Errorf("index service did not acknowledge deletion of %q", cfg.Engine.IndexName)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Index deleted: %s\n", cfg.Engine.IndexName)
		return nil
	},
}

func init() {
	deleteIndexCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Confirm deletion")
	rootCmd.AddCommand(deleteIndexCmd)
}
