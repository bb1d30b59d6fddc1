package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aabench/aabench/internal/store"
)

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a cached dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	name := args[0]

	return withStore(func(s *store.SQLiteStore) error {
		err := s.DeleteDataset(context.Background(), name)
		if err == store.ErrNotFound {
			return fmt.Errorf("dataset '%s' not found", name)
		}
		if err != nil {
			return fmt.Errorf("failed to delete dataset: %w", err)
		}

		fmt.Printf("Removed dataset '%s'\n", name)
		return nil
	})
}
