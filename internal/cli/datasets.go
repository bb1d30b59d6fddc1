package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aabench/aabench/internal/store"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List cached datasets",
	Long:  `List the datasets cached by 'aabench import' with their basic statistics.`,
	RunE:  runDatasets,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	return withStore(func(s *store.SQLiteStore) error {
		datasets, err := s.ListDatasets(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list datasets: %w", err)
		}

		if len(datasets) == 0 {
			fmt.Println("No cached datasets yet.")
			fmt.Println()
			fmt.Println("Import one with:")
			fmt.Println("  aabench import criteo --data data/raw/criteo_sample.csv")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tROWS\tUSERS\tCLICKS\tCTR\tSOURCE\tCREATED")
		for _, d := range datasets {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.4f\t%s\t%s\n",
				d.Name, d.Rows, d.Users, d.Clicks, d.CTR(), d.Source,
				d.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	})
}
