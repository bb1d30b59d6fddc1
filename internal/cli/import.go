package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aabench/aabench/internal/dataset"
	"github.com/aabench/aabench/internal/store"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	var (
		dataPath  string
		delimiter string
	)

	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Import a click log into the dataset cache",
		Long: `Parse a CSV click log once and cache it under a name, so sweeps can
reload it without re-parsing. The file needs user_id, impression_id and
click columns.

Example:
  aabench import criteo --data data/raw/criteo_sample.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			delim, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}

			obs, err := dataset.LoadObservations(dataPath, delim)
			if err != nil {
				return err
			}
			if len(obs) == 0 {
				return fmt.Errorf("no observations loaded from %s", dataPath)
			}

			return withStore(func(s *store.SQLiteStore) error {
				d, err := s.ImportDataset(context.Background(), name, dataPath, obs)
				if errors.Is(err, store.ErrExists) {
					return fmt.Errorf("dataset %q already exists (remove it with 'aabench rm %s' first)", name, name)
				}
				if err != nil {
					return fmt.Errorf("failed to import dataset: %w", err)
				}

				fmt.Printf("Imported dataset '%s': %d rows, %d users, %d clicks (CTR %.4f)\n",
					d.Name, d.Rows, d.Users, d.Clicks, d.CTR())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "CSV click log to import (required)")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "field delimiter of --data")
	cmd.MarkFlagRequired("data")

	return cmd
}
