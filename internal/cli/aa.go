package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aabench/aabench/internal/dataset"
	"github.com/aabench/aabench/internal/stats"
	"github.com/aabench/aabench/internal/store"
)

func init() {
	rootCmd.AddCommand(newAACmd())
}

func newAACmd() *cobra.Command {
	var (
		dataPath     string
		datasetName  string
		metricColumn string
		delimiter    string
		seed         int64
		testSize     float64
		hasHeader    bool
	)

	cmd := &cobra.Command{
		Use:   "aa",
		Short: "Run a single seeded A/A test",
		Long: `Run one A/A test: split the metric into two arms with a seeded random
generator and compare them with a two-tailed equal-variance t-test. With no
real difference between the arms, the p-value should only rarely fall below
the significance threshold.

The metric column is a zero-based index, or a column name when --has-header
is set. With --dataset the click column of a cached dataset is used instead.

Examples:
  aabench aa --data data/raw/criteo_sample.csv --metric-column 0
  aabench aa --data clicks.csv --has-header --metric-column click --seed 7
  aabench aa --dataset criteo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataPath != "" && datasetName != "" {
				return fmt.Errorf("use --data OR --dataset, not both")
			}

			var metric []float64
			switch {
			case dataPath != "":
				delim, err := parseDelimiter(delimiter)
				if err != nil {
					return err
				}
				metric, err = dataset.LoadMetric(dataPath, dataset.ParseColumnRef(metricColumn), delim, hasHeader)
				if err != nil {
					return err
				}
			default:
				err := withStore(func(s *store.SQLiteStore) error {
					ctx := context.Background()
					name := datasetName
					if name == "" {
						var err error
						name, err = pickDataset(ctx, s)
						if err != nil {
							return err
						}
					}
					obs, err := s.LoadObservations(ctx, name)
					if err == store.ErrNotFound {
						return fmt.Errorf("dataset %q not found (run 'aabench import' first)", name)
					}
					if err != nil {
						return err
					}
					metric = make([]float64, len(obs))
					for i, o := range obs {
						if o.Click {
							metric[i] = 1
						}
					}
					return nil
				})
				if err != nil {
					return err
				}
			}

			if len(metric) == 0 {
				return fmt.Errorf("no valid observations were loaded")
			}

			result, err := stats.RandomSplitAA(metric, seed, testSize)
			if err != nil {
				return err
			}

			fmt.Println("Control group size:", result.ControlSize)
			fmt.Println("Treatment group size:", result.TreatmentSize)
			fmt.Printf("Control mean CTR: %.4f\n", result.ControlMean)
			fmt.Printf("Treatment mean CTR: %.4f\n", result.TreatmentMean)
			fmt.Printf("Difference (treatment - control): %.4f\n", result.Difference())
			fmt.Printf("Two-tailed p-value: %.6f\n", result.PValue)

			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "dataset file to load the metric from")
	cmd.Flags().StringVar(&datasetName, "dataset", "", "cached dataset name (click column becomes the metric)")
	cmd.Flags().StringVar(&metricColumn, "metric-column", "0", "metric column: zero-based index, or name with --has-header")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "field delimiter of --data")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the bucket split")
	cmd.Flags().Float64Var(&testSize, "test-size", 0.5, "proportion assigned to the treatment bucket")
	cmd.Flags().BoolVar(&hasHeader, "has-header", false, "treat the first row as a header")

	return cmd
}
