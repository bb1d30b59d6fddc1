package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aabench/aabench/internal/assign"
	"github.com/aabench/aabench/internal/dataset"
	"github.com/aabench/aabench/internal/engine"
	"github.com/aabench/aabench/internal/stats"
)

func init() {
	rootCmd.AddCommand(newSweepCmd())
}

func newSweepCmd() *cobra.Command {
	var (
		dataPath    string
		datasetName string
		delimiter   string
		levels      string
		trials      int
		alpha       float64
		workers     int
		format      string
		keepGoing   bool
		detail      bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run repeated A/A trials across analysis levels",
		Long: `Run N independent A/A trials per analysis level and report the empirical
false-positive rate of each level. Users are always the randomization unit;
sweeping row_id and impression_id alongside user_id shows how the rate
inflates once the analysis unit is finer than the randomization unit.

Examples:
  aabench sweep --data data/raw/criteo_sample.csv
  aabench sweep --dataset criteo --levels user_id,row_id --trials 500
  aabench sweep --dataset criteo --format csv > rates.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "csv" && format != "json" {
				return fmt.Errorf("invalid format: must be 'table', 'csv' or 'json'")
			}

			parsedLevels, err := parseLevels(levels)
			if err != nil {
				return err
			}

			ctx := context.Background()
			obs, label, err := resolveObservations(ctx, dataPath, datasetName, delimiter)
			if err != nil {
				return err
			}
			if len(obs) == 0 {
				return fmt.Errorf("no observations loaded from %s", label)
			}

			log := newLogger()
			defer log.Sync()
			runner := engine.NewRunner(log)

			var summaries []engine.Summary
			var failures []error
			for _, level := range parsedLevels {
				summary, err := runner.Run(ctx, obs, engine.Params{
					Level:   level,
					Trials:  trials,
					Alpha:   alpha,
					Workers: workers,
				})
				if err != nil {
					if !keepGoing {
						return fmt.Errorf("level %s: %w", level, err)
					}
					failures = append(failures, fmt.Errorf("level %s: %w", level, err))
					continue
				}
				summaries = append(summaries, summary)
			}

			if err := printSummaries(cmd, summaries, label, format); err != nil {
				return err
			}

			if detail && format == "table" {
				printExampleSplit(cmd, obs, parsedLevels)
			}

			for _, f := range failures {
				fmt.Fprintln(cmd.ErrOrStderr(), "sweep:", f)
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d level(s) failed", len(failures), len(parsedLevels))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "CSV click log to load")
	cmd.Flags().StringVar(&datasetName, "dataset", "", "cached dataset name (see 'aabench datasets')")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "field delimiter of --data")
	cmd.Flags().StringVar(&levels, "levels", "user_id,impression_id,row_id", "comma-separated analysis levels to sweep")
	cmd.Flags().IntVar(&trials, "trials", 100, "number of independent A/A trials per level")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance threshold")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent trial workers (1 = sequential)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, csv or json)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue with remaining levels after a failure")
	cmd.Flags().BoolVar(&detail, "detail", false, "also print one example split per level (salt 0)")

	return cmd
}

func parseLevels(s string) ([]dataset.Level, error) {
	parts := strings.Split(s, ",")
	levels := make([]dataset.Level, 0, len(parts))
	seen := make(map[dataset.Level]bool)
	for _, p := range parts {
		level, err := dataset.ParseLevel(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		if seen[level] {
			continue
		}
		seen[level] = true
		levels = append(levels, level)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no analysis levels given")
	}
	return levels, nil
}

func formatRate(rate float64) string {
	if math.IsNaN(rate) {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", rate)
}

func printSummaries(cmd *cobra.Command, summaries []engine.Summary, label, format string) error {
	switch format {
	case "csv":
		return printSummariesCSV(summaries)
	case "json":
		return printSummariesJSON(summaries, label)
	}

	fmt.Printf("DATASET: %s\n\n", label)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tTRIALS\tALPHA\tFALSE POSITIVES\tFP RATE")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%s\n",
			s.Level, s.Trials, s.Alpha, s.FalsePositives, formatRate(s.FalsePositiveRate()))
	}
	return w.Flush()
}

func printSummariesCSV(summaries []engine.Summary) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"level", "trials", "alpha", "false_positives", "false_positive_rate"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range summaries {
		row := []string{
			string(s.Level),
			strconv.Itoa(s.Trials),
			strconv.FormatFloat(s.Alpha, 'g', -1, 64),
			strconv.Itoa(s.FalsePositives),
			formatRate(s.FalsePositiveRate()),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

type jsonSummary struct {
	Level             string  `json:"level"`
	Trials            int     `json:"trials"`
	Alpha             float64 `json:"alpha"`
	FalsePositives    int     `json:"false_positive_count"`
	FalsePositiveRate string  `json:"false_positive_rate"`
}

type jsonSweep struct {
	Dataset   string        `json:"dataset"`
	Summaries []jsonSummary `json:"summaries"`
}

func printSummariesJSON(summaries []engine.Summary, label string) error {
	export := jsonSweep{Dataset: label, Summaries: make([]jsonSummary, len(summaries))}
	for i, s := range summaries {
		export.Summaries[i] = jsonSummary{
			Level:             string(s.Level),
			Trials:            s.Trials,
			Alpha:             s.Alpha,
			FalsePositives:    s.FalsePositives,
			FalsePositiveRate: formatRate(s.FalsePositiveRate()),
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// printExampleSplit shows what a single trial (salt "0") looks like at each
// level: group counts per arm and mean group CTR with a 95% interval.
func printExampleSplit(cmd *cobra.Command, obs []dataset.Observation, levels []dataset.Level) {
	a := assign.Build(dataset.UniqueUserIDs(obs), "0")

	fmt.Fprintln(cmd.OutOrStdout(), "\nExample split (salt 0):")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tARM\tGROUPS\tMEAN CTR\t95% CI")
	for _, level := range levels {
		groups, err := engine.Aggregate(obs, level, a)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", level, err)
			continue
		}
		control, treatment := engine.SplitByArm(groups)
		for _, arm := range []struct {
			name   string
			values []float64
		}{{"control", control}, {"treatment", treatment}} {
			if len(arm.values) == 0 {
				fmt.Fprintf(w, "%s\t%s\t0\t-\t-\n", level, arm.name)
				continue
			}
			lower, upper := stats.MeanInterval(arm.values, 0.95)
			mean := 0.0
			for _, v := range arm.values {
				mean += v
			}
			mean /= float64(len(arm.values))
			fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t[%.4f, %.4f]\n",
				level, arm.name, len(arm.values), mean, lower, upper)
		}
	}
	w.Flush()
}
