package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aabench",
	Short: "aabench - measure unit-of-analysis bias with repeated A/A tests",
	Long: `aabench runs repeated A/A experiments over a click log to show how the
false-positive rate of a t-test inflates when the metric is analyzed at a
finer unit (row, impression) than the unit that was randomized (user).

Typical session:
  aabench download
  aabench sweep --data data/raw/criteo_sample.csv --trials 100`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("AABENCH_DB_PATH", "./aabench.db"), "dataset cache path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log per-trial details")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// newLogger builds the command's logger: a console development logger when
// --verbose is set, a nop logger otherwise.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
