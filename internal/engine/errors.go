package engine

import (
	"fmt"
	"strings"

	"github.com/aabench/aabench/internal/dataset"
)

// ConsistencyError means at least one analysis-level group spanned both
// treatment arms within a single trial: the assignment and analysis mappings
// disagree and averaging across arms would be meaningless.
type ConsistencyError struct {
	Level dataset.Level
	Keys  []string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s group(s) observed in both arms: %s", e.Level, strings.Join(e.Keys, ", "))
}

// ConfigurationError reports invalid run parameters.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid run configuration: " + e.Reason
}

// TrialError wraps a failure inside one trial with its index. A single bad
// trial aborts the whole run; there is no skipping.
type TrialError struct {
	Trial int
	Err   error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Trial, e.Err)
}

func (e *TrialError) Unwrap() error {
	return e.Err
}
