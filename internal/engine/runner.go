package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aabench/aabench/internal/assign"
	"github.com/aabench/aabench/internal/dataset"
	"github.com/aabench/aabench/internal/stats"
)

// Params configures one repeated-trial run.
type Params struct {
	Level   dataset.Level
	Trials  int
	Alpha   float64
	Workers int // <= 1 runs trials sequentially
}

// Summary is the aggregate outcome of one run at one analysis level.
type Summary struct {
	Level          dataset.Level
	Trials         int
	Alpha          float64
	FalsePositives int
	PValues        []float64 // one per trial, in trial order
}

// FalsePositiveRate is the fraction of trials declaring significance. It is
// NaN, not zero, when no trials ran: "no evidence" must stay distinguishable
// from "no bias".
func (s Summary) FalsePositiveRate() float64 {
	if s.Trials == 0 {
		return math.NaN()
	}
	return float64(s.FalsePositives) / float64(s.Trials)
}

// Runner executes repeated A/A trials over a fixed observation set.
type Runner struct {
	log *zap.Logger
}

// NewRunner returns a runner logging to log; nil disables logging.
func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Run executes params.Trials independent A/A trials and counts how many
// reject the null at params.Alpha. Each trial assigns every user afresh with
// the trial index as salt, aggregates at params.Level, and runs the pooled
// t-test on the group-level CTRs. Any failing trial aborts the run with its
// index attached; results are identical for identical inputs regardless of
// the worker count.
func (r *Runner) Run(ctx context.Context, obs []dataset.Observation, params Params) (Summary, error) {
	if err := validate(params); err != nil {
		return Summary{}, err
	}
	if len(obs) == 0 {
		return Summary{}, &ConfigurationError{Reason: "no observations to run trials over"}
	}

	userIDs := dataset.UniqueUserIDs(obs)
	pvalues := make([]float64, params.Trials)

	runTrial := func(trial int) error {
		a := assign.Build(userIDs, strconv.Itoa(trial))

		groups, err := Aggregate(obs, params.Level, a)
		if err != nil {
			return &TrialError{Trial: trial, Err: err}
		}

		control, treatment := SplitByArm(groups)
		result, err := stats.TwoSampleTTest(control, treatment)
		if err != nil {
			return &TrialError{Trial: trial, Err: err}
		}

		pvalues[trial] = result.PValue
		r.log.Debug("trial finished",
			zap.Int("trial", trial),
			zap.String("level", string(params.Level)),
			zap.Float64("p_value", result.PValue),
			zap.Int("control_groups", result.ControlSize),
			zap.Int("treatment_groups", result.TreatmentSize),
		)
		return nil
	}

	if params.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(params.Workers)
		for trial := 0; trial < params.Trials; trial++ {
			trial := trial
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return runTrial(trial)
			})
		}
		if err := g.Wait(); err != nil {
			return Summary{}, err
		}
	} else {
		for trial := 0; trial < params.Trials; trial++ {
			if err := ctx.Err(); err != nil {
				return Summary{}, fmt.Errorf("run canceled: %w", err)
			}
			if err := runTrial(trial); err != nil {
				return Summary{}, err
			}
		}
	}

	summary := Summary{
		Level:   params.Level,
		Trials:  params.Trials,
		Alpha:   params.Alpha,
		PValues: pvalues,
	}
	for _, p := range pvalues {
		if p < params.Alpha {
			summary.FalsePositives++
		}
	}

	r.log.Info("run finished",
		zap.String("level", string(summary.Level)),
		zap.Int("trials", summary.Trials),
		zap.Float64("alpha", summary.Alpha),
		zap.Int("false_positives", summary.FalsePositives),
		zap.Float64("false_positive_rate", summary.FalsePositiveRate()),
	)

	return summary, nil
}

func validate(params Params) error {
	if _, err := dataset.ParseLevel(string(params.Level)); err != nil {
		return &ConfigurationError{Reason: err.Error()}
	}
	if params.Trials <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("trials must be positive, got %d", params.Trials)}
	}
	if params.Alpha <= 0 || params.Alpha >= 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("alpha must be in (0, 1), got %v", params.Alpha)}
	}
	return nil
}
