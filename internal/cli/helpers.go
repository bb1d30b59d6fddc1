package cli

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/manifoldco/promptui"

	"github.com/aabench/aabench/internal/dataset"
	"github.com/aabench/aabench/internal/store"
)

// withStore opens the dataset cache, executes the function, and handles cleanup.
func withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open dataset cache: %w", err)
	}
	defer s.Close()

	return fn(s)
}

// parseDelimiter turns the --delimiter flag into a rune, accepting "\t" for
// tab-separated files.
func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// resolveObservations loads the observation set a command should run over:
// from a file when --data is set, from the cache when --dataset is set, and
// otherwise by prompting among cached datasets.
func resolveObservations(ctx context.Context, dataPath, datasetName, delimiter string) ([]dataset.Observation, string, error) {
	delim, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, "", err
	}

	if dataPath != "" && datasetName != "" {
		return nil, "", fmt.Errorf("use --data OR --dataset, not both")
	}

	if dataPath != "" {
		obs, err := dataset.LoadObservations(dataPath, delim)
		if err != nil {
			return nil, "", err
		}
		return obs, dataPath, nil
	}

	var obs []dataset.Observation
	var label string
	err = withStore(func(s *store.SQLiteStore) error {
		name := datasetName
		if name == "" {
			name, err = pickDataset(ctx, s)
			if err != nil {
				return err
			}
		}

		obs, err = s.LoadObservations(ctx, name)
		if err == store.ErrNotFound {
			return fmt.Errorf("dataset %q not found (run 'aabench import' first)", name)
		}
		if err != nil {
			return err
		}
		label = name
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return obs, label, nil
}

// pickDataset selects a cached dataset, interactively when several exist.
func pickDataset(ctx context.Context, s *store.SQLiteStore) (string, error) {
	datasets, err := s.ListDatasets(ctx)
	if err != nil {
		return "", err
	}

	switch len(datasets) {
	case 0:
		return "", fmt.Errorf("no cached datasets; pass --data <file> or run 'aabench import' first")
	case 1:
		return datasets[0].Name, nil
	}

	names := make([]string, len(datasets))
	for i, d := range datasets {
		names[i] = d.Name
	}

	prompt := promptui.Select{
		Label: "Dataset",
		Items: names,
		Size:  10,
	}
	_, name, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("dataset selection aborted: %w", err)
	}
	return name, nil
}
