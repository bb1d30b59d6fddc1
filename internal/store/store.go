package store

import (
	"context"

	"github.com/aabench/aabench/internal/dataset"
)

// Store defines the interface for the local dataset cache.
type Store interface {
	// Dataset operations
	ImportDataset(ctx context.Context, name, source string, obs []dataset.Observation) (*Dataset, error)
	GetDataset(ctx context.Context, name string) (*Dataset, error)
	ListDatasets(ctx context.Context) ([]*Dataset, error)
	DeleteDataset(ctx context.Context, name string) error

	// Observation operations
	LoadObservations(ctx context.Context, name string) ([]dataset.Observation, error)

	// Lifecycle
	Close() error
}
