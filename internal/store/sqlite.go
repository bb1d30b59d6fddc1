// Package store caches imported datasets in a local SQLite file so repeated
// sweeps do not re-parse the raw CSV every time. Trial results are never
// persisted; the cache holds source observations only.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aabench/aabench/internal/dataset"
)

var (
	ErrNotFound = errors.New("dataset not found")
	ErrExists   = errors.New("dataset already exists")
)

type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    source TEXT NOT NULL,
    rows INTEGER NOT NULL,
    users INTEGER NOT NULL,
    clicks INTEGER NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_datasets_name ON datasets(name);

CREATE TABLE IF NOT EXISTS observations (
    dataset_id INTEGER NOT NULL,
    row_ord INTEGER NOT NULL,
    impression_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    click INTEGER NOT NULL,
    PRIMARY KEY (dataset_id, row_ord),
    FOREIGN KEY (dataset_id) REFERENCES datasets(id)
);

CREATE INDEX IF NOT EXISTS idx_observations_dataset ON observations(dataset_id);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ImportDataset stores obs under name inside one transaction. Importing an
// existing name is ErrExists; use DeleteDataset first to replace it.
func (s *SQLiteStore) ImportDataset(ctx context.Context, name, source string, obs []dataset.Observation) (*Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("dataset name must not be empty")
	}

	clicks := 0
	for _, o := range obs {
		if o.Click {
			clicks++
		}
	}
	users := len(dataset.UniqueUserIDs(obs))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, source, rows, users, clicks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, source, len(obs), users, clicks, now,
	)
	if err != nil {
		var exists int
		if scanErr := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets WHERE name = ?`, name).Scan(&exists); scanErr == nil && exists > 0 {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("failed to insert dataset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (dataset_id, row_ord, impression_id, user_id, click)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range obs {
		click := 0
		if o.Click {
			click = 1
		}
		if _, err := stmt.ExecContext(ctx, id, i, o.ImpressionID, o.UserID, click); err != nil {
			return nil, fmt.Errorf("failed to insert observation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	return &Dataset{
		ID:        id,
		Name:      name,
		Source:    source,
		Rows:      len(obs),
		Users:     users,
		Clicks:    clicks,
		CreatedAt: time.Unix(now, 0),
	}, nil
}

func (s *SQLiteStore) GetDataset(ctx context.Context, name string) (*Dataset, error) {
	var d Dataset
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, rows, users, clicks, created_at
		 FROM datasets WHERE name = ?`, name,
	).Scan(&d.ID, &d.Name, &d.Source, &d.Rows, &d.Users, &d.Clicks, &createdAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	d.CreatedAt = time.Unix(createdAt, 0)
	return &d, nil
}

func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]*Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, source, rows, users, clicks, created_at
		 FROM datasets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []*Dataset
	for rows.Next() {
		var d Dataset
		var createdAt int64
		if err := rows.Scan(&d.ID, &d.Name, &d.Source, &d.Rows, &d.Users, &d.Clicks, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		d.CreatedAt = time.Unix(createdAt, 0)
		datasets = append(datasets, &d)
	}

	return datasets, rows.Err()
}

func (s *SQLiteStore) DeleteDataset(ctx context.Context, name string) error {
	d, err := s.GetDataset(ctx, name)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM observations WHERE dataset_id = ?`, d.ID); err != nil {
		return fmt.Errorf("failed to delete observations: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, d.ID); err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}

	return nil
}

// LoadObservations reloads a cached dataset in its original row order.
func (s *SQLiteStore) LoadObservations(ctx context.Context, name string) ([]dataset.Observation, error) {
	d, err := s.GetDataset(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_ord, impression_id, user_id, click
		 FROM observations WHERE dataset_id = ? ORDER BY row_ord`, d.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}
	defer rows.Close()

	obs := make([]dataset.Observation, 0, d.Rows)
	for rows.Next() {
		var ord, click int
		var o dataset.Observation
		if err := rows.Scan(&ord, &o.ImpressionID, &o.UserID, &click); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		o.RowID = strconv.Itoa(ord)
		o.Click = click != 0
		obs = append(obs, o)
	}

	return obs, rows.Err()
}
