package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ResolutionRun is one recorded resolution of a field.
type ResolutionRun struct {
	ID         string            `json:"id"`
	Seq        int64             `json:"seq"`
	FieldID    string            `json:"field_id"`
	ConfigHash string            `json:"config_hash"`
	ItemsHash  string            `json:"items_hash"`
	Items      []ir.ResolvedItem `json:"items"`
}

// RecordResolution appends a resolution run and returns its generated ID.
// configHash is the ir.FieldHash of the field that produced items.
func (s *Store) RecordResolution(ctx context.Context, fieldID, configHash string, items []ir.ResolvedItem) (string, error) {
	itemsJSON, err := marshalItems(items)
	if err != nil {
		return "", fmt.Errorf("record resolution: %w", err)
	}
	itemsHash, err := ir.ItemsHash(items)
	if err != nil {
		return "", fmt.Errorf("record resolution: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record resolution: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM resolution_runs`).Scan(&seq); err != nil {
		return "", fmt.Errorf("record resolution: next seq: %w", err)
	}

	id := s.ids.Generate()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO resolution_runs (id, seq, field_id, config_hash, items_hash, items, item_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, seq, fieldID, configHash, itemsHash, itemsJSON, len(items))
	if err != nil {
		return "", fmt.Errorf("record resolution: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record resolution: commit: %w", err)
	}
	return id, nil
}

// ListResolutions returns the runs recorded for fieldID, oldest first.
// An empty fieldID lists every run.
func (s *Store) ListResolutions(ctx context.Context, fieldID string) ([]ResolutionRun, error) {
	query := `
		SELECT id, seq, field_id, config_hash, items_hash, items
		FROM resolution_runs
		WHERE field_id = ? OR ? = ''
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`
	rows, err := s.db.QueryContext(ctx, query, fieldID, fieldID)
	if err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	defer rows.Close()

	runs := []ResolutionRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list resolutions: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	return runs, nil
}

// ReadResolution returns a single run by ID.
func (s *Store) ReadResolution(ctx context.Context, id string) (ResolutionRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, field_id, config_hash, items_hash, items
		FROM resolution_runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ResolutionRun{}, fmt.Errorf("read resolution %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ResolutionRun{}, fmt.Errorf("read resolution %s: %w", id, err)
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ResolutionRun, error) {
	var run ResolutionRun
	var items string
	if err := row.Scan(&run.ID, &run.Seq, &run.FieldID, &run.ConfigHash, &run.ItemsHash, &items); err != nil {
		return ResolutionRun{}, err
	}
	parsed, err := unmarshalItems(items)
	if err != nil {
		return ResolutionRun{}, err
	}
	run.Items = parsed
	return run, nil
}
