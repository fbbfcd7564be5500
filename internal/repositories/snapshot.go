package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/audiolib/internal/shared"
)

// Snapshot is one saved copy of the catalog.
type Snapshot struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"sequence"`
	TrackCount int       `json:"track_count"`
	Payload    []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// SnapshotRepository implements [Storage] on the catalog_snapshots table.
//
// Every save inserts a new row; Load returns the newest. When keep is positive only the newest keep
// snapshots survive a save.
type SnapshotRepository struct {
	db   *sql.DB
	keep int
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB, keep int) *SnapshotRepository {
	return &SnapshotRepository{db: db, keep: keep}
}

// Load implements [Storage].
func (r *SnapshotRepository) Load(ctx context.Context) ([]byte, bool, error) {
	s, err := r.Latest(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s.Payload, true, nil
}

// Save implements [Storage].
func (r *SnapshotRepository) Save(ctx context.Context, data []byte) error {
	if _, err := r.Create(ctx, data); err != nil {
		return err
	}
	if r.keep > 0 {
		if _, err := r.Prune(ctx, r.keep); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts payload as the newest snapshot with a generated ID and sequence.
//
// The track count is read from payload when it is a JSON array and left at zero otherwise.
func (r *SnapshotRepository) Create(ctx context.Context, payload []byte) (*Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrIO, err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "catalog_snapshots")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	s := &Snapshot{
		ID:         shared.GenerateID(),
		Sequence:   sequence,
		TrackCount: countRecords(payload),
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}

	query := `
		INSERT INTO catalog_snapshots (id, sequence, track_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := tx.ExecContext(ctx, query, s.ID, s.Sequence, s.TrackCount, s.Payload, s.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: failed to insert snapshot: %v", shared.ErrIO, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit snapshot: %v", shared.ErrIO, err)
	}
	return s, nil
}

// Latest retrieves the snapshot with the highest sequence.
func (r *SnapshotRepository) Latest(ctx context.Context) (*Snapshot, error) {
	query := `
		SELECT id, sequence, track_count, payload, created_at
		FROM catalog_snapshots
		ORDER BY sequence DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query))
}

// Prune deletes all but the newest keep snapshots and returns how many were removed.
func (r *SnapshotRepository) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		return 0, fmt.Errorf("%w: keep must be at least 1", shared.ErrInvalidArgument)
	}

	query := `
		DELETE FROM catalog_snapshots
		WHERE sequence NOT IN (
			SELECT sequence FROM catalog_snapshots ORDER BY sequence DESC LIMIT ?
		)
	`

	result, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to prune snapshots: %v", shared.ErrIO, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

// scanOne scans a single [sql.Row] into a [Snapshot]
func (r *SnapshotRepository) scanOne(row *sql.Row) (*Snapshot, error) {
	var s Snapshot

	err := row.Scan(&s.ID, &s.Sequence, &s.TrackCount, &s.Payload, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: snapshot", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	return &s, nil
}

func countRecords(payload []byte) int {
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return 0
	}
	return len(records)
}
