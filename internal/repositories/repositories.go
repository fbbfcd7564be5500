// package repositories provides persistence backends for the catalog snapshot.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// Storage loads and saves the persisted catalog.
//
// Load reports found=false, with no error, when nothing has been saved yet.
type Storage interface {
	Load(ctx context.Context) (data []byte, found bool, err error)
	Save(ctx context.Context, data []byte) error
}

// NextSequence returns the next sequence number for table within tx.
//
// Sequence numbers are used internally for ordering and never reused while rows with higher numbers exist.
func NextSequence(ctx context.Context, tx *sql.Tx, table string) (int, error) {
	var sequence int
	err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT COALESCE(MAX(sequence), 0) + 1 FROM %s", table)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}
	return sequence, nil
}
