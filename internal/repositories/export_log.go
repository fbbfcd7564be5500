package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/tasks"
)

// ExportRecord is one delivered export.
type ExportRecord struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	TrackCount  int       `json:"track_count"`
	Bytes       int       `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportLogRepository implements [tasks.ExportLog] on the export_log table.
type ExportLogRepository struct {
	db *sql.DB
}

// NewExportLogRepository creates a new ExportLogRepository with the given database connection
func NewExportLogRepository(db *sql.DB) *ExportLogRepository {
	return &ExportLogRepository{db: db}
}

// RecordExport inserts a row describing p.
func (r *ExportLogRepository) RecordExport(ctx context.Context, p *tasks.Payload) error {
	query := `
		INSERT INTO export_log (id, filename, content_type, track_count, bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		shared.GenerateID(),
		p.Filename,
		p.ContentType,
		p.Count,
		len(p.Body),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to record export: %v", shared.ErrIO, err)
	}
	return nil
}

// List retrieves the most recent exports, newest first. A limit of zero or less returns all of them.
func (r *ExportLogRepository) List(ctx context.Context, limit int) ([]*ExportRecord, error) {
	query := `
		SELECT id, filename, content_type, track_count, bytes, created_at
		FROM export_log
		ORDER BY rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query export log: %v", shared.ErrIO, err)
	}
	defer rows.Close()

	var records []*ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.ContentType, &rec.TrackCount, &rec.Bytes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
