package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/rpggio/novx/internal/repository"
)

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository implements repository.HistoryRepository for SQLite
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Log inserts a new history entry
func (r *HistoryRepository) Log(ctx context.Context, entry *activity.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO conversion_log (
			run_id, stage, kind, source, target, status, message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.RunID,
		entry.Stage,
		entry.Kind,
		entry.Source,
		entry.Target,
		entry.Status,
		entry.Message,
		createdAt,
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("failed to log conversion: %w", repository.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to log conversion: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns history entries matching the given filters, newest first
func (r *HistoryRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT
			id, run_id, stage, kind, source, target, status, message, created_at
		FROM conversion_log
	`

	args := []any{}
	conditions := []string{}

	if opts.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, opts.Source)
	}
	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&entry.Stage,
			&entry.Kind,
			&entry.Source,
			&entry.Target,
			&entry.Status,
			&entry.Message,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversion entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversion rows: %w", err)
	}

	return entries, nil
}
