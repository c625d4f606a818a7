package repository

import (
	"context"

	"github.com/rpggio/novx/internal/domain/activity"
)

// HistoryRepository manages conversion history persistence
type HistoryRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}
