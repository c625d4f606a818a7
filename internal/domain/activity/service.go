package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultLimit caps Recent when no limit is given.
const DefaultLimit = 20

// Service handles the conversion history.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new history service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

// Record stores an entry, stamping the current time if missing.
func (s *Service) Record(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.RunID == "" || entry.Source == "" {
		return ErrInvalidInput
	}
	if entry.Status == "" {
		entry.Status = StatusSucceeded
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("recording conversion: %w", err)
	}
	s.logger.Debug("conversion recorded", "run_id", entry.RunID, "stage", entry.Stage, "status", entry.Status)
	return nil
}

// Recent lists history entries, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	return entries, nil
}
