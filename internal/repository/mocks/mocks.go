package mocks

import (
	"context"

	"github.com/rpggio/novx/internal/converter"
	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// HistoryRepository is a mock for repository.HistoryRepository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *HistoryRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// History is a mock for the converter's history recorder.
type History struct {
	mock.Mock
}

func (m *History) Record(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Decider is a mock for converter.Decider.
type Decider struct {
	mock.Mock
}

func (m *Decider) Decide(path string) converter.Decision {
	args := m.Called(path)
	return args.Get(0).(converter.Decision)
}
