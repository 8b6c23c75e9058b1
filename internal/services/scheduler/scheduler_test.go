package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ResetDailyUpdateCounters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestNextMidnightUTC(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "middle of the day",
			in:   time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC),
			want: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly midnight rolls to next day",
			in:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non-UTC input is converted",
			in:   time.Date(2026, 8, 28, 23, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)),
			want: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month boundary",
			in:   time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextMidnightUTC(tt.in))
		})
	}
}

func TestSchedulerService_runReset(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ResetDailyUpdateCounters", mock.Anything).Return(int64(5), nil).Once()

		service := NewSchedulerService(repo, newNoopLogger())
		service.runReset(context.Background())

		repo.AssertExpectations(t)
	})

	t.Run("repository error is logged, not fatal", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ResetDailyUpdateCounters", mock.Anything).Return(int64(0), errors.New("db down")).Once()

		service := NewSchedulerService(repo, newNoopLogger())
		service.runReset(context.Background())

		repo.AssertExpectations(t)
	})
}

func TestSchedulerService_Run_FiresAtMidnight(t *testing.T) {
	repo := new(MockRepository)
	reset := make(chan struct{}, 1)
	repo.On("ResetDailyUpdateCounters", mock.Anything).Run(func(_ mock.Arguments) {
		reset <- struct{}{}
	}).Return(int64(1), nil)

	service := NewSchedulerService(repo, newNoopLogger())
	// Полночь наступает почти сразу после старта.
	service.now = func() time.Time {
		return time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC).Add(-10 * time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Run(ctx)

	select {
	case <-reset:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for first reset")
	}
}

func TestSchedulerService_Run_StopsOnCancel(t *testing.T) {
	repo := new(MockRepository)
	service := NewSchedulerService(repo, newNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}

	repo.AssertNotCalled(t, "ResetDailyUpdateCounters", mock.Anything)
}
