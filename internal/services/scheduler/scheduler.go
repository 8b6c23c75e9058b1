// Package scheduler сбрасывает суточные счётчики обновлений станций.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
)

// QuotaRepository описывает работу со счётчиками квот в хранилище.
type QuotaRepository interface {
	ResetDailyUpdateCounters(ctx context.Context) (int64, error)
}

// SchedulerService сбрасывает квоты раз в сутки, в полночь UTC.
type SchedulerService struct {
	repo QuotaRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo QuotaRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// NextMidnightUTC возвращает момент ближайшей полуночи UTC после t.
func NextMidnightUTC(t time.Time) time.Time {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, 1)
}

// Run ждёт полуночи UTC, сбрасывает счётчики и дальше повторяет сброс
// каждые сутки. Блокируется до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context) {
	firstReset := NextMidnightUTC(s.now())
	s.log.Info("quota scheduler started", slog.Time("first_reset", firstReset))

	timer := time.NewTimer(firstReset.Sub(s.now()))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	s.runReset(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runReset(ctx)
		}
	}
}

func (s *SchedulerService) runReset(ctx context.Context) {
	affected, err := s.repo.ResetDailyUpdateCounters(ctx)
	if err != nil {
		s.log.Error("failed to reset daily update counters", sl.Err(err))
		return
	}
	s.log.Info("daily update counters reset", slog.Int64("affected", affected))
}
