package completion

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

// Sweeper фоновая задача завершения бронирований: периодически находит
// approved-бронирования с прошедшим интервалом и переводит их в completed.
// Завершение идемпотентно, поэтому пропущенный тик или конкурентный
// экземпляр не ломают состояние - бронирование завершится на следующем
// проходе.
type Sweeper struct {
	bookingRepo  BookingRepository
	completer    Completer
	interval     time.Duration
	timeProvider TimeProvider
	logger       Logger
	stopChan     chan struct{}
}

// NewSweeper создает новый экземпляр фоновой задачи завершения
func NewSweeper(bookingRepo BookingRepository, completer Completer, interval time.Duration, logger Logger) *Sweeper {
	if interval <= 0 {
		interval = domain.DefaultSweepInterval
	}
	return &Sweeper{
		bookingRepo:  bookingRepo,
		completer:    completer,
		interval:     interval,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновый цикл завершения
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Sweep: starting, interval=%s", s.interval)
	go s.run(ctx)
}

// Stop останавливает фоновый цикл
func (s *Sweeper) Stop() {
	s.logger.Info("Sweep: stopping")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// Первый проход сразу при старте - подбираем бронирования,
	// просроченные за время простоя сервиса
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Sweep: stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Sweep: cancelled")
			return
		}
	}
}

// Sweep выполняет один проход завершения. Ошибка по одному бронированию
// не прерывает проход - остальные все равно обрабатываются.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.timeProvider.Now()

	due, err := s.bookingRepo.ListDue(ctx, now)
	if err != nil {
		s.logger.Error("Sweep: failed to list due bookings: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("Sweep: found %d due booking(s)", len(due))

	var completed int
	for _, b := range due {
		if err := s.completer.Complete(ctx, b.ID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			// Конкурентный переход (отмена, другой экземпляр sweep-а)
			// разберется сам - просто идем дальше
			s.logger.Warn("Sweep: booking id=%d not completed: %v", b.ID, err)
			continue
		}
		completed++
	}

	s.logger.Info("Sweep: completed %d of %d booking(s)", completed, len(due))
}
