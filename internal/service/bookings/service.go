package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/events"
	bookingRepo "github.com/m04kA/LRM-SchedulingEngine/internal/infra/storage/booking"
	equipmentClient "github.com/m04kA/LRM-SchedulingEngine/internal/integrations/equipmentservice"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings/models"
)

// Service владеет переходами машины состояний бронирования.
// Легальность переходов задает domain.Booking.CanTransitionTo; сервис
// добавляет побочные эффекты: проверку оборудования, снятие удержаний,
// события. Конкурентные переходы по одному бронированию сериализуются
// оптимистичной блокировкой по version - проигравший получает
// ErrStaleVersion, молчаливой перезаписи не бывает.
type Service struct {
	bookingRepo  BookingRepository
	equipment    EquipmentClient
	index        AvailabilityIndex
	emitter      EventEmitter
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	equipment EquipmentClient,
	index AvailabilityIndex,
	emitter EventEmitter,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		equipment:    equipment,
		index:        index,
		emitter:      emitter,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Approve подтверждает pending-бронирование.
// Статус оборудования перепроверяется в момент подтверждения, а не берется
// из момента создания: выведенное из эксплуатации оборудование подтверждать нельзя.
func (s *Service) Approve(ctx context.Context, bookingID int64, req *models.ApproveBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Approve: booking id=%d by approver=%d", bookingID, req.ApproverID)

	if !req.CanApprove {
		s.logger.Warn("Approve: approver=%d lacks the approve capability", req.ApproverID)
		return nil, ErrAccessDenied
	}

	b, err := s.getBooking(ctx, "Approve", bookingID)
	if err != nil {
		return nil, err
	}

	if !b.CanTransitionTo(domain.StatusApproved) {
		s.logger.Warn("Approve: booking id=%d is %s, cannot approve", bookingID, b.Status)
		return nil, ErrInvalidTransition
	}

	equipment, err := s.equipment.GetEquipment(ctx, b.EquipmentID)
	if err != nil {
		if errors.Is(err, equipmentClient.ErrEquipmentNotFound) {
			s.logger.Warn("Approve: equipment id=%d not found", b.EquipmentID)
			return nil, ErrEquipmentNotFound
		}
		s.logger.Error("Approve: failed to get equipment id=%d: %v", b.EquipmentID, err)
		return nil, fmt.Errorf("%w: Approve - failed to get equipment: %v", ErrInternal, err)
	}

	if !equipment.CanBeApproved() {
		s.logger.Warn("Approve: equipment id=%d is out of service", b.EquipmentID)
		return nil, ErrEquipmentUnavailable
	}

	updated, err := s.updateStatus(ctx, "Approve", b, bookingRepo.StatusUpdate{
		Status:     domain.StatusApproved,
		ApproverID: &req.ApproverID,
	})
	if err != nil {
		return nil, err
	}

	// Интервал продолжает удерживаться - теперь approved-бронированием
	s.emitTransition(events.TypeBookingApproved, updated, b.Status)

	s.logger.Info("Approve: booking id=%d approved", bookingID)
	return models.FromDomainBooking(updated), nil
}

// Reject отклоняет pending-бронирование. Причина обязательна и сохраняется;
// удержание интервала снимается немедленно.
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reject: booking id=%d by approver=%d", bookingID, req.ApproverID)

	if !req.CanApprove {
		s.logger.Warn("Reject: approver=%d lacks the approve capability", req.ApproverID)
		return nil, ErrAccessDenied
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		s.logger.Warn("Reject: booking id=%d rejected without a reason", bookingID)
		return nil, ErrReasonRequired
	}
	if len(reason) > domain.MaxRejectionReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxRejectionReasonLength)
	}

	b, err := s.getBooking(ctx, "Reject", bookingID)
	if err != nil {
		return nil, err
	}

	if !b.CanTransitionTo(domain.StatusRejected) {
		s.logger.Warn("Reject: booking id=%d is %s, cannot reject", bookingID, b.Status)
		return nil, ErrInvalidTransition
	}

	updated, err := s.updateStatus(ctx, "Reject", b, bookingRepo.StatusUpdate{
		Status:          domain.StatusRejected,
		ApproverID:      &req.ApproverID,
		RejectionReason: &reason,
	})
	if err != nil {
		return nil, err
	}

	s.index.Release(updated.EquipmentID, updated.ID)
	s.emitTransition(events.TypeBookingRejected, updated, b.Status)

	s.logger.Info("Reject: booking id=%d rejected", bookingID)
	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет pending- или approved-бронирование.
// Автор бронирования может отменить его всегда; чужие бронирования
// отменяет только сотрудник (capability-флаг IsStaff, ролями владеет
// внешний слой авторизации).
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking id=%d by actor=%d", bookingID, req.ActorID)

	b, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	if b.RequesterID != req.ActorID && !req.IsStaff {
		s.logger.Warn("Cancel: actor=%d may not cancel booking id=%d", req.ActorID, bookingID)
		return nil, ErrAccessDenied
	}

	if !b.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d is %s, cannot cancel", bookingID, b.Status)
		return nil, ErrInvalidTransition
	}

	updated, err := s.updateStatus(ctx, "Cancel", b, bookingRepo.StatusUpdate{
		Status: domain.StatusCancelled,
	})
	if err != nil {
		return nil, err
	}

	s.index.Release(updated.EquipmentID, updated.ID)
	s.emitTransition(events.TypeBookingCancelled, updated, b.Status)

	s.logger.Info("Cancel: booking id=%d cancelled", bookingID)
	return models.FromDomainBooking(updated), nil
}

// Complete завершает approved-бронирование с прошедшим интервалом.
// Системный переход, которым управляет периодический sweep; идемпотентен -
// повторный вызов по завершенному бронированию не ошибка, а no-op.
func (s *Service) Complete(ctx context.Context, bookingID int64) error {
	b, err := s.getBooking(ctx, "Complete", bookingID)
	if err != nil {
		return err
	}

	if b.Status == domain.StatusCompleted {
		return nil
	}

	now := s.timeProvider.Now()
	if !b.IsDue(now) {
		s.logger.Warn("Complete: booking id=%d is %s and not due", bookingID, b.Status)
		return ErrInvalidTransition
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Version, bookingRepo.StatusUpdate{
		Status: domain.StatusCompleted,
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleVersion) {
			// Конкурентный sweep или отмена успели первыми - перечитываем
			// и считаем завершенное бронирование no-op-ом
			current, getErr := s.bookingRepo.GetByID(ctx, b.ID)
			if getErr == nil && current.Status == domain.StatusCompleted {
				return nil
			}
			return ErrStaleVersion
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Complete: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.index.Release(updated.EquipmentID, updated.ID)
	s.emitTransition(events.TypeBookingCompleted, updated, b.Status)

	s.logger.Info("Complete: booking id=%d completed", bookingID)
	return nil
}

// GetByID получает бронирование по ID.
// Пользователь видит только свои бронирования; сотрудник - любые.
func (s *Service) GetByID(ctx context.Context, bookingID, actorID int64, isStaff bool) (*models.BookingResponse, error) {
	b, err := s.getBooking(ctx, "GetByID", bookingID)
	if err != nil {
		return nil, err
	}

	if b.RequesterID != actorID && !isStaff {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actorID, bookingID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(b), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for requester=%d, status=%v", req.RequesterID, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid status for requester=%d", req.RequesterID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	list, err := s.bookingRepo.GetByRequester(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for requester=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(list), nil
}

// GetEquipmentBookings получает расписание оборудования - им пользуется
// календарь UI
func (s *Service) GetEquipmentBookings(ctx context.Context, req *models.GetEquipmentBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetEquipmentBookings: fetching bookings for equipment=%d", req.EquipmentID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetEquipmentBookings: invalid filter for equipment=%d", req.EquipmentID)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	list, err := s.bookingRepo.GetByEquipment(ctx, filter)
	if err != nil {
		s.logger.Error("GetEquipmentBookings: repository error for equipment=%d: %v", req.EquipmentID, err)
		return nil, fmt.Errorf("%w: GetEquipmentBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(list), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return b, nil
}

func (s *Service) updateStatus(ctx context.Context, op string, b *domain.Booking, upd bookingRepo.StatusUpdate) (*domain.Booking, error) {
	updated, err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Version, upd)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleVersion) {
			s.logger.Warn("%s: booking id=%d lost a concurrent transition", op, b.ID)
			return nil, ErrStaleVersion
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, b.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return updated, nil
}

func (s *Service) emitTransition(t events.EventType, b *domain.Booking, old domain.BookingStatus) {
	s.emitter.Emit(events.StatusChange(t, b, old, s.timeProvider.Now()))
}
