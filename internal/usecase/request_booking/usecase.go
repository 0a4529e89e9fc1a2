package request_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/recurrence"
	"github.com/m04kA/LRM-SchedulingEngine/internal/events"
	equipmentClient "github.com/m04kA/LRM-SchedulingEngine/internal/integrations/equipmentservice"
)

// UseCase use case создания бронирования: валидация запроса, разворачивание
// правила повторения, проверка занятости и атомарное создание всей группы
type UseCase struct {
	bookingRepo  BookingRepository
	equipment    EquipmentClient
	index        AvailabilityIndex
	expander     RecurrenceExpander
	txManager    TransactionManager
	emitter      EventEmitter
	timeProvider TimeProvider
	limits       Limits
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	equipment EquipmentClient,
	index AvailabilityIndex,
	expander RecurrenceExpander,
	txManager TransactionManager,
	emitter EventEmitter,
	limits Limits,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		equipment:    equipment,
		index:        index,
		expander:     expander,
		txManager:    txManager,
		emitter:      emitter,
		timeProvider: &RealTimeProvider{},
		limits:       limits.withDefaults(),
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Политика "все или ничего": конфликт любого вхождения отклоняет запрос
// целиком - ни одно бронирование не создается, ни один интервал не
// резервируется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestBooking: equipment=%d, requester=%d, interval=%s, recurring=%t",
		req.EquipmentID, req.RequesterID, req.Interval, req.Recurrence != nil)

	// 1. Валидация формы запроса
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now, uc.limits); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем оборудование из каталога. Статус оборудования не блокирует
	// создание pending-бронирования - решение откладывается до approve.
	equipment, err := uc.equipment.GetEquipment(ctx, req.EquipmentID)
	if err != nil {
		if errors.Is(err, equipmentClient.ErrEquipmentNotFound) {
			uc.logger.Warn("RequestBooking: equipment id=%d not found", req.EquipmentID)
			return nil, ErrEquipmentNotFound
		}
		uc.logger.Error("RequestBooking: failed to get equipment id=%d: %v", req.EquipmentID, err)
		return nil, fmt.Errorf("%w: failed to get equipment: %v", ErrInternal, err)
	}

	// 3. Разворачиваем правило повторения в конкретные вхождения
	occurrences, err := uc.expander.Expand(req.Interval, req.Recurrence)
	if err != nil {
		if errors.Is(err, recurrence.ErrInvalidRecurrence) {
			uc.logger.Warn("RequestBooking: recurrence rejected: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
		}
		uc.logger.Error("RequestBooking: expansion failed: %v", err)
		return nil, fmt.Errorf("%w: failed to expand recurrence: %v", ErrInternal, err)
	}

	// 4. Начальный статус: политика auto-approve оборудования позволяет
	// пропустить явное решение сотрудника, если оборудование исправно
	initialStatus := domain.StatusPending
	if equipment.AutoApprove && equipment.CanBeApproved() {
		initialStatus = domain.StatusApproved
	}

	// 5. Критическая секция оборудования на весь цикл check-then-reserve.
	// Запросы к другому оборудованию не задерживаются.
	unlock := uc.index.LockEquipment(req.EquipmentID)
	defer unlock()

	var conflicts []OccurrenceConflict
	for _, occ := range occurrences {
		if held := uc.index.ConflictsFor(req.EquipmentID, occ); len(held) > 0 {
			conflicts = append(conflicts, OccurrenceConflict{Occurrence: occ, Held: held})
		}
	}
	if len(conflicts) > 0 {
		uc.logger.Warn("RequestBooking: %d of %d occurrence(s) conflict for equipment=%d",
			len(conflicts), len(occurrences), req.EquipmentID)
		return nil, &ConflictError{Conflicts: conflicts}
	}

	// 6. Все вхождения свободны - создаем группу в одной сериализуемой
	// транзакции, затем резервируем интервалы
	var groupID *uuid.UUID
	if len(occurrences) > 1 {
		g := uuid.New()
		groupID = &g
	}

	var created []*domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, occ := range occurrences {
			b := &domain.Booking{
				EquipmentID: req.EquipmentID,
				RequesterID: req.RequesterID,
				Interval:    occ,
				Purpose:     req.Purpose,
				Status:      initialStatus,
				GroupID:     groupID,
			}
			saved, err := uc.bookingRepo.Create(txCtx, b)
			if err != nil {
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}
			created = append(created, saved)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("RequestBooking: transaction failed for equipment=%d: %v", req.EquipmentID, err)
		return nil, err
	}

	for _, b := range created {
		uc.index.Reserve(b.EquipmentID, b.ID, b.Interval)
	}

	uc.logger.Info("RequestBooking: created %d booking(s) for equipment=%d, status=%s",
		len(created), req.EquipmentID, initialStatus)

	// 7. События создания - fire-and-forget, сбой доставки не откатывает бронь
	for _, b := range created {
		uc.emitter.Emit(events.Event{
			Type:        events.TypeBookingCreated,
			BookingID:   b.ID,
			EquipmentID: b.EquipmentID,
			RequesterID: b.RequesterID,
			NewStatus:   b.Status,
			At:          now.UTC(),
		})
	}

	return &Response{GroupID: groupID, Bookings: created}, nil
}
