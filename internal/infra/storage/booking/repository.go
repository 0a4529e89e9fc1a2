package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/dbmetrics"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"equipment_id",
	"requester_id",
	"start_time",
	"end_time",
	"purpose",
	"status",
	"approver_id",
	"rejection_reason",
	"group_id",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// StatusUpdate изменяемые при переходе статуса поля.
// Interval, equipment_id и requester_id неизменяемы после создания -
// репозиторий намеренно не умеет их обновлять.
type StatusUpdate struct {
	Status          domain.BookingStatus
	ApproverID      *int64
	RejectionReason *string
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция (через transaction manager),
// использует её - так создание группы вхождений остается атомарным.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var groupID uuid.NullUUID
	if b.GroupID != nil {
		groupID = uuid.NullUUID{UUID: *b.GroupID, Valid: true}
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"equipment_id",
			"requester_id",
			"start_time",
			"end_time",
			"purpose",
			"status",
			"approver_id",
			"group_id",
		).
		Values(
			b.EquipmentID,
			b.RequesterID,
			b.Interval.Start,
			b.Interval.End,
			b.Purpose,
			b.Status,
			b.ApproverID,
			groupID,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}
	return b, nil
}

// GetByRequester получает бронирования пользователя, новые сверху.
// Опционально фильтрует по статусу.
func (r *Repository) GetByRequester(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"requester_id": filter.RequesterID}).
		OrderBy("start_time DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequester - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRequester - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByEquipment получает бронирования оборудования с фильтрацией по
// периоду, статусу и признаку удержания слота
func (r *Repository) GetByEquipment(ctx context.Context, filter domain.EquipmentBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"equipment_id": filter.EquipmentID}).
		OrderBy("start_time ASC")

	if filter.OnlyHeld {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.HeldStatuses})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		// Интервалы полуоткрытые: бронирование попадает в период, если
		// заканчивается строго позже его начала
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEquipment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEquipment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListHeld возвращает все бронирования, удерживающие слот (pending + approved).
// Используется для восстановления Availability Index при старте.
func (r *Repository) ListHeld(ctx context.Context) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.HeldStatuses}).
		OrderBy("equipment_id ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHeld - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHeld - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListDue возвращает approved-бронирования с полностью прошедшим интервалом.
// Используется sweep-ом завершения.
func (r *Repository) ListDue(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusApproved}).
		Where(squirrel.LtOrEq{"end_time": now.UTC()}).
		OrderBy("end_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит бронирование в новый статус под защитой
// оптимистичной блокировки: обновление проходит только при совпадении
// версии. Проигравший конкурентный переход получает ErrStaleVersion.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, expectedVersion int64, upd StatusUpdate) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", upd.Status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "version": expectedVersion})

	if upd.ApproverID != nil {
		updateBuilder = updateBuilder.Set("approver_id", *upd.ApproverID)
	}
	if upd.RejectionReason != nil {
		updateBuilder = updateBuilder.Set("rejection_reason", *upd.RejectionReason)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Либо бронирования нет, либо версия устарела - различаем для вызывающего
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStaleVersion
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - scan booking: %v", ErrScanRow, err)
	}
	return b, nil
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b         domain.Booking
		start     time.Time
		end       time.Time
		groupID   uuid.NullUUID
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.EquipmentID,
		&b.RequesterID,
		&start,
		&end,
		&b.Purpose,
		&b.Status,
		&b.ApproverID,
		&b.RejectionReason,
		&groupID,
		&b.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Interval = domain.NewTimeInterval(start, end)
	if groupID.Valid {
		g := groupID.UUID
		b.GroupID = &g
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrExecQuery, err)
	}

	return bookings, nil
}
