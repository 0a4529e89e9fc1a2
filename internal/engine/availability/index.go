package availability

import (
	"sort"
	"sync"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

// Hold один удерживаемый интервал - принадлежит бронированию в статусе
// pending или approved
type Hold struct {
	BookingID int64
	Interval  domain.TimeInterval
}

// Index in-memory индекс занятости оборудования. Держит по каждому
// оборудованию отсортированный по старту список удерживаемых интервалов,
// чтобы проверка пересечений была ограниченным бинарным поиском сканом,
// а не полным проходом.
//
// Индекс - единственное место, где гонка check-then-reserve приводит к
// реальному двойному бронированию физического оборудования, поэтому
// критическая секция на уровне оборудования (LockEquipment) отделена от
// короткой блокировки данных: запросы к разному оборудованию идут
// полностью параллельно.
type Index struct {
	mu        sync.Mutex
	equipment map[int64]*equipmentHolds
}

type equipmentHolds struct {
	// reserveMu сериализует последовательность check-then-reserve целиком
	reserveMu sync.Mutex
	// dataMu защищает holds при коротких операциях чтения/записи
	dataMu sync.Mutex
	holds  []Hold // отсортированы по Interval.Start
}

// NewIndex создает пустой индекс
func NewIndex() *Index {
	return &Index{
		equipment: make(map[int64]*equipmentHolds),
	}
}

// forEquipment возвращает (лениво создавая) состояние для оборудования
func (ix *Index) forEquipment(equipmentID int64) *equipmentHolds {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	eq, ok := ix.equipment[equipmentID]
	if !ok {
		eq = &equipmentHolds{}
		ix.equipment[equipmentID] = eq
	}
	return eq
}

// LockEquipment захватывает критическую секцию оборудования и возвращает
// функцию освобождения. Вызывающий обязан держать секцию на весь цикл
// "проверить все вхождения - зарезервировать все вхождения".
func (ix *Index) LockEquipment(equipmentID int64) func() {
	eq := ix.forEquipment(equipmentID)
	eq.reserveMu.Lock()
	return eq.reserveMu.Unlock
}

// IsFree returns true iff no held interval for the equipment overlaps
// the query interval.
func (ix *Index) IsFree(equipmentID int64, interval domain.TimeInterval) bool {
	return len(ix.ConflictsFor(equipmentID, interval)) == 0
}

// ConflictsFor возвращает все удерживаемые интервалы, пересекающиеся с
// запрошенным - для содержательной ошибки конфликта, а не просто boolean
func (ix *Index) ConflictsFor(equipmentID int64, interval domain.TimeInterval) []Hold {
	eq := ix.forEquipment(equipmentID)

	eq.dataMu.Lock()
	defer eq.dataMu.Unlock()

	// Кандидаты на пересечение начинаются строго раньше конца запроса;
	// бинарный поиск отсекает правую часть списка
	upper := sort.Search(len(eq.holds), func(i int) bool {
		return !eq.holds[i].Interval.Start.Before(interval.End)
	})

	var conflicts []Hold
	for i := 0; i < upper; i++ {
		if eq.holds[i].Interval.Overlaps(interval) {
			conflicts = append(conflicts, eq.holds[i])
		}
	}
	return conflicts
}

// Reserve добавляет удержание интервала за бронированием. Повторный
// Reserve того же бронирования - no-op, а не дубликат.
func (ix *Index) Reserve(equipmentID, bookingID int64, interval domain.TimeInterval) {
	eq := ix.forEquipment(equipmentID)

	eq.dataMu.Lock()
	defer eq.dataMu.Unlock()

	for _, h := range eq.holds {
		if h.BookingID == bookingID {
			return
		}
	}

	pos := sort.Search(len(eq.holds), func(i int) bool {
		return eq.holds[i].Interval.Start.After(interval.Start)
	})

	eq.holds = append(eq.holds, Hold{})
	copy(eq.holds[pos+1:], eq.holds[pos:])
	eq.holds[pos] = Hold{BookingID: bookingID, Interval: interval}
}

// Release снимает удержание бронирования. Отсутствие удержания - no-op.
func (ix *Index) Release(equipmentID, bookingID int64) {
	eq := ix.forEquipment(equipmentID)

	eq.dataMu.Lock()
	defer eq.dataMu.Unlock()

	for i, h := range eq.holds {
		if h.BookingID == bookingID {
			eq.holds = append(eq.holds[:i], eq.holds[i+1:]...)
			return
		}
	}
}

// Rebuild пересобирает индекс из персистентного состояния - вызывается при
// старте сервиса списком бронирований, удерживающих слот (pending + approved)
func (ix *Index) Rebuild(bookings []*domain.Booking) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.equipment = make(map[int64]*equipmentHolds)

	for _, b := range bookings {
		if !b.HoldsSlot() {
			continue
		}
		eq, ok := ix.equipment[b.EquipmentID]
		if !ok {
			eq = &equipmentHolds{}
			ix.equipment[b.EquipmentID] = eq
		}
		eq.holds = append(eq.holds, Hold{BookingID: b.ID, Interval: b.Interval})
	}

	for _, eq := range ix.equipment {
		sort.Slice(eq.holds, func(i, j int) bool {
			return eq.holds[i].Interval.Start.Before(eq.holds[j].Interval.Start)
		})
	}
}

// HeldCount возвращает число удержаний по оборудованию - для метрик и тестов
func (ix *Index) HeldCount(equipmentID int64) int {
	eq := ix.forEquipment(equipmentID)

	eq.dataMu.Lock()
	defer eq.dataMu.Unlock()

	return len(eq.holds)
}
