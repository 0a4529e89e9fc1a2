package recurrence

import (
	"fmt"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

// Expander разворачивает правило повторения в конечную упорядоченную
// последовательность конкретных интервалов. Якорный интервал задает
// длительность и первое вхождение; правило всегда ограничено датой Until.
type Expander struct {
	horizonDays    int
	maxOccurrences int
}

// NewExpander создает expander с заданными пределами.
// Нулевые значения заменяются дефолтами из domain.
func NewExpander(horizonDays, maxOccurrences int) *Expander {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultRecurrenceHorizonDays
	}
	if maxOccurrences <= 0 {
		maxOccurrences = domain.MaxOccurrences
	}
	return &Expander{
		horizonDays:    horizonDays,
		maxOccurrences: maxOccurrences,
	}
}

// Expand разворачивает правило в упорядоченный по возрастанию список интервалов.
// Правило nil означает одиночное бронирование - возвращается только якорь.
//
// Для daily шаг - Interval дней от старта якоря.
// Для weekly вхождения генерируются по каждому подходящему дню недели внутри
// недельного окна, окна идут с шагом Interval недель; длительность якоря
// сохраняется для каждого вхождения.
//
// Until - дата (включительно): вхождение попадает в результат, если его
// старт приходится на день не позже Until.
func (e *Expander) Expand(anchor domain.TimeInterval, rule *domain.RecurrenceRule) ([]domain.TimeInterval, error) {
	if err := anchor.Validate(); err != nil {
		return nil, fmt.Errorf("%w: anchor: %v", ErrInvalidRecurrence, err)
	}

	if rule == nil {
		return []domain.TimeInterval{anchor}, nil
	}

	if err := e.validateRule(anchor, rule); err != nil {
		return nil, err
	}

	// Until включительно: граница - полночь следующего дня в UTC
	untilEnd := endOfDayUTC(rule.Until)

	duration := anchor.Duration()

	var occurrences []domain.TimeInterval

	switch rule.Frequency {
	case domain.FrequencyDaily:
		for start := anchor.Start; start.Before(untilEnd); start = start.AddDate(0, 0, rule.Interval) {
			occurrences = append(occurrences, domain.TimeInterval{Start: start, End: start.Add(duration)})
			if len(occurrences) > e.maxOccurrences {
				return nil, e.capExceeded()
			}
		}

	case domain.FrequencyWeekly:
		// Недельное окно привязано к неделе якоря (недели начинаются с воскресенья,
		// как в time.Weekday). Внутри окна вхождения идут по дням недели из правила.
		weekBase := startOfWeek(anchor.Start)
		for ; weekBase.Before(untilEnd); weekBase = weekBase.AddDate(0, 0, 7*rule.Interval) {
			for day := 0; day < 7; day++ {
				start := weekBase.AddDate(0, 0, day)
				if !rule.HasWeekday(start.Weekday()) {
					continue
				}
				// Дни недели якоря до первого вхождения не попадают в результат
				if start.Before(anchor.Start) {
					continue
				}
				if !start.Before(untilEnd) {
					continue
				}
				occurrences = append(occurrences, domain.TimeInterval{Start: start, End: start.Add(duration)})
				if len(occurrences) > e.maxOccurrences {
					return nil, e.capExceeded()
				}
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, rule.Frequency)
	}

	if len(occurrences) == 0 {
		return nil, fmt.Errorf("%w: rule produces no occurrences", ErrInvalidRecurrence)
	}

	return occurrences, nil
}

// validateRule проверяет правило до начала разворачивания
func (e *Expander) validateRule(anchor domain.TimeInterval, rule *domain.RecurrenceRule) error {
	if rule.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %d", ErrInvalidRecurrence, rule.Interval)
	}

	if rule.Frequency == domain.FrequencyWeekly && len(rule.Weekdays) == 0 {
		return fmt.Errorf("%w: weekly rule requires a non-empty weekday set", ErrInvalidRecurrence)
	}

	untilEnd := endOfDayUTC(rule.Until)
	if !anchor.Start.Before(untilEnd) {
		return fmt.Errorf("%w: until %s precedes anchor start %s",
			ErrInvalidRecurrence,
			rule.Until.Format(domain.DateFormat),
			anchor.Start.Format(time.RFC3339))
	}

	// Горизонт ограничивает worst-case объем работы
	horizon := anchor.Start.AddDate(0, 0, e.horizonDays)
	if untilEnd.After(horizon) {
		return fmt.Errorf("%w: until %s exceeds the %d-day horizon",
			ErrInvalidRecurrence,
			rule.Until.Format(domain.DateFormat),
			e.horizonDays)
	}

	return nil
}

func (e *Expander) capExceeded() error {
	return fmt.Errorf("%w: expansion exceeds the %d-occurrence cap", ErrInvalidRecurrence, e.maxOccurrences)
}

// endOfDayUTC возвращает полночь дня, следующего за датой t, в UTC
func endOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// startOfWeek возвращает старт якоря, сдвинутый на начало его недели
// (воскресенье), с сохранением времени суток
func startOfWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}
