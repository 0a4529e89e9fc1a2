package events

import "sync"

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Bus асинхронная шина событий. Доставка fire-and-forget: медленный или
// упавший подписчик не откатывает и не блокирует бронирование - при
// переполнении буфера событие для этого подписчика отбрасывается с warn.
type Bus struct {
	logger Logger

	mu          sync.Mutex
	subscribers []chan Event
	closed      bool
}

const subscriberBuffer = 64

// NewBus создает шину событий
func NewBus(logger Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe регистрирует подписчика; fn вызывается в отдельной горутине
// для каждого события в порядке поступления
func (b *Bus) Subscribe(fn func(Event)) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()

	go func() {
		for e := range ch {
			fn(e)
		}
	}()
}

// Emit рассылает событие всем подписчикам, не блокируясь
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			b.logger.Warn("events: subscriber buffer full, dropping %s for booking id=%d", e.Type, e.BookingID)
		}
	}
}

// Close останавливает рассылку; подписчики дочитывают буферы и завершаются
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
