package drag

import "sync"

// EventKind distinguishes viewport pointer events.
type EventKind string

const (
	EventMove EventKind = "move"
	EventUp   EventKind = "up"
)

// Event is a pointer event delivered to viewport subscribers.
type Event struct {
	Kind    EventKind
	Pointer Point
}

// Handler receives viewport events.
type Handler func(Event)

// Viewport hands out pointer listeners. The returned function removes the
// listener and is safe to call more than once.
type Viewport interface {
	Subscribe(Handler) (unsubscribe func())
}

// Bus is an in-process Viewport. Dispatch fans events out to the handlers
// registered at the time of the call.
type Bus struct {
	mu       sync.Mutex
	next     int
	handlers map[int]Handler
}

var _ Viewport = (*Bus)(nil)

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h until the returned function is called.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to every current listener and reports how many
// received it. Handlers run without the bus lock held.
func (b *Bus) Dispatch(ev Event) int {
	b.mu.Lock()
	targets := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		targets = append(targets, h)
	}
	b.mu.Unlock()

	for _, h := range targets {
		h(ev)
	}
	return len(targets)
}

// Listeners reports the number of registered handlers.
func (b *Bus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
