package journal

import "sync"

// Bus fans committed change events out to subscribers. Publish never blocks
// on a slow subscriber: each subscription buffers without bound and drains
// through its own goroutine.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]*Subscription)}
}

type Subscription struct {
	id      int
	bus     *Bus
	mu      sync.Mutex
	pending []ChangeEvent
	signal  chan struct{}
	events  chan ChangeEvent
	done    chan struct{}
	once    sync.Once
}

// Subscribe registers a new subscriber. Events published before the call are
// not replayed. On a closed bus the returned subscription is already closed.
func (bus *Bus) Subscribe() *Subscription {
	sub := &Subscription{
		bus:    bus,
		signal: make(chan struct{}, 1),
		events: make(chan ChangeEvent),
		done:   make(chan struct{}),
	}

	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		sub.once.Do(func() { close(sub.done) })
		go sub.pump()
		return sub
	}
	bus.nextID++
	sub.id = bus.nextID
	bus.subs[sub.id] = sub
	bus.mu.Unlock()

	go sub.pump()
	return sub
}

func (bus *Bus) Publish(event ChangeEvent) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, sub := range bus.subs {
		sub.push(event)
	}
}

func (bus *Bus) Subscribers() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return len(bus.subs)
}

// Close ends every subscription. Their event channels close once drained of
// the event in flight.
func (bus *Bus) Close() {
	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		return
	}
	bus.closed = true
	subs := bus.subs
	bus.subs = make(map[int]*Subscription)
	bus.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (bus *Bus) remove(id int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.subs, id)
}

// Events delivers change events in publish order. The channel closes after
// Close.
func (sub *Subscription) Events() <-chan ChangeEvent {
	return sub.events
}

func (sub *Subscription) Close() {
	sub.bus.remove(sub.id)
	sub.stop()
}

func (sub *Subscription) stop() {
	sub.once.Do(func() {
		close(sub.done)
	})
}

func (sub *Subscription) push(event ChangeEvent) {
	sub.mu.Lock()
	sub.pending = append(sub.pending, event)
	sub.mu.Unlock()

	select {
	case sub.signal <- struct{}{}:
	default:
	}
}

func (sub *Subscription) pump() {
	defer close(sub.events)

	for {
		sub.mu.Lock()
		if len(sub.pending) == 0 {
			sub.mu.Unlock()
			select {
			case <-sub.signal:
				continue
			case <-sub.done:
				return
			}
		}
		event := sub.pending[0]
		sub.pending[0] = ChangeEvent{}
		sub.pending = sub.pending[1:]
		sub.mu.Unlock()

		select {
		case sub.events <- event:
		case <-sub.done:
			return
		}
	}
}
