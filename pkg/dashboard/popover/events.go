package popover

// Event is a single occurrence on the document-level input stream.
type Event interface {
	isEvent()
}

// PointerDown is a pointer press anywhere on the screen.
type PointerDown struct {
	X, Y int
}

// KeyDown is a key press anywhere on the screen, regardless of focus.
// Key uses bubbletea's key string form (e.g. "esc", "enter", "a").
type KeyDown struct {
	Key string
}

// Scroll is any scroll activity, including scrolls inside ancestors of a
// trigger. Open overlays re-anchor on it.
type Scroll struct{}

// Resize is a viewport size change.
type Resize struct {
	Width, Height int
}

func (PointerDown) isEvent() {}
func (KeyDown) isEvent()     {}
func (Scroll) isEvent()      {}
func (Resize) isEvent()      {}

// CancelKey dismisses an open overlay without committing.
const CancelKey = "esc"

// Events fans a shared input stream out to per-widget subscribers.
// Subscribers are delivered events in subscription order, before the host
// runs its own handling (the host dispatches first). Each widget instance
// owns its subscriptions independently; there is no coordination between
// sibling widgets.
type Events struct {
	order []int
	subs  map[int]func(Event)
	next  int
}

// NewEvents creates an empty dispatcher.
func NewEvents() *Events {
	return &Events{subs: make(map[int]func(Event))}
}

// Subscription is a handle for one subscriber. Cancel is idempotent.
type Subscription struct {
	events *Events
	id     int
	active bool
}

// Subscribe registers fn for every subsequent event.
func (e *Events) Subscribe(fn func(Event)) *Subscription {
	id := e.next
	e.next++
	e.subs[id] = fn
	e.order = append(e.order, id)
	return &Subscription{events: e, id: id, active: true}
}

// Cancel removes the subscription. Safe to call during dispatch; the
// subscriber receives no further events, including later deliveries of the
// event currently being dispatched.
func (s *Subscription) Cancel() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	delete(s.events.subs, s.id)
	for i, id := range s.events.order {
		if id == s.id {
			s.events.order = append(s.events.order[:i], s.events.order[i+1:]...)
			break
		}
	}
}

// Dispatch delivers ev to all current subscribers. A subscriber that
// cancels itself (or a sibling) mid-dispatch is skipped for the remainder
// of the dispatch.
func (e *Events) Dispatch(ev Event) {
	snapshot := make([]int, len(e.order))
	copy(snapshot, e.order)
	for _, id := range snapshot {
		if fn, ok := e.subs[id]; ok {
			fn(ev)
		}
	}
}

// Count returns the number of live subscriptions.
func (e *Events) Count() int {
	return len(e.subs)
}
