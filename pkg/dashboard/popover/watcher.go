package popover

// Watcher dismisses an open overlay on outside interaction. While watching
// it subscribes to the shared event stream and invokes the dismiss callback
// exactly once per qualifying event: a pointer-down outside the overlay
// content, or the cancel key regardless of position.
//
// The containment test stands in for "is the event target inside the
// overlay node". When no containment test is set the watcher treats every
// pointer event as not actionable and never dismisses, rather than erroring
// against a missing node.
type Watcher struct {
	events    *Events
	sub       *Subscription
	contains  func(x, y int) bool
	onDismiss func()
}

// NewWatcher creates a watcher bound to the given event stream. It holds no
// subscription until Watch(true, ...) is called.
func NewWatcher(events *Events) *Watcher {
	return &Watcher{events: events}
}

// SetContainment supplies the hit test for the overlay's own content.
// Pointer-downs for which contains reports true are ignored.
func (w *Watcher) SetContainment(contains func(x, y int) bool) {
	w.contains = contains
}

// Watch aligns the subscription with the open state. Opening subscribes,
// closing cancels synchronously, so a watcher can never fire after its
// widget closed or unmounted. Calling Watch(true, ...) while already
// watching only replaces the callback.
func (w *Watcher) Watch(isOpen bool, onDismiss func()) {
	if !isOpen {
		if w.sub != nil {
			w.sub.Cancel()
			w.sub = nil
		}
		w.onDismiss = nil
		return
	}
	w.onDismiss = onDismiss
	if w.sub == nil {
		w.sub = w.events.Subscribe(w.handle)
	}
}

// Active reports whether the watcher currently holds a subscription.
func (w *Watcher) Active() bool {
	return w.sub != nil
}

func (w *Watcher) handle(ev Event) {
	switch ev := ev.(type) {
	case PointerDown:
		if w.contains == nil || w.contains(ev.X, ev.Y) {
			return
		}
		w.dismiss()
	case KeyDown:
		if ev.Key == CancelKey {
			w.dismiss()
		}
	}
}

// dismiss tears down before invoking the callback so that re-entrant event
// dispatch cannot observe a half-open watcher and fire twice.
func (w *Watcher) dismiss() {
	fn := w.onDismiss
	w.Watch(false, nil)
	if fn != nil {
		fn()
	}
}
