package popover

import "testing"

func TestWatcherOutsidePointerDismisses(t *testing.T) {
	events := NewEvents()
	w := NewWatcher(events)
	inside := Rect{X: 10, Y: 10, W: 20, H: 5}
	w.SetContainment(inside.Contains)

	dismissed := 0
	w.Watch(true, func() { dismissed++ })

	events.Dispatch(PointerDown{X: 50, Y: 3})
	if dismissed != 1 {
		t.Fatalf("dismissed = %d, want 1", dismissed)
	}
	if w.Active() {
		t.Error("watcher still active after dismissal")
	}
}

func TestWatcherInsidePointerIgnored(t *testing.T) {
	events := NewEvents()
	w := NewWatcher(events)
	inside := Rect{X: 10, Y: 10, W: 20, H: 5}
	w.SetContainment(inside.Contains)

	dismissed := 0
	w.Watch(true, func() { dismissed++ })

	events.Dispatch(PointerDown{X: 15, Y: 12})
	if dismissed != 0 {
		t.Errorf("dismissed = %d, want 0", dismissed)
	}
	if !w.Active() {
		t.Error("watcher should remain active after an inside click")
	}
}

func TestWatcherAbsentContainmentNeverDismissesOnPointer(t *testing.T) {
	events := NewEvents()
	w := NewWatcher(events)
	// No containment handle set: pointer events must be treated as not
	// actionable rather than erroring or dismissing.
	dismissed := 0
	w.Watch(true, func() { dismissed++ })

	events.Dispatch(PointerDown{X: 1, Y: 1})
	if dismissed != 0 {
		t.Errorf("dismissed = %d, want 0 with absent containment", dismissed)
	}

	// The cancel key still dismisses.
	events.Dispatch(KeyDown{Key: CancelKey})
	if dismissed != 1 {
		t.Errorf("dismissed = %d, want 1 after cancel key", dismissed)
	}
}

func TestWatcherCancelKeyDismissesRegardlessOfPosition(t *testing.T) {
	events := NewEvents()
	w := NewWatcher(events)
	w.SetContainment(func(x, y int) bool { return true })

	dismissed := 0
	w.Watch(true, func() { dismissed++ })

	events.Dispatch(KeyDown{Key: "a"})
	if dismissed != 0 {
		t.Errorf("dismissed = %d after plain key, want 0", dismissed)
	}
	events.Dispatch(KeyDown{Key: CancelKey})
	if dismissed != 1 {
		t.Errorf("dismissed = %d after cancel key, want 1", dismissed)
	}
}

func TestWatcherClosedHoldsNoSubscription(t *testing.T) {
	events := NewEvents()
	w := NewWatcher(events)

	dismissed := 0
	w.Watch(true, func() { dismissed++ })
	if events.Count() != 1 {
		t.Fatalf("subscriptions while open = %d, want 1", events.Count())
	}

	w.Watch(false, nil)
	if events.Count() != 0 {
		t.Fatalf("subscriptions after close = %d, want 0", events.Count())
	}

	events.Dispatch(PointerDown{X: 99, Y: 99})
	events.Dispatch(KeyDown{Key: CancelKey})
	if dismissed != 0 {
		t.Errorf("dismissed = %d after teardown, want 0", dismissed)
	}
}

func TestWatcherDismissTearsDownSynchronously(t *testing.T) {
	events := NewEvents()
	w := NewWatcher(events)
	w.SetContainment(Rect{X: 0, Y: 0, W: 1, H: 1}.Contains)

	dismissed := 0
	w.Watch(true, func() { dismissed++ })

	// Two outside events in a row: the first dismisses and unsubscribes
	// before its callback runs, so the second finds no listener.
	events.Dispatch(PointerDown{X: 50, Y: 50})
	events.Dispatch(PointerDown{X: 50, Y: 50})
	if dismissed != 1 {
		t.Errorf("dismissed = %d, want exactly 1", dismissed)
	}
	if events.Count() != 0 {
		t.Errorf("subscriptions = %d, want 0", events.Count())
	}
}

func TestWatcherReusableAfterDismiss(t *testing.T) {
	events := NewEvents()
	w := NewWatcher(events)
	w.SetContainment(Rect{X: 0, Y: 0, W: 1, H: 1}.Contains)

	total := 0
	open := func() { w.Watch(true, func() { total++ }) }

	open()
	events.Dispatch(PointerDown{X: 5, Y: 5})
	open()
	events.Dispatch(KeyDown{Key: CancelKey})

	if total != 2 {
		t.Errorf("dismissed = %d across two cycles, want 2", total)
	}
	if events.Count() != 0 {
		t.Errorf("subscriptions = %d, want 0", events.Count())
	}
}

func TestEventsCancelDuringDispatch(t *testing.T) {
	events := NewEvents()

	var subB *Subscription
	calls := 0
	// Subscriber A cancels B mid-dispatch; B must not receive the event
	// currently being delivered.
	events.Subscribe(func(Event) { subB.Cancel() })
	subB = events.Subscribe(func(Event) { calls++ })

	events.Dispatch(Scroll{})
	if calls != 0 {
		t.Errorf("cancelled subscriber received %d events, want 0", calls)
	}
	if events.Count() != 1 {
		t.Errorf("subscriptions = %d, want 1", events.Count())
	}
}
