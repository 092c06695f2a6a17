package popover

import (
	"strings"
	"testing"
)

var envOptions = []Option{
	{Value: "SIMULATE", Label: "SIMULATE"},
	{Value: "REAL", Label: "REAL"},
}

// newTestSelect builds a select over the trade-environment options with
// cell-scaled resolver geometry and a fake trigger at (10,5).
func newTestSelect(onChange func(string)) (*Select, *Events, *movableRect) {
	events := NewEvents()
	trigger := &movableRect{rect: Rect{X: 10, Y: 5, W: 12, H: 1}, ok: true}
	s := NewSelect(events, trigger, envOptions, onChange, WithSelectWidth(12))
	r := s.Resolver()
	r.MinWidth, r.Margin, r.Gap = 12, 1, 0
	s.SetViewport(Viewport{Width: 80, Height: 24})
	return s, events, trigger
}

func TestSelectToggle(t *testing.T) {
	s, events, _ := newTestSelect(nil)

	s.Toggle()
	if !s.IsOpen() {
		t.Fatal("not open after toggle")
	}
	// Watcher and resolver each hold one subscription while open.
	if events.Count() != 2 {
		t.Errorf("subscriptions while open = %d, want 2", events.Count())
	}

	// Activating while open is a pure toggle back to closed.
	s.Toggle()
	if s.IsOpen() {
		t.Fatal("still open after second toggle")
	}
	if events.Count() != 0 {
		t.Errorf("subscriptions after close = %d, want 0", events.Count())
	}
}

func TestSelectExactlyOneCommit(t *testing.T) {
	var got []string
	s, _, _ := newTestSelect(func(v string) { got = append(got, v) })

	s.Toggle()
	s.Commit("REAL")

	if len(got) != 1 || got[0] != "REAL" {
		t.Fatalf("onChange calls = %v, want exactly [REAL]", got)
	}
	if s.IsOpen() {
		t.Error("still open after commit")
	}

	// Committing while closed is a no-op.
	s.Commit("SIMULATE")
	if len(got) != 1 {
		t.Errorf("onChange calls = %v after closed commit, want 1 call", got)
	}
}

func TestSelectDismissWithoutCommit(t *testing.T) {
	calls := 0
	s, events, _ := newTestSelect(func(string) { calls++ })

	// Outside pointer-down closes without committing.
	s.Toggle()
	events.Dispatch(PointerDown{X: 70, Y: 2})
	if s.IsOpen() {
		t.Error("still open after outside pointer")
	}

	// The cancel key behaves identically.
	s.Toggle()
	events.Dispatch(KeyDown{Key: CancelKey})
	if s.IsOpen() {
		t.Error("still open after cancel key")
	}

	if calls != 0 {
		t.Errorf("onChange calls = %d on dismissal, want 0", calls)
	}
}

func TestSelectTriggerClickDoesNotSelfDismiss(t *testing.T) {
	s, events, trigger := newTestSelect(nil)

	s.Toggle()
	// The pointer-down lands on the widget's own trigger: the watcher must
	// not dismiss, so the subsequent toggle is the only transition and the
	// net effect is a clean close.
	events.Dispatch(PointerDown{X: trigger.rect.X, Y: trigger.rect.Y})
	if !s.IsOpen() {
		t.Fatal("own-trigger pointer-down dismissed the overlay")
	}
	s.Toggle()
	if s.IsOpen() {
		t.Error("still open after trigger toggle")
	}
}

func TestSelectSiblingClickClosesThenOpens(t *testing.T) {
	events := NewEvents()
	triggerA := &movableRect{rect: Rect{X: 10, Y: 5, W: 12, H: 1}, ok: true}
	triggerB := &movableRect{rect: Rect{X: 40, Y: 5, W: 12, H: 1}, ok: true}

	newSel := func(tr RectProvider) *Select {
		s := NewSelect(events, tr, envOptions, nil, WithSelectWidth(12))
		r := s.Resolver()
		r.MinWidth, r.Margin, r.Gap = 12, 1, 0
		s.SetViewport(Viewport{Width: 80, Height: 24})
		return s
	}
	a, b := newSel(triggerA), newSel(triggerB)

	a.Toggle()

	// One click on B's trigger: capture-phase dispatch closes A, then the
	// host routes the click to B's trigger. Close-then-reopen, not both.
	events.Dispatch(PointerDown{X: triggerB.rect.X, Y: triggerB.rect.Y})
	if a.IsOpen() {
		t.Fatal("sibling click did not close the open widget")
	}
	b.Toggle()
	if !b.IsOpen() {
		t.Fatal("sibling did not open")
	}
	if a.IsOpen() && b.IsOpen() {
		t.Fatal("both widgets open after a single click")
	}
}

func TestSelectLabelFallback(t *testing.T) {
	s, _, _ := newTestSelect(nil)

	if got := s.Label("REAL"); got != "REAL" {
		t.Errorf("Label(REAL) = %q", got)
	}
	// An unmatched host value renders a placeholder, never panics.
	if got := s.Label("MISSING"); got != "(none)" {
		t.Errorf("Label(MISSING) = %q, want placeholder", got)
	}
}

func TestSelectHitRow(t *testing.T) {
	s, _, _ := newTestSelect(nil)
	s.Toggle()
	p := s.Placement()

	tests := []struct {
		name      string
		x, y      int
		want      string
		wantFound bool
	}{
		{"first row", p.Left + 1, p.Top + 1, "SIMULATE", true},
		{"second row", p.Left + 1, p.Top + 2, "REAL", true},
		{"top border", p.Left + 1, p.Top, "", false},
		{"below rows", p.Left + 1, p.Top + 3, "", false},
		{"left of overlay", p.Left - 1, p.Top + 1, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, ok := s.HitRow(tt.x, tt.y)
			if ok != tt.wantFound {
				t.Fatalf("found = %v, want %v", ok, tt.wantFound)
			}
			if ok && opt.Value != tt.want {
				t.Errorf("option = %q, want %q", opt.Value, tt.want)
			}
		})
	}
}

func TestSelectTeardownAfterClose(t *testing.T) {
	calls := 0
	s, events, _ := newTestSelect(func(string) { calls++ })

	s.Toggle()
	s.Dismiss()
	if events.Count() != 0 {
		t.Fatalf("subscriptions after dismiss = %d, want 0", events.Count())
	}

	// Synthetic events after teardown: no callbacks, no errors.
	events.Dispatch(PointerDown{X: 70, Y: 2})
	events.Dispatch(Scroll{})
	events.Dispatch(KeyDown{Key: CancelKey})
	if calls != 0 {
		t.Errorf("onChange calls after teardown = %d, want 0", calls)
	}
	if s.IsOpen() {
		t.Error("reopened by stray events")
	}
}

func TestSelectEndToEnd(t *testing.T) {
	// Host-owned committed value: the widget only reflects it.
	value := "SIMULATE"
	s, _, _ := newTestSelect(func(v string) { value = v })

	s.Toggle()
	view := s.View(value)
	if !strings.Contains(view, "SIMULATE") || !strings.Contains(view, "REAL") {
		t.Fatalf("overlay missing rows:\n%s", view)
	}

	// Click the REAL row.
	p := s.Placement()
	opt, ok := s.HitRow(p.Left+1, p.Top+2)
	if !ok {
		t.Fatal("REAL row not hit")
	}
	s.Commit(opt.Value)

	if value != "REAL" {
		t.Fatalf("committed value = %q, want REAL", value)
	}
	if s.IsOpen() {
		t.Fatal("overlay still open after commit")
	}

	// Re-activating reflects the new host value.
	s.Toggle()
	if got := s.Label(value); got != "REAL" {
		t.Errorf("label after recommit = %q, want REAL", got)
	}
}
