package popover

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var fruitOptions = []Option{
	{Value: "a", Label: "Apple"},
	{Value: "b", Label: "Banana"},
}

func newTestCombobox(options []Option, onChange func(string)) (*Combobox, *Events) {
	events := NewEvents()
	trigger := &movableRect{rect: Rect{X: 10, Y: 5, W: 16, H: 1}, ok: true}
	c := NewCombobox(events, trigger, options, onChange, WithComboboxWidth(16))
	r := c.Resolver()
	r.MinWidth, r.Margin, r.Gap = 16, 1, 0
	c.SetViewport(Viewport{Width: 80, Height: 24})
	return c, events
}

func typeString(c *Combobox, s string) {
	for _, r := range s {
		c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestComboboxFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps all", "", []string{"a", "b"}},
		{"label substring", "ban", []string{"b"}},
		{"case insensitive", "BAN", []string{"b"}},
		{"matches value too", "a", []string{"a", "b"}},
		{"shared substring", "an", []string{"b"}},
		{"no matches", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCombobox(fruitOptions, nil)
			c.Toggle()
			typeString(c, tt.query)

			visible := c.Visible()
			if len(visible) != len(tt.want) {
				t.Fatalf("visible = %d options, want %d", len(visible), len(tt.want))
			}
			for i, v := range tt.want {
				if visible[i].Value != v {
					t.Errorf("visible[%d] = %q, want %q", i, visible[i].Value, v)
				}
			}
		})
	}
}

func TestComboboxFilterPreservesSourceOrder(t *testing.T) {
	options := []Option{
		{Value: "aapl", Label: "AAPL"},
		{Value: "aal", Label: "AAL"},
		{Value: "baba", Label: "BABA"},
	}
	c, _ := newTestCombobox(options, nil)
	c.Toggle()
	typeString(c, "aa")

	visible := c.Visible()
	if len(visible) != 2 || visible[0].Value != "aapl" || visible[1].Value != "aal" {
		t.Errorf("visible = %+v, want source order [aapl aal]", visible)
	}
}

func TestComboboxNoMatchesPlaceholder(t *testing.T) {
	c, _ := newTestCombobox(fruitOptions, nil)
	c.Toggle()
	typeString(c, "zzz")

	view := c.View("")
	if !strings.Contains(view, "no matches") {
		t.Errorf("overlay missing no-matches row:\n%s", view)
	}
	// The overlay stays open and the query stays editable.
	if !c.IsOpen() {
		t.Error("overlay closed on empty filter result")
	}
	typeString(c, "x")
	if c.Query() != "zzzx" {
		t.Errorf("query = %q, want still editable", c.Query())
	}
}

func TestComboboxFocusOnOpen(t *testing.T) {
	c, _ := newTestCombobox(fruitOptions, nil)

	c.Toggle()
	if !c.Focused() {
		t.Error("query input not focused on open")
	}
	c.Toggle()
	if c.Focused() {
		t.Error("query input still focused after close")
	}
}

func TestComboboxQueryClearedOnClose(t *testing.T) {
	tests := []struct {
		name  string
		close func(c *Combobox, events *Events)
	}{
		{"commit", func(c *Combobox, _ *Events) { c.Commit("b") }},
		{"dismiss", func(c *Combobox, _ *Events) { c.Dismiss() }},
		{"outside pointer", func(_ *Combobox, ev *Events) { ev.Dispatch(PointerDown{X: 70, Y: 2}) }},
		{"cancel key", func(_ *Combobox, ev *Events) { ev.Dispatch(KeyDown{Key: CancelKey}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, events := newTestCombobox(fruitOptions, nil)
			c.Toggle()
			typeString(c, "ban")

			tt.close(c, events)
			if c.IsOpen() {
				t.Fatal("still open")
			}
			c.Toggle()
			if c.Query() != "" {
				t.Errorf("query = %q on reopen, want empty", c.Query())
			}
		})
	}
}

func TestComboboxExactlyOneCommit(t *testing.T) {
	var got []string
	c, _ := newTestCombobox(fruitOptions, func(v string) { got = append(got, v) })

	c.Toggle()
	typeString(c, "ban")
	c.Commit("b")

	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("onChange calls = %v, want exactly [b]", got)
	}
	if c.IsOpen() {
		t.Error("still open after commit")
	}
}

func TestComboboxCommitFirst(t *testing.T) {
	var got []string
	c, _ := newTestCombobox(fruitOptions, func(v string) { got = append(got, v) })

	c.Toggle()
	typeString(c, "ban")
	if !c.CommitFirst() {
		t.Fatal("CommitFirst failed with one visible match")
	}
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("onChange calls = %v, want [b]", got)
	}

	// Nothing visible: no commit, overlay stays open.
	c.Toggle()
	typeString(c, "zzz")
	if c.CommitFirst() {
		t.Error("CommitFirst succeeded with no matches")
	}
	if !c.IsOpen() {
		t.Error("overlay closed by failed CommitFirst")
	}
	if len(got) != 1 {
		t.Errorf("onChange calls = %v, want unchanged", got)
	}
}

func TestComboboxDismissWithoutCommit(t *testing.T) {
	calls := 0
	c, events := newTestCombobox(fruitOptions, func(string) { calls++ })

	c.Toggle()
	events.Dispatch(PointerDown{X: 70, Y: 2})
	if c.IsOpen() {
		t.Error("still open after outside pointer")
	}

	c.Toggle()
	events.Dispatch(KeyDown{Key: CancelKey})
	if c.IsOpen() {
		t.Error("still open after cancel key")
	}

	if calls != 0 {
		t.Errorf("onChange calls = %d on dismissal, want 0", calls)
	}
}

func TestComboboxHitRowBelowQueryLine(t *testing.T) {
	c, _ := newTestCombobox(fruitOptions, nil)
	c.Toggle()
	p := c.Placement()

	// Row 0 sits one line below the query input.
	if _, ok := c.HitRow(p.Left+1, p.Top+1); ok {
		t.Error("query line reported as a row")
	}
	opt, ok := c.HitRow(p.Left+1, p.Top+2)
	if !ok || opt.Value != "a" {
		t.Errorf("first row hit = (%+v, %v), want Apple", opt, ok)
	}
	opt, ok = c.HitRow(p.Left+1, p.Top+3)
	if !ok || opt.Value != "b" {
		t.Errorf("second row hit = (%+v, %v), want Banana", opt, ok)
	}
}

func TestComboboxTeardownAfterClose(t *testing.T) {
	c, events := newTestCombobox(fruitOptions, nil)

	c.Toggle()
	if events.Count() != 2 {
		t.Fatalf("subscriptions while open = %d, want 2", events.Count())
	}
	c.Dismiss()
	if events.Count() != 0 {
		t.Fatalf("subscriptions after dismiss = %d, want 0", events.Count())
	}

	events.Dispatch(Scroll{})
	events.Dispatch(PointerDown{X: 1, Y: 1})
	if c.IsOpen() {
		t.Error("reopened by stray events")
	}
}

func TestComboboxUnmatchedValueLabel(t *testing.T) {
	c, _ := newTestCombobox(fruitOptions, nil)
	if got := c.Label("missing"); got != DefaultPlaceholder {
		t.Errorf("Label(missing) = %q, want placeholder %q", got, DefaultPlaceholder)
	}
}
