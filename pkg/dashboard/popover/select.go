package popover

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Option is one selectable candidate. Value is the stable identity and
// must be unique within one option set; Label is display text and need
// not be unique.
type Option struct {
	Value string
	Label string
}

// Default display hints.
const (
	DefaultSelectWidth   = 160
	DefaultComboboxWidth = 200
	DefaultPlaceholder   = "Search…"
	defaultMaxVisible    = 8
)

// Select is the single-select overlay controller. It owns only the
// open/closed lifecycle; the committed value lives with the host, which
// passes it to the render methods and receives it back through the change
// callback on commit.
type Select struct {
	options    []Option
	width      int
	maxVisible int
	onChange   func(string)

	isOpen   bool
	trigger  RectProvider
	watcher  *Watcher
	resolver *Resolver
}

// SelectOption configures a Select.
type SelectOption func(*Select)

// WithSelectWidth sets the trigger display width.
func WithSelectWidth(w int) SelectOption {
	return func(s *Select) {
		if w > 0 {
			s.width = w
		}
	}
}

// WithSelectMaxVisible caps the number of rows shown in the overlay.
func WithSelectMaxVisible(n int) SelectOption {
	return func(s *Select) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

// NewSelect creates a single-select widget over the given option set.
// onChange is invoked exactly once per committed selection.
func NewSelect(events *Events, trigger RectProvider, options []Option, onChange func(string), opts ...SelectOption) *Select {
	s := &Select{
		options:    options,
		width:      DefaultSelectWidth,
		maxVisible: defaultMaxVisible,
		onChange:   onChange,
		trigger:    trigger,
		watcher:    NewWatcher(events),
		resolver:   NewResolver(events),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolver exposes the placement resolver so hosts can tune its geometry
// (terminal hosts scale MinWidth/Margin/Gap down to cells).
func (s *Select) Resolver() *Resolver { return s.resolver }

// SetViewport forwards the current viewport size to the resolver.
func (s *Select) SetViewport(vp Viewport) { s.resolver.SetViewport(vp) }

// SetOptions replaces the option set (e.g. after an account list refresh).
func (s *Select) SetOptions(options []Option) { s.options = options }

// IsOpen reports whether the overlay is open.
func (s *Select) IsOpen() bool { return s.isOpen }

// Toggle flips the overlay: activating the trigger while open closes it.
func (s *Select) Toggle() {
	if s.isOpen {
		s.close()
		return
	}
	s.open()
}

// Dismiss closes without committing. No change callback fires. Also the
// correct call when the host unmounts the widget while open; teardown is
// identical.
func (s *Select) Dismiss() {
	s.close()
}

// Commit selects a candidate: the host's change callback fires once, then
// the overlay closes. No-op while closed.
func (s *Select) Commit(value string) {
	if !s.isOpen {
		return
	}
	s.close()
	if s.onChange != nil {
		s.onChange(value)
	}
}

// Placement returns the current overlay placement.
func (s *Select) Placement() Placement { return s.resolver.Placement() }

// Options returns the full candidate list; the single-select overlay
// always renders it in full (up to the visible cap).
func (s *Select) Options() []Option { return s.options }

// HitRow maps a screen coordinate to the overlay row under it.
func (s *Select) HitRow(x, y int) (Option, bool) {
	if !s.isOpen {
		return Option{}, false
	}
	return hitRow(s.resolver.Placement(), s.visible(), 0, x, y)
}

// Label returns the label of the option matching value, or a placeholder
// when no option matches. Never panics on an unmatched value.
func (s *Select) Label(value string) string {
	if o, ok := findOption(s.options, value); ok {
		return o.Label
	}
	return "(none)"
}

// TriggerView renders the trigger button showing the current selection.
func (s *Select) TriggerView(value string) string {
	style := Trigger
	if s.isOpen {
		style = TriggerOpen
	}
	return style.Width(s.width).Render(s.Label(value) + " ▾")
}

// View renders the overlay content. The active row is derived purely by
// equality with the host-supplied value; no cursor index is persisted.
func (s *Select) View(value string) string {
	p := s.resolver.Placement()
	contentWidth := max(p.Width-2, 1)
	rows := renderRows(s.visible(), value, contentWidth)
	if hidden := len(s.options) - len(s.visible()); hidden > 0 {
		rows = append(rows, MutedText.Render(padCell(fmt.Sprintf("↓ %d more", hidden), contentWidth)))
	}
	return OverlayBox.Render(strings.Join(rows, "\n"))
}

func (s *Select) visible() []Option {
	if len(s.options) > s.maxVisible {
		return s.options[:s.maxVisible]
	}
	return s.options
}

// overlayHeight is the full overlay height including the border rows.
func (s *Select) overlayHeight() int {
	h := len(s.visible()) + 2
	if len(s.options) > s.maxVisible {
		h++
	}
	return h
}

func (s *Select) open() {
	s.isOpen = true
	s.resolver.Activate(s.trigger, s.overlayHeight())
	s.watcher.SetContainment(s.contains)
	s.watcher.Watch(true, s.close)
}

// close tears both subscriptions down synchronously; by the time it
// returns the widget holds no listeners.
func (s *Select) close() {
	s.isOpen = false
	s.watcher.Watch(false, nil)
	s.resolver.Deactivate()
}

// contains treats both the overlay and the trigger as inside. Including
// the trigger keeps activation a pure toggle: the pointer-down on the
// trigger of an open widget must not dismiss first and then reopen via
// the toggle. A pointer-down on a sibling trigger is still outside, so a
// single click closes this widget and opens the other, never both.
func (s *Select) contains(x, y int) bool {
	if rect, ok := s.trigger.ScreenRect(); ok && rect.Contains(x, y) {
		return true
	}
	p := s.resolver.Placement()
	return Rect{X: p.Left, Y: p.Top, W: p.Width, H: s.overlayHeight()}.Contains(x, y)
}

// findOption returns the first option whose value matches.
func findOption(options []Option, value string) (Option, bool) {
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// hitRow maps a screen point to a visible row. rowOffset is the number of
// overlay content lines above the first row (the combobox query line).
func hitRow(p Placement, visible []Option, rowOffset, x, y int) (Option, bool) {
	if x < p.Left+1 || x >= p.Left+p.Width-1 {
		return Option{}, false
	}
	idx := y - (p.Top + 1 + rowOffset)
	if idx < 0 || idx >= len(visible) {
		return Option{}, false
	}
	return visible[idx], true
}

// renderRows renders option rows, highlighting the row equal to value.
func renderRows(options []Option, value string, contentWidth int) []string {
	rows := make([]string, 0, len(options))
	for _, o := range options {
		style := RowNormal
		cursor := "  "
		if o.Value == value {
			style = RowActive
			cursor = RowCursor.Render("> ")
		}
		label := padCell(o.Label, max(contentWidth-2, 1))
		rows = append(rows, cursor+style.Render(label))
	}
	return rows
}

// padCell truncates or pads s to an exact display width.
func padCell(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
