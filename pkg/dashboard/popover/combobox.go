package popover

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Combobox is the searchable variant of the selection overlay. In addition
// to the Select lifecycle it owns a query string, typed into a text input
// that receives focus when the overlay opens. The visible candidate list
// is the full option set while the query is empty, otherwise every option
// whose label or value contains the query case-insensitively. The query is
// cleared whenever the overlay closes, by commit or dismissal alike.
type Combobox struct {
	options     []Option
	width       int
	maxVisible  int
	placeholder string
	onChange    func(string)

	isOpen   bool
	input    textinput.Model
	trigger  RectProvider
	watcher  *Watcher
	resolver *Resolver
}

// ComboboxOption configures a Combobox.
type ComboboxOption func(*Combobox)

// WithComboboxWidth sets the trigger display width.
func WithComboboxWidth(w int) ComboboxOption {
	return func(c *Combobox) {
		if w > 0 {
			c.width = w
		}
	}
}

// WithPlaceholder sets the query input placeholder text.
func WithPlaceholder(p string) ComboboxOption {
	return func(c *Combobox) { c.placeholder = p }
}

// WithComboboxMaxVisible caps the number of rows shown in the overlay.
func WithComboboxMaxVisible(n int) ComboboxOption {
	return func(c *Combobox) {
		if n > 0 {
			c.maxVisible = n
		}
	}
}

// NewCombobox creates a searchable selection widget. onChange is invoked
// exactly once per committed selection.
func NewCombobox(events *Events, trigger RectProvider, options []Option, onChange func(string), opts ...ComboboxOption) *Combobox {
	c := &Combobox{
		options:     options,
		width:       DefaultComboboxWidth,
		maxVisible:  defaultMaxVisible,
		placeholder: DefaultPlaceholder,
		onChange:    onChange,
		trigger:     trigger,
		watcher:     NewWatcher(events),
		resolver:    NewResolver(events),
	}
	for _, opt := range opts {
		opt(c)
	}
	ti := textinput.New()
	ti.Placeholder = c.placeholder
	ti.Prompt = "/ "
	c.input = ti
	return c
}

// Resolver exposes the placement resolver for host geometry tuning.
func (c *Combobox) Resolver() *Resolver { return c.resolver }

// SetViewport forwards the current viewport size to the resolver.
func (c *Combobox) SetViewport(vp Viewport) { c.resolver.SetViewport(vp) }

// SetOptions replaces the option set.
func (c *Combobox) SetOptions(options []Option) { c.options = options }

// IsOpen reports whether the overlay is open.
func (c *Combobox) IsOpen() bool { return c.isOpen }

// Query returns the current filter text.
func (c *Combobox) Query() string { return c.input.Value() }

// Focused reports whether the query input holds focus.
func (c *Combobox) Focused() bool { return c.input.Focused() }

// Toggle flips the overlay: activating the trigger while open closes it.
func (c *Combobox) Toggle() {
	if c.isOpen {
		c.close()
		return
	}
	c.open()
}

// Dismiss closes without committing; the query is discarded.
func (c *Combobox) Dismiss() {
	c.close()
}

// Commit selects a candidate: the change callback fires once, then the
// overlay closes and the query resets. No-op while closed.
func (c *Combobox) Commit(value string) {
	if !c.isOpen {
		return
	}
	c.close()
	if c.onChange != nil {
		c.onChange(value)
	}
}

// CommitFirst commits the first visible candidate, if any. Bound to enter
// in the host so a narrowed-down query can be accepted from the keyboard.
func (c *Combobox) CommitFirst() bool {
	if !c.isOpen {
		return false
	}
	visible := c.Visible()
	if len(visible) == 0 {
		return false
	}
	c.Commit(visible[0].Value)
	return true
}

// Update feeds a message to the query input while open. Typing updates the
// query and never touches the committed value; the visible list and the
// overlay height are re-derived on every keystroke.
func (c *Combobox) Update(msg tea.Msg) tea.Cmd {
	if !c.isOpen {
		return nil
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	c.resolver.Activate(c.trigger, c.overlayHeight())
	return cmd
}

// Visible returns the filtered candidate list in source order.
func (c *Combobox) Visible() []Option {
	return filterOptions(c.options, c.input.Value())
}

// Placement returns the current overlay placement.
func (c *Combobox) Placement() Placement { return c.resolver.Placement() }

// HitRow maps a screen coordinate to the overlay row under it. The first
// content line is the query input, so rows start one line down.
func (c *Combobox) HitRow(x, y int) (Option, bool) {
	if !c.isOpen {
		return Option{}, false
	}
	return hitRow(c.resolver.Placement(), c.visibleCapped(), 1, x, y)
}

// Label returns the label of the option matching value, or the
// placeholder when no option matches.
func (c *Combobox) Label(value string) string {
	if o, ok := findOption(c.options, value); ok {
		return o.Label
	}
	return c.placeholder
}

// TriggerView renders the trigger button showing the current selection.
func (c *Combobox) TriggerView(value string) string {
	style := Trigger
	if c.isOpen {
		style = TriggerOpen
	}
	return style.Width(c.width).Render(c.Label(value) + " ▾")
}

// View renders the overlay: the query input, then the filtered rows, or a
// non-interactive "no matches" row when the filter excludes everything.
// The overlay stays open and the query editable in that state.
func (c *Combobox) View(value string) string {
	p := c.resolver.Placement()
	contentWidth := max(p.Width-2, 1)

	lines := []string{padCell(c.input.View(), contentWidth)}

	visible := c.visibleCapped()
	if len(visible) == 0 {
		lines = append(lines, MutedText.Render(padCell("no matches", contentWidth)))
	} else {
		lines = append(lines, renderRows(visible, value, contentWidth)...)
		if hidden := len(c.Visible()) - len(visible); hidden > 0 {
			lines = append(lines, MutedText.Render(padCell(fmt.Sprintf("↓ %d more", hidden), contentWidth)))
		}
	}
	return OverlayBox.Render(strings.Join(lines, "\n"))
}

func (c *Combobox) visibleCapped() []Option {
	visible := c.Visible()
	if len(visible) > c.maxVisible {
		return visible[:c.maxVisible]
	}
	return visible
}

// overlayHeight is the full overlay height including the query line and
// border rows.
func (c *Combobox) overlayHeight() int {
	visible := c.Visible()
	rows := len(visible)
	if rows == 0 {
		rows = 1 // "no matches" row
	} else if rows > c.maxVisible {
		rows = c.maxVisible + 1 // truncation indicator
	}
	return rows + 3
}

func (c *Combobox) open() {
	c.isOpen = true
	c.input.Reset()
	c.input.Focus()
	c.resolver.Activate(c.trigger, c.overlayHeight())
	c.watcher.SetContainment(c.contains)
	c.watcher.Watch(true, c.close)
}

func (c *Combobox) close() {
	c.isOpen = false
	c.input.Reset()
	c.input.Blur()
	c.watcher.Watch(false, nil)
	c.resolver.Deactivate()
}

func (c *Combobox) contains(x, y int) bool {
	if rect, ok := c.trigger.ScreenRect(); ok && rect.Contains(x, y) {
		return true
	}
	p := c.resolver.Placement()
	return Rect{X: p.Left, Y: p.Top, W: p.Width, H: c.overlayHeight()}.Contains(x, y)
}

// filterOptions keeps every option whose label or value contains query as
// a case-insensitive substring, preserving source order. An empty query
// keeps everything.
func filterOptions(options []Option, query string) []Option {
	if query == "" {
		return options
	}
	q := strings.ToLower(query)
	var out []Option
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Label), q) ||
			strings.Contains(strings.ToLower(o.Value), q) {
			out = append(out, o)
		}
	}
	return out
}
