// Package mouse provides hit-region tracking for the dashboard. Regions
// are registered each render (render-then-measure) and tested against
// incoming bubbletea mouse events, so click targets can never drift from
// what was actually drawn.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a screen rectangle in cell coordinates. Width and height are
// exclusive: a W=20 rect starting at X=10 covers columns 10..29.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named clickable area with optional associated data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions registered during the most recent render.
// Overlapping regions resolve to the most recently added one, matching
// paint order: whatever was drawn last is on top.
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region.
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	m.regions = append(m.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region containing the point, or nil.
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			return &m.regions[i]
		}
	}
	return nil
}

// Lookup returns the region with the given ID, or nil.
func (m *HitMap) Lookup(id string) *Region {
	for i := range m.regions {
		if m.regions[i].ID == id {
			return &m.regions[i]
		}
	}
	return nil
}

// Regions returns all registered regions.
func (m *HitMap) Regions() []Region {
	return m.regions
}

// Clear removes all regions. Call at the start of every render.
func (m *HitMap) Clear() {
	m.regions = m.regions[:0]
}

// ActionType classifies a handled mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
)

// Action is the interpreted result of one mouse event.
type Action struct {
	Type          ActionType
	X, Y          int
	Region        *Region // region under the pointer, may be nil
	IsDoubleClick bool
}

// doubleClickWindow is the maximum delay between two clicks on the same
// region to count as a double-click.
const doubleClickWindow = 400 * time.Millisecond

// Handler interprets raw mouse events against the current hit map and
// tracks double-click state across events.
type Handler struct {
	HitMap *HitMap

	lastClickAt     time.Time
	lastClickRegion string
	now             func() time.Time
}

// NewHandler creates a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// HandleMouse interprets a bubbletea mouse message.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return h.handleClick(msg.X, msg.Y)
		case tea.MouseButtonWheelUp:
			return Action{Type: ActionScrollUp, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
		case tea.MouseButtonWheelDown:
			return Action{Type: ActionScrollDown, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
		}
	case tea.MouseActionMotion:
		return Action{Type: ActionHover, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
	}
	return Action{Type: ActionNone, X: msg.X, Y: msg.Y}
}

// handleClick resolves a left press, tracking double-clicks on the same
// region. The double-click state resets after firing so a triple click
// does not report two doubles.
func (h *Handler) handleClick(x, y int) Action {
	region := h.HitMap.Test(x, y)
	act := Action{Type: ActionClick, X: x, Y: y, Region: region}

	now := h.now()
	if region != nil && region.ID == h.lastClickRegion && now.Sub(h.lastClickAt) <= doubleClickWindow {
		act.IsDoubleClick = true
		h.lastClickRegion = ""
		h.lastClickAt = time.Time{}
		return act
	}

	if region != nil {
		h.lastClickRegion = region.ID
	} else {
		h.lastClickRegion = ""
	}
	h.lastClickAt = now
	return act
}

// Clear resets the hit map.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}
