package popover

// Rect is a screen rectangle. X/Y is the top-left corner; the right and
// bottom edges are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the point lies within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// RectProvider reports the current screen rectangle of a trigger element.
// The second return is false when the trigger is not currently laid out
// and measurable.
type RectProvider interface {
	ScreenRect() (Rect, bool)
}

// RectProviderFunc adapts a function to the RectProvider interface.
type RectProviderFunc func() (Rect, bool)

// ScreenRect implements RectProvider.
func (f RectProviderFunc) ScreenRect() (Rect, bool) { return f() }

// Viewport is the visible screen size placements are computed against.
type Viewport struct {
	Width, Height int
}

// Placement is the resolved on-screen geometry for an open overlay.
// Left/Top are viewport-relative offsets; FlippedUp marks an overlay
// placed above its trigger because there was no room below.
type Placement struct {
	Left, Top int
	Width     int
	FlippedUp bool
}

// Default resolver geometry. Hosts working in terminal cells rather than
// pixels override these per resolver.
const (
	DefaultMinWidth = 160 // overlay width floor
	DefaultMargin   = 8   // minimum distance from every viewport edge
	DefaultGap      = 6   // vertical gap between trigger and overlay
)

// Resolver computes and tracks overlay placement for one widget instance.
//
// Resolve is a pure function of its inputs. The reactive half (Activate/
// Placement) recomputes once immediately on activation and again on every
// scroll and resize event for as long as the resolver stays active,
// guaranteeing the overlay is never painted at a stale position after an
// open, scroll or resize. When the trigger is unmeasurable the last good
// placement is retained rather than surfacing an error.
type Resolver struct {
	MinWidth int
	Margin   int
	Gap      int

	events    *Events
	sub       *Subscription
	trigger   RectProvider
	viewport  Viewport
	maxHeight int
	last      Placement
	haveLast  bool
}

// NewResolver creates a resolver with the default geometry constants.
func NewResolver(events *Events) *Resolver {
	return &Resolver{
		MinWidth: DefaultMinWidth,
		Margin:   DefaultMargin,
		Gap:      DefaultGap,
		events:   events,
	}
}

// SetViewport records the current viewport size. The host calls this on
// every size change so that an overlay opened later positions against
// fresh dimensions; while active, resize events update it as well.
func (r *Resolver) SetViewport(vp Viewport) {
	r.viewport = vp
}

// Resolve computes the placement for a trigger rectangle within a viewport.
//
// The overlay is at least MinWidth wide and never narrower than the
// trigger. It is clamped so both horizontal edges stay Margin away from
// the viewport edges whenever that is geometrically possible, with the
// left edge winning when it is not. When the overlay would cross the
// bottom margin it flips above the trigger instead.
func (r *Resolver) Resolve(trigger Rect, vp Viewport, maxHeight int) Placement {
	width := max(trigger.W, r.MinWidth)

	left := trigger.X
	if upper := vp.Width - width - r.Margin; left > upper {
		left = upper
	}
	if left < r.Margin {
		left = r.Margin
	}

	top := trigger.Bottom() + r.Gap
	flipped := false
	if top+maxHeight > vp.Height-r.Margin {
		flipped = true
		top = max(r.Margin, trigger.Y-r.Gap-maxHeight)
	}

	return Placement{Left: left, Top: top, Width: width, FlippedUp: flipped}
}

// Activate begins tracking placement for an opened overlay: one immediate
// computation, then recomputation on every scroll/resize until Deactivate.
func (r *Resolver) Activate(trigger RectProvider, maxHeight int) {
	r.trigger = trigger
	r.maxHeight = maxHeight
	r.recompute()
	if r.sub == nil {
		r.sub = r.events.Subscribe(r.handle)
	}
}

// Deactivate stops tracking and cancels the event subscription
// synchronously. The last computed placement remains readable.
func (r *Resolver) Deactivate() {
	if r.sub != nil {
		r.sub.Cancel()
		r.sub = nil
	}
	r.trigger = nil
}

// Active reports whether the resolver currently holds a subscription.
func (r *Resolver) Active() bool {
	return r.sub != nil
}

// Placement returns the most recently computed placement. Before the first
// successful computation it is the zero Placement.
func (r *Resolver) Placement() Placement {
	return r.last
}

func (r *Resolver) handle(ev Event) {
	switch ev := ev.(type) {
	case Scroll:
		r.recompute()
	case Resize:
		r.viewport = Viewport{Width: ev.Width, Height: ev.Height}
		r.recompute()
	}
}

func (r *Resolver) recompute() {
	if r.trigger == nil {
		return
	}
	rect, ok := r.trigger.ScreenRect()
	if !ok {
		// Unmeasurable trigger: keep the last good placement.
		return
	}
	r.last = r.Resolve(rect, r.viewport, r.maxHeight)
	r.haveLast = true
}
