// Package popover provides anchored floating-selection widgets for the
// dashboard: a single-select dropdown and a searchable combobox, both
// rendered as a detached overlay positioned against a trigger.
//
// The package is built from three cooperating pieces:
//
//   - Events: a document-level stream of pointer, key, scroll and resize
//     events. The host feeds every incoming event into it before running
//     its own handling, so open overlays always observe an event in the
//     same turn it occurs.
//   - Watcher: subscribes to Events while an overlay is open and invokes
//     a dismiss callback on an outside pointer-down or the cancel key.
//     Subscriptions are torn down synchronously on close.
//   - Resolver: computes overlay placement from the trigger rectangle and
//     the viewport, clamping horizontally and flipping above the trigger
//     when there is no room below. It recomputes on open and on every
//     scroll/resize while open, and retains the last good placement when
//     the trigger is not currently measurable.
//
// # Quick Start
//
//	events := popover.NewEvents()
//	sel := popover.NewSelect(events, triggerRect, options,
//	    func(v string) { m.Env = v },
//	    popover.WithSelectWidth(14))
//
//	// In Update(), before any other handling:
//	events.Dispatch(popover.PointerDown{X: msg.X, Y: msg.Y})
//
//	// Trigger activation:
//	sel.Toggle()
//
//	// In View():
//	view = overlayAt(view, sel.View(m.Env), sel.Placement().Left, sel.Placement().Top)
//
// Widgets never store the committed value. The host owns it, supplies it
// to View, and receives exactly one change callback per committed
// selection; dismissal never fires the callback.
//
// Option values must be unique within one option set. Supplying duplicate
// values is a host programming error and widget behavior is undefined.
package popover
