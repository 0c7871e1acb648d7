// Package interact translates raw pointer input into semantic graph events
// and owns selection and zoom state.
//
// # Event flow
//
// Host surfaces enqueue raw [PointerEvent] values as they arrive; nothing is
// interpreted at that point. Once per scheduled frame the coordinator calls
// [Manager.Flush], which drains the queue through a single dispatch function
// and emits semantic events (select, deselect, expand, context, pan, zoom)
// through the configured [Handlers]. Keeping recognition inside Flush makes
// gesture mapping testable without a live input surface and bounds per-frame
// work no matter how fast events arrive.
//
// # Gestures
//
// Recognition follows the configured thresholds: a tap inside the double-tap
// window on the same node becomes an expand instead of two selects; a hold
// past the long-press threshold becomes a context event; movement past the
// pan-start distance becomes a pan; a two-contact span change past the pinch
// threshold becomes a zoom, always clamped to the configured bounds.
//
// Active contacts are tracked in an identifier-keyed map so simultaneous
// gestures stay disambiguated - two independent drags never read as a pinch.
package interact
