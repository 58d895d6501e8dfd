package joystick

import (
	"fmt"

	"github.com/frudas24/rcpad/internal/layout"
)

// Tracker arbitrates which input source drives which widget. Each widget has
// at most one source and each source drives at most one widget; the first
// press wins and keeps the widget until it is released or cancelled.
//
// A Tracker is not safe for concurrent use; callers feed it events from a
// single goroutine, in delivery order.
type Tracker struct {
	widgets []*Widget
	owners  map[Source]*Widget
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{owners: make(map[Source]*Widget)}
}

// Add registers a widget. Presses are offered to widgets in registration order.
func (t *Tracker) Add(w *Widget) error {
	if w == nil {
		return fmt.Errorf("joystick: nil widget")
	}
	if _, ok := t.Widget(w.ID()); ok {
		return fmt.Errorf("joystick: widget %q already registered", w.ID())
	}
	t.widgets = append(t.widgets, w)
	return nil
}

// Remove unregisters a widget, releasing its binding first.
func (t *Tracker) Remove(id string) bool {
	for i, w := range t.widgets {
		if w.ID() != id {
			continue
		}
		if src, ok := w.Source(); ok {
			t.release(src)
		}
		t.widgets = append(t.widgets[:i], t.widgets[i+1:]...)
		return true
	}
	return false
}

// Widget returns a registered widget by id.
func (t *Tracker) Widget(id string) (*Widget, bool) {
	for _, w := range t.widgets {
		if w.ID() == id {
			return w, true
		}
	}
	return nil, false
}

// Widgets returns the registered widgets in registration order.
func (t *Tracker) Widgets() []*Widget {
	out := make([]*Widget, len(t.widgets))
	copy(out, t.widgets)
	return out
}

// Owner returns the source bound to a widget.
func (t *Tracker) Owner(id string) (Source, bool) {
	w, ok := t.Widget(id)
	if !ok {
		return Source{}, false
	}
	return w.Source()
}

// Bound reports whether src currently drives a widget.
func (t *Tracker) Bound(src Source) (*Widget, bool) {
	w, ok := t.owners[canonical(src)]
	return w, ok
}

// PressStart offers a press to one widget. It binds only when the widget is
// unbound, p lies inside its bounds, src drives no other widget and, for
// the mouse, no touch is bound anywhere.
func (t *Tracker) PressStart(id string, src Source, p layout.Point) bool {
	w, ok := t.Widget(id)
	if !ok {
		return false
	}
	return t.pressStart(w, canonical(src), p)
}

// Press offers a document-level press to every widget in order and returns
// the widget that accepted it.
func (t *Tracker) Press(src Source, p layout.Point) (*Widget, bool) {
	src = canonical(src)
	for _, w := range t.widgets {
		if t.pressStart(w, src, p) {
			return w, true
		}
	}
	return nil, false
}

// Move forwards a pointer position to the widget src drives, if any.
func (t *Tracker) Move(src Source, p layout.Point) (*Widget, bool) {
	w, ok := t.owners[canonical(src)]
	if !ok {
		return nil, false
	}
	w.follow(p)
	return w, true
}

// Release ends src's binding and recenters its widget. Unknown sources are
// ignored, so repeated releases are safe.
func (t *Tracker) Release(src Source) (*Widget, bool) {
	return t.release(canonical(src))
}

// Cancel is Release for gestures the platform interrupted.
func (t *Tracker) Cancel(src Source) (*Widget, bool) {
	return t.release(canonical(src))
}

// ReleaseAll ends every binding and returns the widgets that were active.
func (t *Tracker) ReleaseAll() []*Widget {
	var out []*Widget
	for _, w := range t.widgets {
		src, ok := w.Source()
		if !ok {
			continue
		}
		t.release(src)
		out = append(out, w)
	}
	return out
}

// TouchBound reports whether any touch currently drives a widget.
func (t *Tracker) TouchBound() bool {
	for src := range t.owners {
		if src.Kind == SourceTouch {
			return true
		}
	}
	return false
}

// pressStart applies the binding rules for one widget.
func (t *Tracker) pressStart(w *Widget, src Source, p layout.Point) bool {
	if w.Active() {
		return false
	}
	if _, busy := t.owners[src]; busy {
		return false
	}
	// Platforms replay touches as mouse events; drop them while a touch is down.
	if src.Kind == SourceMouse && t.TouchBound() {
		return false
	}
	if !w.hit(p) {
		return false
	}
	t.owners[src] = w
	w.bind(src, p)
	return true
}

// release clears a binding by canonical source.
func (t *Tracker) release(src Source) (*Widget, bool) {
	w, ok := t.owners[src]
	if !ok {
		return nil, false
	}
	delete(t.owners, src)
	w.unbind()
	return w, true
}

// canonical folds every mouse source onto the single Mouse value.
func canonical(src Source) Source {
	if src.Kind == SourceMouse {
		return Mouse
	}
	return src
}
