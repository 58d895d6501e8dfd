package joystick

import (
	"errors"

	"github.com/frudas24/rcpad/internal/layout"
)

const (
	// DefaultBaseDiameter is the base size used when none is configured.
	DefaultBaseDiameter = 150
	// DefaultKnobRatio is the knob diameter as a fraction of the base.
	DefaultKnobRatio = 0.4
)

var (
	// ErrNoID reports a widget configured without an identifier.
	ErrNoID = errors.New("joystick: widget id is required")
	// ErrBadDiameter reports a non-positive base or an oversized knob.
	ErrBadDiameter = errors.New("joystick: knob must fit inside a positive base diameter")
)

// State is the widget state machine position.
type State uint8

const (
	// StateIdle has no binding and a centered knob.
	StateIdle State = iota
	// StateActive has a binding and follows its source.
	StateActive
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	default:
		return "invalid"
	}
}

// Bounder reports a widget's current on-screen rectangle.
type Bounder interface {
	Bounds() (layout.Rect, bool)
}

// BoundsFunc adapts a function to Bounder.
type BoundsFunc func() (layout.Rect, bool)

// Bounds calls f.
func (f BoundsFunc) Bounds() (layout.Rect, bool) {
	return f()
}

// Config holds construction parameters for a Widget.
type Config struct {
	ID         string
	Horizontal bool
	Vertical   bool
	// BaseDiameter defaults to DefaultBaseDiameter.
	BaseDiameter float64
	// KnobDiameter fixes the knob size. When zero the knob is KnobRatio of
	// the base and follows base changes.
	KnobDiameter float64
	// KnobRatio defaults to DefaultKnobRatio.
	KnobRatio float64
}

// Widget is one joystick. It is driven by a Tracker and is not safe for
// concurrent use.
type Widget struct {
	id         string
	horizontal bool
	vertical   bool
	base       float64
	knob       float64
	knobFixed  bool
	ratio      float64

	bounds   Bounder
	response Response
	onChange func(Signal)

	state  State
	source Source
	disp   Vector
	last   Signal
}

// NewWidget builds an idle widget. bounds is queried on every press and move;
// onChange receives every emitted signal and may be nil.
func NewWidget(cfg Config, bounds Bounder, onChange func(Signal)) (*Widget, error) {
	if cfg.ID == "" {
		return nil, ErrNoID
	}
	base := cfg.BaseDiameter
	if base == 0 {
		base = DefaultBaseDiameter
	}
	ratio := cfg.KnobRatio
	if ratio == 0 {
		ratio = DefaultKnobRatio
	}
	knob := cfg.KnobDiameter
	knobFixed := knob != 0
	if !knobFixed {
		knob = base * ratio
	}
	if base <= 0 || ratio < 0 || ratio > 1 || knob < 0 || knob > base {
		return nil, ErrBadDiameter
	}
	return &Widget{
		id:         cfg.ID,
		horizontal: cfg.Horizontal,
		vertical:   cfg.Vertical,
		base:       base,
		knob:       knob,
		knobFixed:  knobFixed,
		ratio:      ratio,
		bounds:     bounds,
		onChange:   onChange,
	}, nil
}

// ID returns the widget identifier.
func (w *Widget) ID() string { return w.id }

// Horizontal reports whether the widget accepts horizontal displacement.
func (w *Widget) Horizontal() bool { return w.horizontal }

// Vertical reports whether the widget accepts vertical displacement.
func (w *Widget) Vertical() bool { return w.vertical }

// BaseDiameter returns the base size.
func (w *Widget) BaseDiameter() float64 { return w.base }

// KnobDiameter returns the knob size.
func (w *Widget) KnobDiameter() float64 { return w.knob }

// MaxRadius returns the maximum knob travel from center.
func (w *Widget) MaxRadius() float64 {
	return (w.base - w.knob) / 2
}

// State returns the current state.
func (w *Widget) State() State { return w.state }

// Active reports whether the widget has a binding.
func (w *Widget) Active() bool { return w.state == StateActive }

// Source returns the bound source, if any.
func (w *Widget) Source() (Source, bool) {
	if w.state != StateActive {
		return Source{}, false
	}
	return w.source, true
}

// Displacement returns the current knob offset.
func (w *Widget) Displacement() Vector { return w.disp }

// Signal returns the last emitted signal.
func (w *Widget) Signal() Signal { return w.last }

// Response returns the response stage applied before emission.
func (w *Widget) Response() Response { return w.response }

// SetResponse replaces the response stage and emits if the signal changed.
func (w *Widget) SetResponse(r Response) {
	w.response = r
	w.emit(false)
}

// SetBaseDiameter resizes the widget. A derived knob keeps its ratio; the
// current displacement is re-clamped to the new radius.
func (w *Widget) SetBaseDiameter(base float64) error {
	knob := w.knob
	if !w.knobFixed {
		knob = base * w.ratio
	}
	if base <= 0 || knob > base {
		return ErrBadDiameter
	}
	w.base = base
	w.knob = knob
	w.disp = clampRadius(w.disp, w.MaxRadius())
	w.emit(false)
	return nil
}

// hit reports whether p lies inside the widget's current bounds.
func (w *Widget) hit(p layout.Point) bool {
	r, ok := w.currentBounds()
	return ok && layout.Contains(r, p)
}

// bind transitions Idle to Active and follows p.
func (w *Widget) bind(src Source, p layout.Point) {
	w.state = StateActive
	w.source = src
	w.disp = w.resolve(p)
	w.emit(true)
}

// follow updates the displacement of an active widget.
func (w *Widget) follow(p layout.Point) {
	if w.state != StateActive {
		return
	}
	w.disp = w.resolve(p)
	w.emit(false)
}

// unbind transitions back to Idle and recenters the knob.
func (w *Widget) unbind() {
	w.state = StateIdle
	w.source = Source{}
	w.disp = Vector{}
	w.emit(true)
}

// resolve maps p to a displacement using the live bounds.
func (w *Widget) resolve(p layout.Point) Vector {
	r, ok := w.currentBounds()
	if !ok {
		return Vector{}
	}
	return Resolve(r, p, w.horizontal, w.vertical, w.MaxRadius())
}

// currentBounds queries the bounder, if any.
func (w *Widget) currentBounds() (layout.Rect, bool) {
	if w.bounds == nil {
		return layout.Rect{}, false
	}
	return w.bounds.Bounds()
}

// emit derives the signal and notifies the consumer when it changed or when
// force is set.
func (w *Widget) emit(force bool) {
	sig := DeriveSignal(w.disp, w.MaxRadius(), w.response)
	if !force && sig == w.last {
		return
	}
	w.last = sig
	if w.onChange != nil {
		w.onChange(sig)
	}
}
