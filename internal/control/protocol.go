// Package control runs the joystick engine for the active controller and
// translates its signals into relay snapshots.
package control

import (
	"github.com/frudas24/rcpad/internal/joystick"
	"github.com/frudas24/rcpad/internal/layout"
)

// Message types received from the controller.
const (
	MsgLayout = "layout"
	MsgDown   = "down"
	MsgMove   = "move"
	MsgUp     = "up"
	MsgCancel = "cancel"
	MsgSwitch = "switch"
	MsgPulse  = "pulse"
	MsgSpeed  = "speed"
)

// Message types sent to the controller.
const (
	MsgHello = "hello"
	MsgKnob  = "knob"
)

// Widget identifiers.
const (
	WidgetRotation = "rotation"
	WidgetMovement = "movement"
)

// Message is a controller payload.
type Message struct {
	T      string       `json:"t"`
	Widget string       `json:"widget,omitempty"`
	Rect   *layout.Rect `json:"rect,omitempty"`
	Src    string       `json:"src,omitempty"`
	ID     int          `json:"id,omitempty"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`
	Name   string       `json:"name,omitempty"`
	On     *bool        `json:"on,omitempty"`
	Value  *int         `json:"value,omitempty"`
}

// Knob tells the controller where to draw a widget's knob.
type Knob struct {
	T      string  `json:"t"`
	Widget string  `json:"widget"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Active bool    `json:"active"`
	SX     int     `json:"sx"`
	SY     int     `json:"sy"`
}

// Hello is sent once a controller attaches.
type Hello struct {
	T       string        `json:"t"`
	Widgets []WidgetState `json:"widgets"`
}

// WidgetState describes one joystick for clients and /api/state.
type WidgetState struct {
	ID           string          `json:"id"`
	Horizontal   bool            `json:"horizontal"`
	Vertical     bool            `json:"vertical"`
	BaseDiameter float64         `json:"baseDiameter"`
	KnobDiameter float64         `json:"knobDiameter"`
	MaxRadius    float64         `json:"maxRadius"`
	State        string          `json:"state"`
	Source       string          `json:"source,omitempty"`
	DX           float64         `json:"dx"`
	DY           float64         `json:"dy"`
	Signal       joystick.Signal `json:"signal"`
}

// stateOf snapshots a widget.
func stateOf(w *joystick.Widget) WidgetState {
	d := w.Displacement()
	st := WidgetState{
		ID:           w.ID(),
		Horizontal:   w.Horizontal(),
		Vertical:     w.Vertical(),
		BaseDiameter: w.BaseDiameter(),
		KnobDiameter: w.KnobDiameter(),
		MaxRadius:    w.MaxRadius(),
		State:        w.State().String(),
		DX:           d.X,
		DY:           d.Y,
		Signal:       w.Signal(),
	}
	if src, ok := w.Source(); ok {
		st.Source = src.String()
	}
	return st
}

// knobOf builds the knob feedback message for a widget.
func knobOf(w *joystick.Widget) Knob {
	d := w.Displacement()
	sig := w.Signal()
	return Knob{
		T:      MsgKnob,
		Widget: w.ID(),
		DX:     d.X,
		DY:     d.Y,
		Active: w.Active(),
		SX:     sig.X,
		SY:     sig.Y,
	}
}
