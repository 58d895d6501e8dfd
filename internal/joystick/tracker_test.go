package joystick

import (
	"math"
	"testing"

	"github.com/frudas24/rcpad/internal/layout"
)

// newAxisWidget builds a single-axis widget of base 150 centered on (cx,cy).
func newAxisWidget(t *testing.T, id string, horizontal bool, cx, cy float64, rec *recorder) *Widget {
	t.Helper()
	w, err := NewWidget(Config{ID: id, Horizontal: horizontal, Vertical: !horizontal, BaseDiameter: 150}, fixedBounds(centeredRect(cx, cy, 150)), rec.record)
	if err != nil {
		t.Fatalf("NewWidget failed: %v", err)
	}
	return w
}

// TestTracker_ClampedPress verifies a press beyond the radius clamps and saturates.
func TestTracker_ClampedPress(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 200, 200, rec)
	_ = tr.Add(w)

	// The press must start inside the 150px base; the move then leaves it.
	if _, ok := tr.Press(Mouse, layout.Point{X: 210, Y: 200}); !ok {
		t.Fatalf("expected press to bind")
	}
	tr.Move(Mouse, layout.Point{X: 300, Y: 200})
	if w.Displacement() != (Vector{X: 45}) {
		t.Fatalf("expected (45,0), got %+v", w.Displacement())
	}
	if rec.last() != (Signal{X: 100}) {
		t.Fatalf("expected (100,0), got %v", rec.last())
	}
}

// TestTracker_DiagonalScaled verifies a norm-50 offset scales by 45/50.
func TestTracker_DiagonalScaled(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 200, 200, rec)
	_ = tr.Add(w)

	tr.Press(Touch(1), layout.Point{X: 230, Y: 160})
	d := w.Displacement()
	if math.Abs(d.X-27) > 1e-9 || math.Abs(d.Y+36) > 1e-9 {
		t.Fatalf("expected (27,-36), got %+v", d)
	}
	if rec.last() != (Signal{X: 60, Y: 80}) {
		t.Fatalf("expected (60,80), got %v", rec.last())
	}

	tr.Move(Touch(1), layout.Point{X: 230, Y: 240})
	if rec.last() != (Signal{X: 60, Y: -80}) {
		t.Fatalf("expected (60,-80) below center, got %v", rec.last())
	}
}

// TestTracker_PressOutsideIgnored verifies presses outside every widget bind nothing.
func TestTracker_PressOutsideIgnored(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	_ = tr.Add(newTestWidget(t, "w", 200, 200, rec))

	if _, ok := tr.Press(Touch(1), layout.Point{X: 400, Y: 200}); ok {
		t.Fatalf("expected press outside to be ignored")
	}
	if len(rec.signals) != 0 {
		t.Fatalf("expected no emissions, got %v", rec.signals)
	}
	if _, ok := tr.Move(Touch(1), layout.Point{X: 200, Y: 200}); ok {
		t.Fatalf("expected move of unbound source to be ignored")
	}
}

// TestTracker_TwoTouchesIndependent verifies two touches drive two widgets without crosstalk.
func TestTracker_TwoTouchesIndependent(t *testing.T) {
	recH := &recorder{}
	recV := &recorder{}
	tr := NewTracker()
	h := newAxisWidget(t, "rotation", true, 100, 300, recH)
	v := newAxisWidget(t, "movement", false, 400, 300, recV)
	_ = tr.Add(h)
	_ = tr.Add(v)

	if w, ok := tr.Press(Touch(7), layout.Point{X: 100, Y: 300}); !ok || w != h {
		t.Fatalf("expected touch 7 to bind rotation")
	}
	if w, ok := tr.Press(Touch(9), layout.Point{X: 400, Y: 300}); !ok || w != v {
		t.Fatalf("expected touch 9 to bind movement")
	}

	tr.Move(Touch(7), layout.Point{X: 130, Y: 250})
	if h.Displacement() != (Vector{X: 30}) {
		t.Fatalf("expected rotation (30,0), got %+v", h.Displacement())
	}
	if v.Displacement() != (Vector{}) {
		t.Fatalf("expected movement untouched, got %+v", v.Displacement())
	}

	tr.Move(Touch(9), layout.Point{X: 350, Y: 255})
	if v.Displacement() != (Vector{Y: -45}) {
		t.Fatalf("expected movement (0,-45), got %+v", v.Displacement())
	}
	if h.Displacement() != (Vector{X: 30}) {
		t.Fatalf("expected rotation untouched, got %+v", h.Displacement())
	}
	if recV.last() != (Signal{Y: 100}) || recH.last() != (Signal{X: 67}) {
		t.Fatalf("unexpected signals rotation=%v movement=%v", recH.last(), recV.last())
	}

	tr.Release(Touch(7))
	if h.Active() || !v.Active() {
		t.Fatalf("expected only rotation released")
	}
}

// TestTracker_SecondSourceCannotSteal verifies exclusivity of a bound widget.
func TestTracker_SecondSourceCannotSteal(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 200, 200, rec)
	_ = tr.Add(w)

	tr.Press(Touch(1), layout.Point{X: 220, Y: 200})
	before := w.Displacement()
	emitted := len(rec.signals)

	if tr.PressStart("w", Touch(2), layout.Point{X: 180, Y: 180}) {
		t.Fatalf("expected second touch to lose the race")
	}
	if _, ok := tr.Move(Touch(2), layout.Point{X: 150, Y: 150}); ok {
		t.Fatalf("expected second touch move to be ignored")
	}
	if _, ok := tr.Release(Touch(2)); ok {
		t.Fatalf("expected second touch release to be ignored")
	}
	if src, _ := w.Source(); src != Touch(1) {
		t.Fatalf("expected binding to stay with touch#1, got %v", src)
	}
	if w.Displacement() != before || len(rec.signals) != emitted {
		t.Fatalf("expected displacement and emissions unchanged")
	}
}

// TestTracker_SourceBindsOneWidget verifies a bound source cannot grab a second widget.
func TestTracker_SourceBindsOneWidget(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	a := newTestWidget(t, "a", 100, 100, rec)
	b := newTestWidget(t, "b", 400, 100, rec)
	_ = tr.Add(a)
	_ = tr.Add(b)

	tr.Press(Touch(1), layout.Point{X: 100, Y: 100})
	if tr.PressStart("b", Touch(1), layout.Point{X: 400, Y: 100}) {
		t.Fatalf("expected touch#1 to stay bound to a only")
	}
	if b.Active() {
		t.Fatalf("expected b to stay idle")
	}
}

// TestTracker_MouseIgnoredWhileTouchBound verifies synthetic mouse presses are dropped.
func TestTracker_MouseIgnoredWhileTouchBound(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	a := newTestWidget(t, "a", 100, 100, rec)
	b := newTestWidget(t, "b", 400, 100, rec)
	_ = tr.Add(a)
	_ = tr.Add(b)

	tr.Press(Touch(3), layout.Point{X: 100, Y: 100})
	if _, ok := tr.Press(Mouse, layout.Point{X: 400, Y: 100}); ok {
		t.Fatalf("expected mouse press to be ignored while a touch is bound")
	}
	if b.Active() {
		t.Fatalf("expected b to stay idle")
	}

	tr.Release(Touch(3))
	if _, ok := tr.Press(Mouse, layout.Point{X: 400, Y: 100}); !ok {
		t.Fatalf("expected mouse press to bind once touches are released")
	}
	if tr.TouchBound() || !b.Active() {
		t.Fatalf("expected mouse binding on b and no touches")
	}
}

// TestTracker_MouseIDsFold verifies every mouse source maps onto one binding.
func TestTracker_MouseIDsFold(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 100, 100, rec)
	_ = tr.Add(w)

	tr.Press(Source{Kind: SourceMouse, ID: 4}, layout.Point{X: 100, Y: 100})
	if _, ok := tr.Move(Mouse, layout.Point{X: 120, Y: 100}); !ok {
		t.Fatalf("expected mouse move to reach the binding")
	}
	if _, ok := tr.Release(Source{Kind: SourceMouse, ID: 9}); !ok {
		t.Fatalf("expected mouse release to clear the binding")
	}
}

// TestTracker_ReleaseIdempotent verifies repeated release leaves the widget idle at zero.
func TestTracker_ReleaseIdempotent(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 200, 200, rec)
	_ = tr.Add(w)

	tr.Press(Mouse, layout.Point{X: 230, Y: 200})
	if _, ok := tr.Release(Mouse); !ok {
		t.Fatalf("expected first release to clear the binding")
	}
	if w.State() != StateIdle || w.Displacement() != (Vector{}) || rec.last() != (Signal{}) {
		t.Fatalf("expected idle (0,0) after release")
	}
	emitted := len(rec.signals)

	if _, ok := tr.Release(Mouse); ok {
		t.Fatalf("expected second release to be a no-op")
	}
	if w.State() != StateIdle || w.Displacement() != (Vector{}) || len(rec.signals) != emitted {
		t.Fatalf("expected no change after second release")
	}
}

// TestTracker_CancelMatchesRelease verifies cancel recenters and re-arms the widget.
func TestTracker_CancelMatchesRelease(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 200, 200, rec)
	_ = tr.Add(w)

	tr.Press(Touch(5), layout.Point{X: 200, Y: 170})
	if _, ok := tr.Cancel(Touch(5)); !ok {
		t.Fatalf("expected cancel to clear the binding")
	}
	if w.Active() || w.Displacement() != (Vector{}) || rec.last() != (Signal{}) {
		t.Fatalf("expected idle (0,0) after cancel")
	}
	if _, ok := tr.Press(Touch(6), layout.Point{X: 200, Y: 200}); !ok {
		t.Fatalf("expected widget to accept a new press after cancel")
	}
}

// TestTracker_ReleaseWithoutBinding verifies an unknown release changes nothing.
func TestTracker_ReleaseWithoutBinding(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 200, 200, rec)
	_ = tr.Add(w)

	if _, ok := tr.Release(Touch(42)); ok {
		t.Fatalf("expected release without binding to be ignored")
	}
	if len(rec.signals) != 0 || w.Active() {
		t.Fatalf("expected no state change and no emission")
	}
}

// TestTracker_ReleaseAll verifies every binding is cleared at once.
func TestTracker_ReleaseAll(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	a := newTestWidget(t, "a", 100, 100, rec)
	b := newTestWidget(t, "b", 400, 100, rec)
	_ = tr.Add(a)
	_ = tr.Add(b)
	tr.Press(Touch(1), layout.Point{X: 110, Y: 100})
	tr.Press(Touch(2), layout.Point{X: 390, Y: 100})

	released := tr.ReleaseAll()
	if len(released) != 2 || a.Active() || b.Active() || tr.TouchBound() {
		t.Fatalf("expected both widgets released, got %d", len(released))
	}
	if len(tr.ReleaseAll()) != 0 {
		t.Fatalf("expected nothing left to release")
	}
}

// TestTracker_AddRemove verifies registration rules and release on unmount.
func TestTracker_AddRemove(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker()
	w := newTestWidget(t, "w", 100, 100, rec)
	if err := tr.Add(w); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := tr.Add(newTestWidget(t, "w", 0, 0, rec)); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}
	if err := tr.Add(nil); err == nil {
		t.Fatalf("expected nil widget to be rejected")
	}

	tr.Press(Touch(1), layout.Point{X: 100, Y: 100})
	if src, ok := tr.Owner("w"); !ok || src != Touch(1) {
		t.Fatalf("expected owner touch#1, got %v %v", src, ok)
	}
	if !tr.Remove("w") {
		t.Fatalf("expected Remove to succeed")
	}
	if w.Active() || tr.TouchBound() {
		t.Fatalf("expected removal to release the binding")
	}
	if tr.Remove("w") {
		t.Fatalf("expected second Remove to fail")
	}
	if len(tr.Widgets()) != 0 {
		t.Fatalf("expected no widgets left")
	}
}
