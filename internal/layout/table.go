package layout

import (
	"sort"
	"sync"
)

// Table stores the latest client-reported rectangle per widget.
type Table struct {
	mu    sync.RWMutex
	rects map[string]Rect
}

// NewTable returns an empty layout table.
func NewTable() *Table {
	return &Table{rects: make(map[string]Rect)}
}

// Set records the rectangle for a widget.
func (t *Table) Set(id string, r Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rects[id] = Normalize(r)
}

// Remove forgets a widget rectangle.
func (t *Table) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rects, id)
}

// Reset forgets every rectangle.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rects = make(map[string]Rect)
}

// Bounds returns the rectangle for a widget.
func (t *Table) Bounds(id string) (Rect, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rects[id]
	return r, ok
}

// IDs returns the widget ids with a known rectangle, sorted.
func (t *Table) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.rects))
	for id := range t.rects {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Slot returns a live view of one widget's rectangle.
func (t *Table) Slot(id string) Slot {
	return Slot{table: t, id: id}
}

// Slot reads a single widget rectangle from a table on every call.
type Slot struct {
	table *Table
	id    string
}

// Bounds returns the current rectangle for the slot's widget.
func (s Slot) Bounds() (Rect, bool) {
	if s.table == nil {
		return Rect{}, false
	}
	return s.table.Bounds(s.id)
}
