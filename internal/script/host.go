package script

import (
	"sync"

	"github.com/Gaurav-Gosain/dwindle/internal/driver"
	"github.com/Gaurav-Gosain/dwindle/internal/layout"
)

// window is a scripted stand-in for a host window.
type window struct {
	id    string
	class string
}

func (w *window) ID() string            { return w.id }
func (w *window) ResourceClass() string { return w.class }
func (w *window) MinSize() layout.Size  { return layout.Size{} }

// RecordingHost is a driver.Host that remembers the last placement of every
// window instead of moving anything.
type RecordingHost struct {
	mu       sync.Mutex
	placed   map[string]driver.Placement
	places   int
	unplaces int
}

// NewRecordingHost returns an empty RecordingHost.
func NewRecordingHost() *RecordingHost {
	return &RecordingHost{placed: make(map[string]driver.Placement)}
}

func (h *RecordingHost) Place(w driver.Window, r layout.Rect, maximized bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.places++
	h.placed[w.ID()] = driver.Placement{Window: w, Rect: r, Maximized: maximized}
}

func (h *RecordingHost) Unplace(w driver.Window) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unplaces++
	delete(h.placed, w.ID())
}

// Placement returns the current placement of a window.
func (h *RecordingHost) Placement(id string) (driver.Placement, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.placed[id]
	return p, ok
}

// Counts returns how many Place and Unplace calls were made.
func (h *RecordingHost) Counts() (places, unplaces int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.places, h.unplaces
}
