// Package driver connects layout engines to a window host. It keeps one
// engine per virtual desktop and output, translates windows to engine
// clients and pushes computed placements back to the host.
package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/dwindle/internal/layout"
)

var (
	// ErrNoDriver is returned when a desktop has not been registered with
	// SyncDesktops.
	ErrNoDriver = errors.New("no driver for desktop")
	// ErrUnknownWindow is returned when a window is not known to a driver.
	ErrUnknownWindow = errors.New("unknown window")
)

// Output is a physical screen.
type Output struct {
	Name     string
	Geometry layout.Rect
}

// Desktop identifies one tiling surface: a virtual desktop on an activity,
// shown on an output.
type Desktop struct {
	Desktop  string
	Activity string
	Output   Output
}

// String returns the key drivers are stored under. The output geometry is
// not part of it so a resized screen keeps its layout.
func (d Desktop) String() string {
	return strings.Join([]string{d.Desktop, d.Activity, d.Output.Name}, "|")
}

func (d Desktop) portrait() bool {
	return d.Output.Geometry.Width < d.Output.Geometry.Height
}

// Window is a host window that can be tiled.
type Window interface {
	ID() string
	ResourceClass() string
	MinSize() layout.Size
}

// Host applies placements. The Manager calls it while holding its lock, so
// implementations must not call back into the Manager synchronously.
type Host interface {
	Place(w Window, r layout.Rect, maximized bool)
	Unplace(w Window)
}

// Placement is the rectangle computed for one tiled window.
type Placement struct {
	Window    Window
	Rect      layout.Rect
	Maximized bool
}

func (p Placement) String() string {
	r := p.Rect
	return fmt.Sprintf("%s %dx%d+%d+%d", p.Window.ID(), r.Width, r.Height, r.X, r.Y)
}
