package driver

import (
	"fmt"
	"strings"

	"github.com/Gaurav-Gosain/dwindle/internal/layout"
)

// Direction is a screen direction used by the directional actions.
type Direction uint8

const (
	Above Direction = iota
	Right
	Below
	Left
)

func (d Direction) String() string {
	switch d {
	case Above:
		return "above"
	case Right:
		return "right"
	case Below:
		return "below"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts above/up, below/down, left and right in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "above", "up":
		return Above, nil
	case "below", "down":
		return Below, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Above, fmt.Errorf("invalid direction %q", s)
}

// hint is the engine placement hint for inserting towards d.
func (d Direction) hint() layout.Direction {
	switch d {
	case Above:
		return layout.DirUp | layout.DirVertical
	case Below:
		return layout.DirVertical
	case Right:
		return layout.DirRight
	}
	return layout.DirNone
}

// probe returns a point just outside r in direction d.
func (d Direction) probe(r layout.Rect) (x, y int) {
	switch d {
	case Above:
		return r.X + 1, r.Y - 1
	case Below:
		return r.X + 1, r.Y + r.Height + 1
	case Left:
		return r.X - 1, r.Y + 1
	default:
		return r.X + r.Width + 1, r.Y + 1
	}
}

func (m *Manager) lookup(d Desktop) (*TilingDriver, bool) {
	drv, ok := m.drivers[d.String()]
	if !ok {
		logger.Error("No driver for desktop", "desktop", d)
	}
	return drv, ok
}

// tileInDirection returns the tile just past w's edge.
func tileInDirection(drv *TilingDriver, w Window, dir Direction) *layout.MemTile {
	tile, ok := drv.TileFor(w)
	if !ok {
		return nil
	}
	x, y := dir.probe(tile.AbsoluteGeometry())
	return drv.RootTile().BestTileForPosition(x, y)
}

// Retile toggles w between tiled and floating.
func (m *Manager) Retile(d Desktop, w Window) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}
	if drv.IsTiled(w) {
		drv.UntileWindow(w)
	} else {
		drv.AddWindow(w)
	}
	return m.rebuildLocked(d) == nil
}

// Focus returns the window next to w in direction dir.
func (m *Manager) Focus(d Desktop, w Window, dir Direction) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return nil, false
	}
	tile := tileInDirection(drv, w, dir)
	if tile == nil || tile.Client() == nil {
		return nil, false
	}
	next, ok := drv.Window(tile.Client())
	if ok {
		logger.Debug("Focusing", "class", next.ResourceClass())
	}
	return next, ok
}

// Insert moves w into the tile next to it in direction dir, splitting that
// tile towards w's side.
func (m *Manager) Insert(d Desktop, w Window, dir Direction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}

	var (
		x, y  int
		probe bool
	)
	if tile, ok := drv.TileFor(w); ok {
		x, y = dir.probe(tile.AbsoluteGeometry())
		probe = true
	}

	logger.Debug("Moving", "class", w.ResourceClass(), "direction", dir)
	drv.UntileWindow(w)
	if err := m.rebuildLocked(d); err != nil {
		return false
	}

	root := drv.RootTile()
	var target *layout.MemTile
	if probe {
		target = root.BestTileForPosition(x, y)
	}
	if target == nil {
		target = root
	}
	drv.PutWindowInTile(w, target, dir.hint())
	return m.rebuildLocked(d) == nil
}

// Resize moves the edge of w's tile in direction dir by the configured
// amount. The engine picks the change up through the debounced layout
// callback.
func (m *Manager) Resize(d Desktop, w Window, dir Direction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}
	tile, ok := drv.TileFor(w)
	if !ok || tile.Parent() == nil {
		return false
	}

	siblings := tile.Parent().Tiles()
	index := 0
	for i, s := range siblings {
		if s == layout.Tile(tile) {
			index = i
		}
	}
	first, last := index == 0, index == len(siblings)-1
	amount := m.cfg.Driver.ResizeAmount

	logger.Debug("Changing size of", "geometry", tile.AbsoluteGeometry(), "direction", dir)
	switch dir {
	case Above:
		if first {
			return tile.ResizeByPixels(-amount, layout.BottomEdge)
		}
		return tile.ResizeByPixels(-amount, layout.TopEdge)
	case Below:
		if last {
			return tile.ResizeByPixels(amount, layout.TopEdge)
		}
		return tile.ResizeByPixels(amount, layout.BottomEdge)
	case Left:
		if first {
			return tile.ResizeByPixels(-amount, layout.RightEdge)
		}
		return tile.ResizeByPixels(-amount, layout.LeftEdge)
	case Right:
		if last {
			return tile.ResizeByPixels(amount, layout.LeftEdge)
		}
		return tile.ResizeByPixels(amount, layout.RightEdge)
	}
	return false
}

// SetTileRatio gives w's tile the given share of its split, the way a
// pointer drag on the split handle would. Like Resize, the engine picks the
// change up through the debounced layout callback.
func (m *Manager) SetTileRatio(d Desktop, w Window, ratio float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok || ratio <= 0 || ratio >= 1 {
		return false
	}
	tile, ok := drv.TileFor(w)
	if !ok || tile.Parent() == nil {
		return false
	}
	for _, s := range tile.Parent().Tiles() {
		if s == layout.Tile(tile) {
			s.SetRelativeSize(ratio)
		} else {
			s.SetRelativeSize(1 - ratio)
		}
	}
	return true
}

// RotateLayout flips the base axis of the desktop.
func (m *Manager) RotateLayout(d Desktop) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}
	cfg := drv.EngineConfig()
	cfg.RotateLayout = !cfg.RotateLayout
	logger.Debug("Vertical-first", "enabled", cfg.RotateLayout)
	return m.setEngineConfigLocked(d, cfg) == nil
}

// SwapHalves exchanges the two halves of the desktop's layout. It reports
// false when fewer than two windows are tiled or w is not tiled.
func (m *Manager) SwapHalves(d Desktop, w Window) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}
	if !drv.IsTiled(w) {
		logger.Debug("swapHalves: active window not tiled, aborting", "class", w.ResourceClass())
		return false
	}
	if !drv.SwapHalves() {
		logger.Info("Cannot swap: less than 2 windows tiled")
		return false
	}
	return m.rebuildLocked(d) == nil
}

// SwapWithSibling exchanges w with the window sharing its split.
func (m *Manager) SwapWithSibling(d Desktop, w Window) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}
	c, ok := drv.Client(w)
	if !ok {
		return false
	}
	sibling, ok := drv.Engine().SiblingClient(c)
	if !ok || !drv.Engine().SwapClients(c, sibling) {
		return false
	}
	logger.Debug("Swapped window with sibling", "class", w.ResourceClass())
	return m.rebuildLocked(d) == nil
}

// SwapInDirection exchanges w with the window next to it in direction dir.
func (m *Manager) SwapInDirection(d Desktop, w Window, dir Direction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}
	target := tileInDirection(drv, w, dir)
	if target == nil || target.Client() == nil {
		return false
	}
	c1, ok := drv.Client(w)
	if !ok {
		return false
	}
	c2 := target.Client()
	if c1 == c2 || !drv.Engine().SwapClients(c1, c2) {
		return false
	}
	logger.Debug("Swapped windows in direction", "direction", dir)
	return m.rebuildLocked(d) == nil
}

// ToggleSplit flips the axis of the split containing w.
func (m *Manager) ToggleSplit(d Desktop, w Window) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return false
	}
	c, ok := drv.Client(w)
	if !ok || !drv.Engine().ToggleSplit(c) {
		return false
	}
	logger.Debug("Toggled split direction", "class", w.ResourceClass())
	return m.rebuildLocked(d) == nil
}

// Cycle returns the tiled window after w in traversal order, or the one
// before it when reverse is set. The order wraps around.
func (m *Manager) Cycle(d Desktop, w Window, reverse bool) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.lookup(d)
	if !ok {
		return nil, false
	}
	clients := drv.Engine().AllClients()
	if len(clients) < 2 {
		return nil, false
	}
	current, ok := drv.Client(w)
	if !ok {
		return nil, false
	}
	index := -1
	for i, c := range clients {
		if c == current {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, false
	}

	n := len(clients)
	if reverse {
		index = (index + n - 1) % n
	} else {
		index = (index + 1) % n
	}
	next, ok := drv.Window(clients[index])
	if ok {
		logger.Debug("Cycled to window", "class", next.ResourceClass())
	}
	return next, ok
}
