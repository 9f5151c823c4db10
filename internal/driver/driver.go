package driver

import (
	"github.com/Gaurav-Gosain/dwindle/internal/layout"
)

// TilingDriver owns the engine of one desktop and maps host windows to
// engine clients.
type TilingDriver struct {
	engine  *layout.Engine
	clients map[string]*layout.Client
	windows map[*layout.Client]Window
	untiled map[string]Window
	// placed holds the windows handed to the host by the last build.
	placed map[string]bool
}

func newTilingDriver(cfg layout.EngineConfig) *TilingDriver {
	return &TilingDriver{
		engine:  layout.NewEngine(cfg, layout.WithTileFactory(layout.NewMemTileFactory())),
		clients: make(map[string]*layout.Client),
		windows: make(map[*layout.Client]Window),
		untiled: make(map[string]Window),
		placed:  make(map[string]bool),
	}
}

// Engine returns the underlying layout engine.
func (d *TilingDriver) Engine() *layout.Engine { return d.engine }

// EngineConfig returns the engine policy.
func (d *TilingDriver) EngineConfig() layout.EngineConfig { return d.engine.Config() }

// SetEngineConfig replaces the engine policy. It takes effect on the next
// build.
func (d *TilingDriver) SetEngineConfig(cfg layout.EngineConfig) { d.engine.SetConfig(cfg) }

func (d *TilingDriver) clientFor(w Window) *layout.Client {
	c, ok := d.clients[w.ID()]
	if !ok {
		c = layout.NewClient(w.ResourceClass(), w.MinSize())
		d.clients[w.ID()] = c
		d.windows[c] = w
	}
	return c
}

// AddWindow tiles w. Windows that are already tiled are left in place.
func (d *TilingDriver) AddWindow(w Window) {
	if d.IsTiled(w) {
		return
	}
	delete(d.untiled, w.ID())
	d.engine.AddClient(d.clientFor(w))
}

// RemoveWindow forgets w entirely.
func (d *TilingDriver) RemoveWindow(w Window) {
	delete(d.untiled, w.ID())
	delete(d.placed, w.ID())
	c, ok := d.clients[w.ID()]
	if !ok {
		return
	}
	d.engine.RemoveClient(c)
	delete(d.clients, w.ID())
	delete(d.windows, c)
}

// UntileWindow takes w out of the layout but keeps tracking it so the next
// build can release it from its tile.
func (d *TilingDriver) UntileWindow(w Window) {
	if c, ok := d.clients[w.ID()]; ok {
		d.engine.RemoveClient(c)
	}
	d.untiled[w.ID()] = w
}

// PutWindowInTile moves w next to the window shown in tile, on the side
// given by dir.
func (d *TilingDriver) PutWindowInTile(w Window, tile layout.Tile, dir layout.Direction) {
	c := d.clientFor(w)
	d.engine.RemoveClient(c)
	delete(d.untiled, w.ID())
	d.engine.PutClientInTile(c, tile, dir)
}

// IsTiled reports whether w currently occupies a tile.
func (d *TilingDriver) IsTiled(w Window) bool {
	if _, ok := d.untiled[w.ID()]; ok {
		return false
	}
	_, ok := d.clients[w.ID()]
	return ok
}

// Client returns the engine client of a tiled window.
func (d *TilingDriver) Client(w Window) (*layout.Client, bool) {
	if !d.IsTiled(w) {
		return nil, false
	}
	return d.clients[w.ID()], true
}

// Window returns the window behind an engine client.
func (d *TilingDriver) Window(c *layout.Client) (Window, bool) {
	w, ok := d.windows[c]
	return w, ok
}

// Windows returns the tiled windows in traversal order.
func (d *TilingDriver) Windows() []Window {
	clients := d.engine.AllClients()
	out := make([]Window, 0, len(clients))
	for _, c := range clients {
		if w, ok := d.windows[c]; ok {
			out = append(out, w)
		}
	}
	return out
}

// RootTile returns the tile tree of the last build, or nil.
func (d *TilingDriver) RootTile() *layout.MemTile {
	root, _ := d.engine.RootTile().(*layout.MemTile)
	return root
}

// TileFor returns the leaf tile showing w.
func (d *TilingDriver) TileFor(w Window) (*layout.MemTile, bool) {
	c, ok := d.Client(w)
	root := d.RootTile()
	if !ok || root == nil {
		return nil, false
	}
	for _, leaf := range root.Leaves() {
		if leaf.Client() == c {
			return leaf, true
		}
	}
	return nil, false
}

// BuildLayout rebuilds the tile tree for the given output rectangle and
// returns one placement per tiled window.
func (d *TilingDriver) BuildLayout(geometry layout.Rect) []Placement {
	d.engine.BuildLayout()
	root := d.RootTile()
	if root == nil {
		return nil
	}
	root.SetGeometry(geometry)

	var out []Placement
	for _, leaf := range root.Leaves() {
		c := leaf.Client()
		if c == nil {
			continue
		}
		w, ok := d.windows[c]
		if !ok {
			continue
		}
		out = append(out, Placement{Window: w, Rect: leaf.AbsoluteGeometry()})
	}
	return out
}

// RegenerateLayout copies live tile sizes back into the engine.
func (d *TilingDriver) RegenerateLayout() {
	d.engine.RegenerateLayout()
}

// SwapHalves syncs the live tile sizes and then swaps the two halves of the
// layout. It reports false when fewer than two windows are tiled.
func (d *TilingDriver) SwapHalves() bool {
	d.engine.RegenerateLayout()
	return d.engine.SwapHalves()
}
