package layout

import "math"

const (
	minResizeRatio = 0.05
	maxResizeRatio = 0.95
)

// MemTile is the in-memory Tile used by the driver layer. Only the root
// carries an explicit geometry; every other rectangle is derived from the
// relative sizes along each parent's axis.
type MemTile struct {
	parent       *MemTile
	tiles        []*MemTile
	direction    LayoutDirection
	relativeSize float64
	client       *Client

	geometry   Rect
	onModified func()
}

var _ Tile = (*MemTile)(nil)

// NewMemTile returns a childless horizontal root tile.
func NewMemTile() *MemTile {
	return &MemTile{
		direction:    Horizontal,
		relativeSize: 1,
	}
}

// NewMemTileFactory returns a TileFactory producing MemTile roots.
func NewMemTileFactory() TileFactory {
	return func() Tile { return NewMemTile() }
}

func (t *MemTile) Parent() Tile {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

func (t *MemTile) Tiles() []Tile {
	out := make([]Tile, len(t.tiles))
	for i, c := range t.tiles {
		out[i] = c
	}
	return out
}

// Children returns the concrete children.
func (t *MemTile) Children() []*MemTile {
	return t.tiles
}

func (t *MemTile) LayoutDirection() LayoutDirection { return t.direction }

func (t *MemTile) SetLayoutDirection(d LayoutDirection) {
	if t.direction == d {
		return
	}
	t.direction = d
	t.modified()
}

func (t *MemTile) RelativeSize() float64 { return t.relativeSize }

func (t *MemTile) SetRelativeSize(size float64) {
	if t.relativeSize == size {
		return
	}
	t.relativeSize = size
	t.modified()
}

func (t *MemTile) Client() *Client { return t.client }

func (t *MemTile) SetClient(c *Client) { t.client = c }

// Split gives a childless tile two halves that inherit its axis.
func (t *MemTile) Split() {
	if len(t.tiles) > 0 {
		return
	}
	for range 2 {
		t.tiles = append(t.tiles, &MemTile{
			parent:       t,
			direction:    t.direction,
			relativeSize: 0.5,
		})
	}
	t.modified()
}

// Remove detaches t from its parent. Remaining siblings are rescaled so
// their sizes still sum to one.
func (t *MemTile) Remove() {
	p := t.parent
	if p == nil {
		t.tiles = nil
		t.client = nil
		return
	}
	for i, c := range p.tiles {
		if c == t {
			p.tiles = append(p.tiles[:i], p.tiles[i+1:]...)
			break
		}
	}
	t.parent = nil

	var total float64
	for _, c := range p.tiles {
		total += c.relativeSize
	}
	if total > 0 {
		for _, c := range p.tiles {
			c.relativeSize /= total
		}
	}
	p.modified()
}

// SetGeometry sets the rectangle of a root tile.
func (t *MemTile) SetGeometry(r Rect) {
	t.geometry = r
}

// SetOnModified installs a hook called whenever the tile tree under this
// root changes shape or proportions.
func (t *MemTile) SetOnModified(fn func()) {
	t.onModified = fn
}

func (t *MemTile) root() *MemTile {
	r := t
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (t *MemTile) modified() {
	if fn := t.root().onModified; fn != nil {
		fn()
	}
}

func (t *MemTile) index() int {
	if t.parent == nil {
		return -1
	}
	for i, c := range t.parent.tiles {
		if c == t {
			return i
		}
	}
	return -1
}

// AbsoluteGeometry returns the tile's rectangle in output coordinates.
// Boundaries are rounded from the cumulative ratios so neighbouring tiles
// share edges exactly.
func (t *MemTile) AbsoluteGeometry() Rect {
	p := t.parent
	if p == nil {
		return t.geometry
	}
	pr := p.AbsoluteGeometry()

	var before float64
	for _, c := range p.tiles {
		if c == t {
			break
		}
		before += c.relativeSize
	}
	after := before + t.relativeSize
	last := t.index() == len(p.tiles)-1

	if p.direction == Vertical {
		start := int(math.Round(before * float64(pr.Height)))
		end := int(math.Round(after * float64(pr.Height)))
		if last {
			end = pr.Height
		}
		return Rect{X: pr.X, Y: pr.Y + start, Width: pr.Width, Height: end - start}
	}
	start := int(math.Round(before * float64(pr.Width)))
	end := int(math.Round(after * float64(pr.Width)))
	if last {
		end = pr.Width
	}
	return Rect{X: pr.X + start, Y: pr.Y, Width: end - start, Height: pr.Height}
}

// Leaves returns the childless tiles under t, left to right.
func (t *MemTile) Leaves() []*MemTile {
	if len(t.tiles) == 0 {
		return []*MemTile{t}
	}
	var out []*MemTile
	for _, c := range t.tiles {
		out = append(out, c.Leaves()...)
	}
	return out
}

// BestTileForPosition returns the deepest tile containing the point, or nil
// when the point is outside t.
func (t *MemTile) BestTileForPosition(x, y int) *MemTile {
	if !t.AbsoluteGeometry().Contains(x, y) {
		return nil
	}
	for _, c := range t.tiles {
		if found := c.BestTileForPosition(x, y); found != nil {
			return found
		}
	}
	return t
}

// ResizeByPixels moves the given edge of the tile by delta pixels (negative
// is up or left). Outer edges bubble up to the nearest ancestor whose split
// owns that edge. It reports whether anything moved.
func (t *MemTile) ResizeByPixels(delta int, edge Edge) bool {
	axis := Horizontal
	if edge == TopEdge || edge == BottomEdge {
		axis = Vertical
	}
	shared := 0
	if edge == LeftEdge || edge == TopEdge {
		shared = 1
	}

	for cur := t; cur.parent != nil; cur = cur.parent {
		p := cur.parent
		if p.direction != axis || len(p.tiles) != 2 || cur.index() != shared {
			continue
		}
		pr := p.AbsoluteGeometry()
		extent := pr.Width
		if axis == Vertical {
			extent = pr.Height
		}
		if extent <= 0 {
			return false
		}
		ratio := p.tiles[0].relativeSize + float64(delta)/float64(extent)
		ratio = max(minResizeRatio, min(maxResizeRatio, ratio))
		p.tiles[0].relativeSize = ratio
		p.tiles[1].relativeSize = 1 - ratio
		p.modified()
		return true
	}
	return false
}
