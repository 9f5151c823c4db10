package layout

// Tile is one region of the caller's geometric hierarchy. The engine creates
// a fresh root on every build and shapes it through this interface only.
type Tile interface {
	Parent() Tile
	// Tiles returns the ordered children. Split always yields two.
	Tiles() []Tile
	LayoutDirection() LayoutDirection
	SetLayoutDirection(LayoutDirection)
	// RelativeSize is the tile's share of its parent along the parent's axis.
	RelativeSize() float64
	SetRelativeSize(float64)
	Client() *Client
	SetClient(*Client)
	Split()
	// Remove detaches the tile and its subtree from its parent.
	Remove()
}

// TileFactory produces root tiles for BuildLayout.
type TileFactory func() Tile
