package layout

// LayoutDirection is the axis along which a tile divides its space between
// its children.
type LayoutDirection uint8

const (
	// DirectionUnset means no split axis has been recorded yet.
	DirectionUnset LayoutDirection = iota
	// Horizontal places children side by side.
	Horizontal
	// Vertical stacks children on top of each other.
	Vertical
)

// String returns the lowercase name of the axis.
func (d LayoutDirection) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unset"
	}
}

// Other returns the perpendicular axis. An unset axis is treated as
// horizontal.
func (d LayoutDirection) Other() LayoutDirection {
	if d == Vertical {
		return Horizontal
	}
	return Vertical
}

// Direction is a bit set hint telling PutClientInTile which side of a split
// should receive the new client.
type Direction uint8

const (
	DirNone     Direction = 0
	DirUp       Direction = 1 << 0
	DirRight    Direction = 1 << 1
	DirVertical Direction = 1 << 2
)

// Has reports whether all bits of flag are set.
func (d Direction) Has(flag Direction) bool {
	return d&flag == flag
}

// Edge identifies one side of a tile.
type Edge uint8

const (
	LeftEdge Edge = iota
	TopEdge
	RightEdge
	BottomEdge
)
