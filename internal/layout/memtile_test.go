package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitRoot(dir LayoutDirection, ratio float64) *MemTile {
	root := NewMemTile()
	root.SetGeometry(Rect{X: 0, Y: 0, Width: 1000, Height: 600})
	root.SetLayoutDirection(dir)
	root.Split()
	root.Children()[0].SetRelativeSize(ratio)
	root.Children()[1].SetRelativeSize(1 - ratio)
	return root
}

func TestMemTileGeometry(t *testing.T) {
	root := splitRoot(Horizontal, 0.3)
	left, right := root.Children()[0], root.Children()[1]

	assert.Equal(t, Rect{X: 0, Y: 0, Width: 300, Height: 600}, left.AbsoluteGeometry())
	assert.Equal(t, Rect{X: 300, Y: 0, Width: 700, Height: 600}, right.AbsoluteGeometry())

	right.SetLayoutDirection(Vertical)
	right.Split()
	top, bottom := right.Children()[0], right.Children()[1]
	assert.Equal(t, Rect{X: 300, Y: 0, Width: 700, Height: 300}, top.AbsoluteGeometry())
	assert.Equal(t, Rect{X: 300, Y: 300, Width: 700, Height: 300}, bottom.AbsoluteGeometry())

	assert.Equal(t, []*MemTile{left, top, bottom}, root.Leaves())
}

func TestMemTileSplitInheritsAxis(t *testing.T) {
	root := NewMemTile()
	root.SetLayoutDirection(Vertical)
	root.Split()
	root.Split()

	require.Len(t, root.Tiles(), 2)
	for _, c := range root.Children() {
		assert.Equal(t, Vertical, c.LayoutDirection())
		assert.Same(t, root, c.Parent())
	}
	assert.Nil(t, root.Parent())
}

func TestMemTileBestTileForPosition(t *testing.T) {
	root := splitRoot(Horizontal, 0.5)
	left, right := root.Children()[0], root.Children()[1]

	assert.Same(t, left, root.BestTileForPosition(10, 10))
	assert.Same(t, right, root.BestTileForPosition(500, 599))
	assert.Nil(t, root.BestTileForPosition(1000, 10))
	assert.Nil(t, root.BestTileForPosition(-1, 10))
}

func TestMemTileResizeByPixels(t *testing.T) {
	tests := []struct {
		name  string
		dir   LayoutDirection
		index int
		delta int
		edge  Edge
		want  float64
		moved bool
	}{
		{name: "grow first to the right", dir: Horizontal, index: 0, delta: 100, edge: RightEdge, want: 0.6, moved: true},
		{name: "move second's left edge", dir: Horizontal, index: 1, delta: -100, edge: LeftEdge, want: 0.4, moved: true},
		{name: "outer edge is ignored", dir: Horizontal, index: 0, delta: 100, edge: LeftEdge, want: 0.5},
		{name: "wrong axis is ignored", dir: Horizontal, index: 0, delta: 60, edge: BottomEdge, want: 0.5},
		{name: "vertical bottom edge", dir: Vertical, index: 0, delta: -60, edge: BottomEdge, want: 0.4, moved: true},
		{name: "clamped", dir: Horizontal, index: 0, delta: 5000, edge: RightEdge, want: maxResizeRatio, moved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := splitRoot(tt.dir, 0.5)
			moved := root.Children()[tt.index].ResizeByPixels(tt.delta, tt.edge)
			assert.Equal(t, tt.moved, moved)
			assert.InDelta(t, tt.want, root.Children()[0].RelativeSize(), 1e-9)
			assert.InDelta(t, 1.0, root.Children()[0].RelativeSize()+root.Children()[1].RelativeSize(), 1e-9)
		})
	}
}

func TestMemTileResizeBubblesToAncestor(t *testing.T) {
	root := splitRoot(Horizontal, 0.5)
	right := root.Children()[1]
	right.SetLayoutDirection(Vertical)
	right.Split()
	top := right.Children()[0]

	// the left edge of the top-right tile belongs to the root split
	require.True(t, top.ResizeByPixels(-100, LeftEdge))
	assert.InDelta(t, 0.4, root.Children()[0].RelativeSize(), 1e-9)
	assert.InDelta(t, 0.5, top.RelativeSize(), 1e-9)
}

func TestMemTileOnModified(t *testing.T) {
	root := NewMemTile()
	calls := 0
	root.SetOnModified(func() { calls++ })

	root.Split()
	child := root.Children()[0]
	child.SetRelativeSize(0.2)
	child.SetRelativeSize(0.2)
	child.SetClient(NewClient("a", Size{}))

	assert.Equal(t, 2, calls)
}

func TestMemTileRemove(t *testing.T) {
	root := splitRoot(Horizontal, 0.25)
	first := root.Children()[0]

	first.Remove()

	require.Len(t, root.Children(), 1)
	assert.InDelta(t, 1.0, root.Children()[0].RelativeSize(), 1e-9)
	assert.Nil(t, first.Parent())
}
