package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTile is a minimal Tile that only records what the engine asks of it.
type fakeTile struct {
	parent    *fakeTile
	children  []*fakeTile
	direction LayoutDirection
	size      float64
	client    *Client
	splits    int
}

func newFakeTile() Tile { return &fakeTile{size: 1} }

func (f *fakeTile) Parent() Tile {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func (f *fakeTile) Tiles() []Tile {
	out := make([]Tile, len(f.children))
	for i, c := range f.children {
		out[i] = c
	}
	return out
}

func (f *fakeTile) LayoutDirection() LayoutDirection     { return f.direction }
func (f *fakeTile) SetLayoutDirection(d LayoutDirection) { f.direction = d }
func (f *fakeTile) RelativeSize() float64                { return f.size }
func (f *fakeTile) SetRelativeSize(s float64)            { f.size = s }
func (f *fakeTile) Client() *Client                      { return f.client }
func (f *fakeTile) SetClient(c *Client)                  { f.client = c }

func (f *fakeTile) Split() {
	f.splits++
	if len(f.children) > 0 {
		return
	}
	f.children = []*fakeTile{{parent: f}, {parent: f}}
}

func (f *fakeTile) Remove() {}

func newClients(names ...string) []*Client {
	out := make([]*Client, len(names))
	for i, n := range names {
		out[i] = NewClient(n, Size{})
	}
	return out
}

func rightEngine() *Engine {
	cfg := DefaultEngineConfig()
	cfg.InsertionPoint = InsertRight
	return NewEngine(cfg)
}

func memRoot(t *testing.T, e *Engine) *MemTile {
	t.Helper()
	root, ok := e.RootTile().(*MemTile)
	require.True(t, ok, "expected a MemTile root")
	return root
}

func TestInsertionSpiralRight(t *testing.T) {
	e := rightEngine()
	c := newClients("c1", "c2", "c3")

	e.AddClient(c[0])
	snap := e.Snapshot()
	assert.Same(t, c[0], snap.Client)
	assert.True(t, snap.IsLeaf())

	e.AddClient(c[1])
	e.AddClient(c[2])

	assert.Equal(t, c, e.AllClients())
	snap = e.Snapshot()
	require.Len(t, snap.Children, 2)
	assert.Same(t, c[0], snap.Children[0].Client)
	inner := snap.Children[1]
	require.Len(t, inner.Children, 2)
	assert.Same(t, c[1], inner.Children[0].Client)
	assert.Same(t, c[2], inner.Children[1].Client)
	require.NoError(t, e.Validate())
}

func TestInsertionSpiralLeft(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	c := newClients("c1", "c2", "c3")
	for _, cl := range c {
		e.AddClient(cl)
	}

	snap := e.Snapshot()
	require.Len(t, snap.Children, 2)
	assert.Same(t, c[0], snap.Children[1].Client)
	inner := snap.Children[0]
	require.Len(t, inner.Children, 2)
	assert.Same(t, c[2], inner.Children[0].Client)
	assert.Same(t, c[1], inner.Children[1].Client)

	assert.Equal(t, []*Client{c[0], c[2], c[1]}, e.AllClients())
}

func TestRemoveClientPromotion(t *testing.T) {
	t.Run("sibling subtree rises", func(t *testing.T) {
		e := rightEngine()
		c := newClients("c1", "c2", "c3")
		for _, cl := range c {
			e.AddClient(cl)
		}

		e.RemoveClient(c[0])

		snap := e.Snapshot()
		require.Len(t, snap.Children, 2)
		assert.Same(t, c[1], snap.Children[0].Client)
		assert.Same(t, c[2], snap.Children[1].Client)
		require.NoError(t, e.Validate())
	})

	t.Run("leaf sibling merges into parent", func(t *testing.T) {
		e := rightEngine()
		c := newClients("c1", "c2", "c3")
		for _, cl := range c {
			e.AddClient(cl)
		}

		e.RemoveClient(c[2])

		snap := e.Snapshot()
		require.Len(t, snap.Children, 2)
		assert.Same(t, c[0], snap.Children[0].Client)
		assert.Same(t, c[1], snap.Children[1].Client)
		assert.True(t, snap.Children[1].IsLeaf())
		assert.Equal(t, defaultRatio, snap.Children[1].SizeRatio)
		require.NoError(t, e.Validate())
	})

	t.Run("last client empties the root", func(t *testing.T) {
		e := rightEngine()
		c := newClients("solo")
		e.AddClient(c[0])
		e.RemoveClient(c[0])

		assert.Empty(t, e.AllClients())
		assert.Equal(t, 0, e.Len())

		e.AddClient(c[0])
		assert.Equal(t, c, e.AllClients())
	})

	t.Run("unknown client is ignored", func(t *testing.T) {
		e := rightEngine()
		c := newClients("c1", "c2")
		e.AddClient(c[0])
		e.RemoveClient(c[1])
		assert.Equal(t, c[:1], e.AllClients())
	})
}

func TestBuildLayoutRatiosSumToOne(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.InsertionPoint = InsertRight
	cfg.DefaultSplitRatio = 0.6
	e := NewEngine(cfg, WithTileFactory(newFakeTile))
	for _, cl := range newClients("a", "b", "c", "d", "e") {
		e.AddClient(cl)
	}

	e.BuildLayout()

	var check func(tile Tile)
	check = func(tile Tile) {
		tiles := tile.Tiles()
		if len(tiles) == 0 {
			assert.NotNil(t, tile.Client(), "every leaf tile should carry a client")
			return
		}
		require.Len(t, tiles, 2)
		assert.InDelta(t, 1.0, tiles[0].RelativeSize()+tiles[1].RelativeSize(), 1e-9)
		assert.InDelta(t, 0.6, tiles[0].RelativeSize(), 1e-9)
		check(tiles[0])
		check(tiles[1])
	}
	check(e.RootTile())

	root := e.RootTile().(*fakeTile)
	assert.Equal(t, 1, root.splits)
}

func TestBuildLayoutDwindleAlternates(t *testing.T) {
	e := rightEngine()
	for _, cl := range newClients("a", "b", "c", "d") {
		e.AddClient(cl)
	}
	e.BuildLayout()

	root := memRoot(t, e)
	assert.Equal(t, Horizontal, root.LayoutDirection())
	d1 := root.Children()[1]
	assert.Equal(t, Vertical, d1.LayoutDirection())
	d2 := d1.Children()[1]
	assert.Equal(t, Horizontal, d2.LayoutDirection())

	snap := e.Snapshot()
	assert.Equal(t, Horizontal, snap.SplitDirection)
	assert.Equal(t, Vertical, snap.Children[1].SplitDirection)
}

func TestBuildLayoutRotateAndForce(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func(*EngineConfig)
		depth []LayoutDirection
	}{
		{
			name:  "rotated base axis",
			cfg:   func(c *EngineConfig) { c.RotateLayout = true },
			depth: []LayoutDirection{Vertical, Horizontal, Vertical},
		},
		{
			name:  "forced left top",
			cfg:   func(c *EngineConfig) { c.ForceSplit = ForceSplitLeftTop },
			depth: []LayoutDirection{Vertical, Vertical, Vertical},
		},
		{
			name: "forced right bottom beats rotation",
			cfg: func(c *EngineConfig) {
				c.RotateLayout = true
				c.ForceSplit = ForceSplitRightBottom
			},
			depth: []LayoutDirection{Horizontal, Horizontal, Horizontal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			cfg.InsertionPoint = InsertRight
			tt.cfg(&cfg)
			e := NewEngine(cfg)
			for _, cl := range newClients("a", "b", "c", "d") {
				e.AddClient(cl)
			}
			e.BuildLayout()

			tile := memRoot(t, e)
			for depth, want := range tt.depth {
				assert.Equal(t, want, tile.LayoutDirection(), "depth %d", depth)
				tile = tile.Children()[1]
			}
		})
	}
}

func TestPreserveSplitKeepsToggledAxis(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.InsertionPoint = InsertRight
	cfg.PreserveSplit = true
	e := NewEngine(cfg)
	c := newClients("a", "b")
	e.AddClient(c[0])
	e.AddClient(c[1])
	e.BuildLayout()
	require.Equal(t, Horizontal, memRoot(t, e).LayoutDirection())

	require.True(t, e.ToggleSplit(c[1]))
	e.BuildLayout()
	assert.Equal(t, Vertical, memRoot(t, e).LayoutDirection())

	// without preservation the depth policy wins again
	cfg.PreserveSplit = false
	e.SetConfig(cfg)
	e.BuildLayout()
	assert.Equal(t, Horizontal, memRoot(t, e).LayoutDirection())
}

func TestToggleSplit(t *testing.T) {
	e := rightEngine()
	c := newClients("a", "b")

	assert.False(t, e.ToggleSplit(c[0]), "unknown client")
	e.AddClient(c[0])
	assert.False(t, e.ToggleSplit(c[0]), "root client has no parent split")

	e.AddClient(c[1])
	require.True(t, e.ToggleSplit(c[0]))
	assert.Equal(t, Vertical, e.Snapshot().SplitDirection, "unset counts as horizontal")
	require.True(t, e.ToggleSplit(c[1]))
	assert.Equal(t, Horizontal, e.Snapshot().SplitDirection)
}

func TestRegenerateRoundTrip(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.InsertionPoint = InsertRight
	cfg.DefaultSplitRatio = 0.7
	e := NewEngine(cfg)
	for _, cl := range newClients("a", "b", "c") {
		e.AddClient(cl)
	}

	e.BuildLayout()
	e.RegenerateLayout()

	snap := e.Snapshot()
	assert.InDelta(t, 0.7, snap.SizeRatio, 1e-9)
	assert.InDelta(t, 0.7, snap.Children[1].SizeRatio, 1e-9)

	// a rebuild with no outside change reproduces the same sizes
	e.BuildLayout()
	root := memRoot(t, e)
	assert.InDelta(t, 0.7, root.Children()[0].RelativeSize(), 1e-9)
}

func TestRegenerateCapturesUserResize(t *testing.T) {
	e := rightEngine()
	for _, cl := range newClients("a", "b") {
		e.AddClient(cl)
	}
	e.BuildLayout()

	root := memRoot(t, e)
	root.Children()[0].SetRelativeSize(0.25)
	root.Children()[1].SetRelativeSize(0.75)
	e.RegenerateLayout()
	assert.Equal(t, 0.25, e.Snapshot().SizeRatio)

	e.BuildLayout()
	assert.Equal(t, 0.25, memRoot(t, e).Children()[0].RelativeSize())
}

func TestRegenerateSkipsStaleNodes(t *testing.T) {
	e := rightEngine()
	c := newClients("a", "b", "c")
	for _, cl := range c {
		e.AddClient(cl)
	}
	e.BuildLayout()
	e.RemoveClient(c[2])
	e.AddClient(c[2])

	assert.NotPanics(t, e.RegenerateLayout)
	require.NoError(t, e.Validate())
}

func TestSwapHalves(t *testing.T) {
	e := rightEngine()
	c := newClients("a", "b", "c")

	assert.False(t, e.SwapHalves(), "empty tree")
	e.AddClient(c[0])
	assert.False(t, e.SwapHalves(), "single client")
	assert.Same(t, c[0], e.Snapshot().Client)

	e.AddClient(c[1])
	e.AddClient(c[2])
	e.BuildLayout()
	root := memRoot(t, e)
	root.Children()[0].SetRelativeSize(0.25)
	e.RegenerateLayout()

	before := e.Snapshot()
	require.True(t, e.SwapHalves())
	swapped := e.Snapshot()
	assert.Same(t, c[0], swapped.Children[1].Client)
	assert.Len(t, swapped.Children[0].Children, 2)
	assert.Equal(t, 0.75, swapped.SizeRatio)
	require.NoError(t, e.Validate())

	require.True(t, e.SwapHalves())
	assert.Equal(t, before, e.Snapshot())
}

func TestSwapClients(t *testing.T) {
	e := rightEngine()
	c := newClients("a", "b", "c")
	for _, cl := range c {
		e.AddClient(cl)
	}
	stranger := NewClient("stranger", Size{})

	assert.False(t, e.SwapClients(c[0], stranger))
	assert.Equal(t, c, e.AllClients())

	require.True(t, e.SwapClients(c[0], c[2]))
	assert.Equal(t, []*Client{c[2], c[1], c[0]}, e.AllClients())
	assert.Len(t, e.Snapshot().Children[1].Children, 2, "shape is untouched")
}

func TestSiblingClient(t *testing.T) {
	e := rightEngine()
	c := newClients("a", "b", "c")
	for _, cl := range c {
		e.AddClient(cl)
	}

	_, ok := e.SiblingClient(c[0])
	assert.False(t, ok, "sibling is an internal node")

	got, ok := e.SiblingClient(c[1])
	require.True(t, ok)
	assert.Same(t, c[2], got)

	got, ok = e.SiblingClient(c[2])
	require.True(t, ok)
	assert.Same(t, c[1], got)

	_, ok = e.SiblingClient(NewClient("x", Size{}))
	assert.False(t, ok)
}

func TestPutClientInTile(t *testing.T) {
	setup := func(rotate bool) (*Engine, []*Client) {
		cfg := DefaultEngineConfig()
		cfg.InsertionPoint = InsertRight
		cfg.RotateLayout = rotate
		e := NewEngine(cfg)
		c := newClients("a", "b", "new")
		e.AddClient(c[0])
		e.AddClient(c[1])
		e.BuildLayout()
		return e, c
	}

	tests := []struct {
		name      string
		rotate    bool
		dir       Direction
		wantFirst bool
	}{
		{name: "horizontal right hint", dir: DirRight, wantFirst: false},
		{name: "horizontal no hint", dir: DirNone, wantFirst: true},
		{name: "horizontal up hint falls through", dir: DirUp | DirVertical, wantFirst: true},
		{name: "vertical up hint", rotate: true, dir: DirUp | DirVertical, wantFirst: true},
		{name: "vertical down hint", rotate: true, dir: DirVertical, wantFirst: false},
		{name: "vertical right hint", rotate: true, dir: DirRight, wantFirst: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, c := setup(tt.rotate)
			target := memRoot(t, e).Children()[1]
			require.Same(t, c[1], target.Client())

			e.PutClientInTile(c[2], target, tt.dir)

			split := e.Snapshot().Children[1]
			require.Len(t, split.Children, 2)
			if tt.wantFirst {
				assert.Same(t, c[2], split.Children[0].Client)
				assert.Same(t, c[1], split.Children[1].Client)
			} else {
				assert.Same(t, c[1], split.Children[0].Client)
				assert.Same(t, c[2], split.Children[1].Client)
			}
			require.NoError(t, e.Validate())
		})
	}
}

func TestPutClientInTileFallbacks(t *testing.T) {
	t.Run("empty layout places into the root", func(t *testing.T) {
		e := rightEngine()
		e.BuildLayout()
		c := NewClient("a", Size{})
		e.PutClientInTile(c, e.RootTile(), DirNone)
		assert.Same(t, c, e.Snapshot().Client)
	})

	t.Run("unknown tile falls back to insertion", func(t *testing.T) {
		e := rightEngine()
		c := newClients("a", "b")
		e.AddClient(c[0])
		e.BuildLayout()
		e.PutClientInTile(c[1], NewMemTile(), DirNone)
		assert.Equal(t, c, e.AllClients())
	})

	t.Run("no build yet", func(t *testing.T) {
		e := rightEngine()
		c := NewClient("a", Size{})
		e.PutClientInTile(c, NewMemTile(), DirRight)
		assert.Equal(t, []*Client{c}, e.AllClients())
	})

	t.Run("stale tile after removal", func(t *testing.T) {
		e := rightEngine()
		c := newClients("a", "b", "c")
		e.AddClient(c[0])
		e.AddClient(c[1])
		e.BuildLayout()
		stale := memRoot(t, e).Children()[1]
		e.RemoveClient(c[1])

		e.PutClientInTile(c[2], stale, DirNone)
		assert.Equal(t, []*Client{c[0], c[2]}, e.AllClients())
		require.NoError(t, e.Validate())
	})

	t.Run("internal tile falls back to insertion", func(t *testing.T) {
		e := rightEngine()
		c := newClients("a", "b", "c")
		e.AddClient(c[0])
		e.AddClient(c[1])
		e.BuildLayout()

		e.PutClientInTile(c[2], e.RootTile(), DirNone)
		assert.Equal(t, c, e.AllClients())
		require.NoError(t, e.Validate())
	})
}

func TestAllClientsStable(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())
	for _, cl := range newClients("a", "b", "c", "d", "e", "f") {
		e.AddClient(cl)
	}
	first := e.AllClients()
	for range 5 {
		assert.Equal(t, first, e.AllClients())
	}
	assert.Equal(t, 6, e.Len())
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	cfg := DefaultEngineConfig()
	e := NewEngine(cfg)
	var placed []*Client

	for step := range 500 {
		switch op := rng.IntN(8); {
		case op <= 2 || len(placed) == 0:
			cfg.InsertionPoint = InsertionPoint(rng.IntN(2))
			e.SetConfig(cfg)
			c := NewClient("c", Size{})
			e.AddClient(c)
			placed = append(placed, c)
		case op == 3:
			i := rng.IntN(len(placed))
			e.RemoveClient(placed[i])
			placed = append(placed[:i], placed[i+1:]...)
		case op == 4:
			e.SwapClients(placed[rng.IntN(len(placed))], placed[rng.IntN(len(placed))])
		case op == 5:
			e.ToggleSplit(placed[rng.IntN(len(placed))])
			e.SwapHalves()
		case op == 6:
			e.BuildLayout()
			e.RegenerateLayout()
		default:
			e.BuildLayout()
			leaves := memRoot(t, e).Leaves()
			c := NewClient("p", Size{})
			e.PutClientInTile(c, leaves[rng.IntN(len(leaves))], Direction(rng.IntN(8)))
			placed = append(placed, c)
		}

		require.NoError(t, e.Validate(), "step %d", step)
		require.ElementsMatch(t, placed, e.AllClients(), "step %d", step)
	}
}
