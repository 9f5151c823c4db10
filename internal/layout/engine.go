package layout

// Engine owns one partition tree. One engine serves one layout context (an
// output, desktop and activity combination). It is not safe for concurrent
// use; callers serialise access.
type Engine struct {
	config  EngineConfig
	tree    *tree
	newTile TileFactory

	rootTile Tile
	// node<->tile bijection from the last BuildLayout
	nodeToTile map[nodeRef]Tile
	tileToNode map[Tile]nodeRef
}

// Option configures an Engine.
type Option func(*Engine)

// WithTileFactory sets the factory BuildLayout uses for fresh root tiles.
func WithTileFactory(f TileFactory) Option {
	return func(e *Engine) {
		e.newTile = f
	}
}

// NewEngine returns an engine with an empty root.
func NewEngine(cfg EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		config:     cfg,
		tree:       newTree(),
		newTile:    NewMemTileFactory(),
		nodeToTile: make(map[nodeRef]Tile),
		tileToNode: make(map[Tile]nodeRef),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's policy.
func (e *Engine) Config() EngineConfig { return e.config }

// SetConfig replaces the policy. It takes effect on the next insert or build.
func (e *Engine) SetConfig(cfg EngineConfig) { e.config = cfg }

// RootTile returns the root produced by the last BuildLayout, or nil.
func (e *Engine) RootTile() Tile { return e.rootTile }

// Len returns the number of placed clients.
func (e *Engine) Len() int {
	return len(e.tree.collectNodes(func(n *node) bool { return n.client != nil }))
}

// BuildLayout projects the tree onto a fresh tile hierarchy.
func (e *Engine) BuildLayout() {
	baseDir := e.config.baseDirection()
	root := e.newTile()
	root.SetLayoutDirection(baseDir)
	e.rootTile = root

	e.nodeToTile = make(map[nodeRef]Tile)
	e.tileToNode = make(map[Tile]nodeRef)
	e.bind(e.tree.root, root)

	splits := 0
	e.tree.walk(func(ref nodeRef, n *node, depth int) bool {
		tile := e.nodeToTile[ref]
		if n.client != nil {
			tile.SetClient(n.client)
		}
		if !n.hasChildren() {
			return true
		}

		var dir LayoutDirection
		switch {
		case e.config.PreserveSplit && n.splitDirection != DirectionUnset:
			dir = n.splitDirection
		case e.config.ForceSplit != ForceSplitDisabled:
			dir = e.config.ForceSplit.direction()
		case depth%2 == 0:
			dir = baseDir
		default:
			dir = baseDir.Other()
		}
		n.splitDirection = dir

		tile.SetLayoutDirection(dir)
		tile.Split()
		tiles := tile.Tiles()
		e.bind(n.children[0], tiles[0])
		e.bind(n.children[1], tiles[1])

		ratio := e.config.splitRatio()
		if n.sizeRatio != defaultRatio {
			ratio = n.sizeRatio
		}
		tiles[0].SetRelativeSize(ratio)
		tiles[1].SetRelativeSize(1 - ratio)
		splits++
		return true
	})
	logger.Debug("built layout", "splits", splits, "base", baseDir)
}

func (e *Engine) bind(ref nodeRef, tile Tile) {
	e.nodeToTile[ref] = tile
	e.tileToNode[tile] = ref
}

// AddClient inserts c by descending the configured side of the tree and
// splitting the leaf it lands on.
func (e *Engine) AddClient(c *Client) {
	left := e.config.InsertionPoint == InsertLeft
	ref := e.tree.root
	n := e.tree.get(ref)
	for n.hasChildren() {
		if left {
			ref = n.children[0]
		} else {
			ref = n.children[1]
		}
		n = e.tree.get(ref)
	}

	if n.client == nil {
		n.client = c
		logger.Debug("placed client in empty root", "client", c)
		return
	}
	e.splitLeaf(ref, c, left)
	logger.Debug("inserted client", "client", c, "side", e.config.InsertionPoint)
}

// splitLeaf splits a client leaf and puts c in the first child when first is
// set, moving the displaced client to the other child.
func (e *Engine) splitLeaf(ref nodeRef, c *Client, first bool) {
	e.tree.split(ref)
	n := e.tree.get(ref)
	a, b := e.tree.get(n.children[0]), e.tree.get(n.children[1])
	if first {
		a.client, b.client = c, n.client
	} else {
		a.client, b.client = n.client, c
	}
	n.client = nil
}

// RemoveClient removes the node holding c. Unknown clients are ignored.
func (e *Engine) RemoveClient(c *Client) {
	ref, ok := e.tree.findClient(c)
	if !ok {
		return
	}
	e.tree.remove(ref)
	logger.Debug("removed client", "client", c)
}

// PutClientInTile places c in the node that produced tile during the last
// build, splitting it if it is occupied. Tiles unknown to the last build fall
// back to AddClient.
func (e *Engine) PutClientInTile(c *Client, tile Tile, dir Direction) {
	ref, ok := e.tileToNode[tile]
	var n *node
	if ok {
		n = e.tree.get(ref)
	}
	if n == nil || n.hasChildren() {
		e.AddClient(c)
		return
	}
	if n.client == nil {
		n.client = c
		return
	}

	var first bool
	if tile.LayoutDirection() == Vertical {
		first = dir.Has(DirUp)
	} else {
		first = !dir.Has(DirRight)
	}
	e.splitLeaf(ref, c, first)
	logger.Debug("put client in tile", "client", c, "first", first)
}

// RegenerateLayout pulls the live proportions of the last build's tiles back
// into the tree.
func (e *Engine) RegenerateLayout() {
	for ref, tile := range e.nodeToTile {
		n := e.tree.get(ref)
		if n == nil {
			continue
		}
		if tiles := tile.Tiles(); len(tiles) == 2 {
			n.sizeRatio = tiles[0].RelativeSize()
		}
	}
}

// SwapHalves exchanges the root's two subtrees, keeping each half's on-screen
// size. It fails when fewer than two clients are placed.
func (e *Engine) SwapHalves() bool {
	if !e.tree.swapChildren(e.tree.root) {
		return false
	}
	root := e.tree.get(e.tree.root)
	root.sizeRatio = 1 - root.sizeRatio
	return true
}

// SwapClients exchanges the nodes holding a and b. The tree shape is kept.
func (e *Engine) SwapClients(a, b *Client) bool {
	ra, okA := e.tree.findClient(a)
	rb, okB := e.tree.findClient(b)
	if !okA || !okB {
		return false
	}
	na, nb := e.tree.get(ra), e.tree.get(rb)
	na.client, nb.client = nb.client, na.client
	return true
}

// SiblingClient returns the client held by the sibling of c's node.
func (e *Engine) SiblingClient(c *Client) (*Client, bool) {
	if c == nil {
		return nil, false
	}
	ref, ok := e.tree.findNode(func(n *node) bool {
		if n.client != c {
			return false
		}
		s := e.tree.get(n.sibling)
		return s != nil && s.client != nil
	})
	if !ok {
		return nil, false
	}
	return e.tree.get(e.tree.get(ref).sibling).client, true
}

// ToggleSplit flips the recorded axis of the split containing c. The change
// only shows on the next build, and only survives it with PreserveSplit.
func (e *Engine) ToggleSplit(c *Client) bool {
	if c == nil {
		return false
	}
	ref, ok := e.tree.findNode(func(n *node) bool {
		return n.client == c && e.tree.get(n.parent) != nil
	})
	if !ok {
		return false
	}
	p := e.tree.get(e.tree.get(ref).parent)
	if p.splitDirection == DirectionUnset {
		p.splitDirection = Horizontal
	}
	p.splitDirection = p.splitDirection.Other()
	return true
}

// AllClients returns every placed client in breadth first order.
func (e *Engine) AllClients() []*Client {
	refs := e.tree.collectNodes(func(n *node) bool { return n.client != nil })
	out := make([]*Client, len(refs))
	for i, ref := range refs {
		out[i] = e.tree.get(ref).client
	}
	return out
}
