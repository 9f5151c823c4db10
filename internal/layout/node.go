package layout

const defaultRatio = 0.5

// nodeRef addresses a slot in the arena. The generation makes references to
// freed slots detectable after the slot is reused.
type nodeRef struct {
	index int32
	gen   uint32
}

var nilRef = nodeRef{index: -1}

func (r nodeRef) valid() bool { return r.index >= 0 }

type node struct {
	gen   uint32
	alive bool

	parent   nodeRef
	sibling  nodeRef
	children [2]nodeRef
	split    bool

	client *Client
	// sizeRatio is the first child's share of this node along the split axis.
	sizeRatio      float64
	splitDirection LayoutDirection
}

func (n *node) hasChildren() bool { return n.split }

// tree is an arena of nodes. Slot 0 always holds the root.
type tree struct {
	nodes []node
	free  []int32
	root  nodeRef
}

func newTree() *tree {
	t := &tree{}
	t.root = t.alloc()
	return t
}

func (t *tree) alloc() nodeRef {
	fresh := node{
		alive:     true,
		parent:    nilRef,
		sibling:   nilRef,
		children:  [2]nodeRef{nilRef, nilRef},
		sizeRatio: defaultRatio,
	}
	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		fresh.gen = t.nodes[idx].gen + 1
		t.nodes[idx] = fresh
		return nodeRef{index: idx, gen: fresh.gen}
	}
	t.nodes = append(t.nodes, fresh)
	return nodeRef{index: int32(len(t.nodes) - 1)}
}

func (t *tree) release(r nodeRef) {
	n := t.get(r)
	if n == nil {
		return
	}
	n.alive = false
	n.client = nil
	n.parent, n.sibling = nilRef, nilRef
	n.children = [2]nodeRef{nilRef, nilRef}
	n.split = false
	t.free = append(t.free, r.index)
}

// get resolves a reference, returning nil for freed or stale slots.
func (t *tree) get(r nodeRef) *node {
	if !r.valid() || int(r.index) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[r.index]
	if !n.alive || n.gen != r.gen {
		return nil
	}
	return n
}

// split gives a childless node two empty children.
func (t *tree) split(r nodeRef) {
	if n := t.get(r); n == nil || n.hasChildren() {
		return
	}
	// alloc may grow the slice, so resolve pointers afterwards
	a, b := t.alloc(), t.alloc()
	n := t.get(r)
	n.children = [2]nodeRef{a, b}
	n.split = true

	ca, cb := t.get(a), t.get(b)
	ca.parent, ca.sibling = r, b
	cb.parent, cb.sibling = r, a
}

// remove drops a leaf and folds its sibling into the parent. The root is
// reset instead since it has nothing to fold into.
func (t *tree) remove(r nodeRef) {
	if r == t.root {
		t.resetRoot()
		return
	}
	n := t.get(r)
	if n == nil || n.hasChildren() {
		return
	}
	p, s := t.get(n.parent), t.get(n.sibling)
	if p == nil || s == nil {
		return
	}
	parentRef, siblingRef := n.parent, n.sibling

	if s.hasChildren() {
		p.children = s.children
		for _, c := range p.children {
			t.get(c).parent = parentRef
		}
		s.split = false
		s.children = [2]nodeRef{nilRef, nilRef}
	} else {
		p.client = s.client
		p.children = [2]nodeRef{nilRef, nilRef}
		p.split = false
		p.sizeRatio = defaultRatio
	}

	t.release(r)
	t.release(siblingRef)
}

func (t *tree) resetRoot() {
	root := t.get(t.root)
	if root.hasChildren() {
		for _, c := range root.children {
			t.releaseSubtree(c)
		}
	}
	root.children = [2]nodeRef{nilRef, nilRef}
	root.split = false
	root.client = nil
}

func (t *tree) releaseSubtree(r nodeRef) {
	n := t.get(r)
	if n == nil {
		return
	}
	if n.hasChildren() {
		for _, c := range n.children {
			t.releaseSubtree(c)
		}
	}
	t.release(r)
}

// swapChildren exchanges the two children of a split node and re-wires
// their sibling links.
func (t *tree) swapChildren(r nodeRef) bool {
	n := t.get(r)
	if n == nil || !n.hasChildren() {
		return false
	}
	n.children[0], n.children[1] = n.children[1], n.children[0]
	t.get(n.children[0]).sibling = n.children[1]
	t.get(n.children[1]).sibling = n.children[0]
	return true
}
