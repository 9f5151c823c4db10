package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeSplitWiresLinks(t *testing.T) {
	tr := newTree()
	tr.split(tr.root)

	root := tr.get(tr.root)
	require.True(t, root.hasChildren())
	a, b := tr.get(root.children[0]), tr.get(root.children[1])
	require.NotNil(t, a)
	require.NotNil(t, b)

	assert.Equal(t, tr.root, a.parent)
	assert.Equal(t, tr.root, b.parent)
	assert.Equal(t, root.children[1], a.sibling)
	assert.Equal(t, root.children[0], b.sibling)
	assert.Equal(t, defaultRatio, a.sizeRatio)
	assert.Equal(t, DirectionUnset, a.splitDirection)

	// splitting twice is a no-op
	before := root.children
	tr.split(tr.root)
	assert.Equal(t, before, tr.get(tr.root).children)
}

func TestTreeRemoveLeafSibling(t *testing.T) {
	tr := newTree()
	c1, c2 := NewClient("one", Size{}), NewClient("two", Size{})
	tr.split(tr.root)
	root := tr.get(tr.root)
	first, second := root.children[0], root.children[1]
	tr.get(first).client = c1
	tr.get(second).client = c2
	root.sizeRatio = 0.3

	tr.remove(first)

	root = tr.get(tr.root)
	assert.False(t, root.hasChildren())
	assert.Same(t, c2, root.client)
	assert.Equal(t, defaultRatio, root.sizeRatio)
	assert.Nil(t, tr.get(first), "removed node must be freed")
	assert.Nil(t, tr.get(second), "absorbed sibling must be freed")
}

func TestTreeRemoveAdoptsGrandchildren(t *testing.T) {
	tr := newTree()
	tr.split(tr.root)
	root := tr.get(tr.root)
	leaf, inner := root.children[0], root.children[1]
	tr.split(inner)
	grand := tr.get(inner).children

	tr.remove(leaf)

	root = tr.get(tr.root)
	require.True(t, root.hasChildren())
	assert.Equal(t, grand, root.children)
	for _, g := range grand {
		assert.Equal(t, tr.root, tr.get(g).parent)
	}
	assert.Nil(t, tr.get(inner))
}

func TestTreeRemoveIgnoresInternalNodes(t *testing.T) {
	tr := newTree()
	tr.split(tr.root)
	inner := tr.get(tr.root).children[1]
	tr.split(inner)

	tr.remove(inner)

	assert.NotNil(t, tr.get(inner))
	assert.True(t, tr.get(inner).hasChildren())
}

func TestTreeRootRemoveResets(t *testing.T) {
	tr := newTree()
	tr.get(tr.root).client = NewClient("solo", Size{})

	tr.remove(tr.root)

	root := tr.get(tr.root)
	assert.Nil(t, root.client)
	assert.False(t, root.hasChildren())
}

func TestArenaReuseInvalidatesStaleRefs(t *testing.T) {
	tr := newTree()
	tr.split(tr.root)
	stale := tr.get(tr.root).children[0]
	tr.remove(stale)

	tr.split(tr.root)
	children := tr.get(tr.root).children

	assert.Nil(t, tr.get(stale))
	assert.Contains(t, []int32{children[0].index, children[1].index}, stale.index,
		"freed slots should be reused")
	assert.Len(t, tr.nodes, 3)
}

func TestFindAndCollectAreBreadthFirst(t *testing.T) {
	tr := newTree()
	tr.split(tr.root)
	root := tr.get(tr.root)
	left, right := root.children[0], root.children[1]
	tr.split(left)
	deep := tr.get(left).children

	var order []nodeRef
	tr.walk(func(ref nodeRef, _ *node, _ int) bool {
		order = append(order, ref)
		return true
	})
	assert.Equal(t, []nodeRef{tr.root, left, right, deep[0], deep[1]}, order)

	leaves := tr.collectNodes(func(n *node) bool { return !n.hasChildren() })
	assert.Equal(t, []nodeRef{right, deep[0], deep[1]}, leaves)

	first, ok := tr.findNode(func(n *node) bool { return !n.hasChildren() })
	require.True(t, ok)
	assert.Equal(t, right, first)

	_, ok = tr.findClient(nil)
	assert.False(t, ok)
}
