package layout

// NodeView is a detached copy of one tree node, used for printing and export.
type NodeView struct {
	Client         *Client
	SizeRatio      float64
	SplitDirection LayoutDirection
	Children       []*NodeView
}

// IsLeaf reports whether the node has no children.
func (v *NodeView) IsLeaf() bool { return len(v.Children) == 0 }

// Snapshot copies the current tree.
func (e *Engine) Snapshot() *NodeView {
	return e.view(e.tree.root)
}

func (e *Engine) view(ref nodeRef) *NodeView {
	n := e.tree.get(ref)
	if n == nil {
		return nil
	}
	v := &NodeView{
		Client:         n.client,
		SizeRatio:      n.sizeRatio,
		SplitDirection: n.splitDirection,
	}
	if n.hasChildren() {
		v.Children = []*NodeView{e.view(n.children[0]), e.view(n.children[1])}
	}
	return v
}
