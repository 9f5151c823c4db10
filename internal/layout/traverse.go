package layout

// Both walks are breadth first, level by level with the first child ahead of
// the second. Client cycling relies on this order being stable.

type visit struct {
	ref   nodeRef
	depth int
}

// walk calls fn for every node until fn returns false.
func (t *tree) walk(fn func(ref nodeRef, n *node, depth int) bool) {
	queue := []visit{{ref: t.root}}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		n := t.get(v.ref)
		if n == nil {
			continue
		}
		if !fn(v.ref, n, v.depth) {
			return
		}
		if n.hasChildren() {
			queue = append(queue,
				visit{ref: n.children[0], depth: v.depth + 1},
				visit{ref: n.children[1], depth: v.depth + 1},
			)
		}
	}
}

// findNode returns the first node matching pred.
func (t *tree) findNode(pred func(n *node) bool) (nodeRef, bool) {
	found := nilRef
	t.walk(func(ref nodeRef, n *node, _ int) bool {
		if pred(n) {
			found = ref
			return false
		}
		return true
	})
	return found, found.valid()
}

// collectNodes returns every node matching pred.
func (t *tree) collectNodes(pred func(n *node) bool) []nodeRef {
	var out []nodeRef
	t.walk(func(ref nodeRef, n *node, _ int) bool {
		if pred(n) {
			out = append(out, ref)
		}
		return true
	})
	return out
}

func (t *tree) findClient(c *Client) (nodeRef, bool) {
	if c == nil {
		return nilRef, false
	}
	return t.findNode(func(n *node) bool { return n.client == c })
}
