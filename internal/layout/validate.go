package layout

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of the tree and returns every
// violation found, joined.
func (e *Engine) Validate() error {
	t := e.tree
	var errs []error

	root := t.get(t.root)
	if root == nil {
		return errors.New("root slot is not alive")
	}
	if root.parent.valid() || root.sibling.valid() {
		errs = append(errs, errors.New("root has a parent or sibling"))
	}

	seen := make(map[*Client]int)
	t.walk(func(ref nodeRef, n *node, depth int) bool {
		if n.client != nil {
			seen[n.client]++
		}
		if n.sizeRatio <= 0 || n.sizeRatio >= 1 {
			errs = append(errs, fmt.Errorf("node %d: ratio %v outside (0,1)", ref.index, n.sizeRatio))
		}
		if ref != t.root {
			s := t.get(n.sibling)
			switch {
			case s == nil:
				errs = append(errs, fmt.Errorf("node %d: dangling sibling", ref.index))
			case s.sibling != ref:
				errs = append(errs, fmt.Errorf("node %d: sibling does not point back", ref.index))
			case s.parent != n.parent:
				errs = append(errs, fmt.Errorf("node %d: sibling has a different parent", ref.index))
			}
		}
		if !n.hasChildren() {
			return true
		}
		if n.client != nil {
			errs = append(errs, fmt.Errorf("node %d: holds a client and children", ref.index))
		}
		for i, c := range n.children {
			child := t.get(c)
			if child == nil {
				errs = append(errs, fmt.Errorf("node %d: child %d is not alive", ref.index, i))
				continue
			}
			if child.parent != ref {
				errs = append(errs, fmt.Errorf("node %d: child %d has the wrong parent", ref.index, i))
			}
		}
		if n.children[0] == n.children[1] {
			errs = append(errs, fmt.Errorf("node %d: both children are the same node", ref.index))
		}
		return true
	})

	for c, count := range seen {
		if count > 1 {
			errs = append(errs, fmt.Errorf("client %s placed %d times", c, count))
		}
	}
	return errors.Join(errs...)
}
