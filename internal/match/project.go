package match

import "taxakey/internal/key"

// Node is one entry of a projected entity tree ready for display.
type Node struct {
	ID       key.EntityID
	Name     string
	IsGroup  bool
	Dimmed   bool
	Children []*Node
}

// Project filters the entity tree to the allowed ids. Group nodes survive
// when they are allowed themselves or when a descendant survives; surviving
// groups that are in neither the direct nor the discarded set are tagged
// dimmed, marking them as kept for rendering rather than genuinely matched.
// The discarded view calls this with an empty direct set, so its dimming
// reflects only direct-discard status and descendant presence.
func Project(tree []*key.EntityNode, allowed, direct, discarded Set) []*Node {
	retained := Set{}
	for id := range allowed {
		retained[id] = struct{}{}
	}

	// Same fixpoint as Compute: each pass promotes groups with a retained
	// child until no pass adds anything.
	for {
		added := false
		work := append([]*key.EntityNode{}, tree...)
		for len(work) > 0 {
			node := work[len(work)-1]
			work = work[:len(work)-1]
			work = append(work, node.Children...)

			if retained.Has(node.ID) {
				continue
			}
			for _, child := range node.Children {
				if retained.Has(child.ID) {
					retained[node.ID] = struct{}{}
					added = true
					break
				}
			}
		}
		if !added {
			break
		}
	}

	type frame struct {
		src    *key.EntityNode
		parent *Node
	}

	var out []*Node
	var work []frame
	for i := len(tree) - 1; i >= 0; i-- {
		work = append(work, frame{src: tree[i]})
	}

	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		if !retained.Has(f.src.ID) {
			continue
		}

		node := &Node{
			ID:      f.src.ID,
			Name:    f.src.Name,
			IsGroup: f.src.IsGroup,
			Dimmed:  f.src.IsGroup && !direct.Has(f.src.ID) && !discarded.Has(f.src.ID),
		}
		if f.parent == nil {
			out = append(out, node)
		} else {
			f.parent.Children = append(f.parent.Children, node)
		}

		for i := len(f.src.Children) - 1; i >= 0; i-- {
			work = append(work, frame{src: f.src.Children[i], parent: node})
		}
	}

	return out
}
