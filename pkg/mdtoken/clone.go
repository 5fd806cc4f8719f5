package mdtoken

// CloneForest deep-clones a token forest together with its flat list.
//
// Every token is copied exactly once; parent links, marker flags, and frozen
// state are re-established on the copies, and the returned flat list refers to
// the clones in the original emission order. The source and the clone share no
// Token objects, so mutating one side never affects the other.
//
// A cycle in the tree (a token reachable from itself) violates the ownership
// invariant; CloneForest fails fast with a panic rather than produce a
// partially cloned tree.
func CloneForest(roots, flat []*Token) ([]*Token, []*Token) {
	seen := make(map[*Token]*Token, len(flat))

	clonedRoots := make([]*Token, len(roots))
	for i, root := range roots {
		clonedRoots[i] = cloneTree(root, nil, seen, make(map[*Token]bool))
	}

	clonedFlat := make([]*Token, len(flat))
	for i, tok := range flat {
		clone, ok := seen[tok]
		if !ok {
			// Flat-list tokens must all be reachable from the roots.
			clone = cloneTree(tok, nil, seen, make(map[*Token]bool))
		}
		clonedFlat[i] = clone
	}

	return clonedRoots, clonedFlat
}

func cloneTree(t, parent *Token, seen map[*Token]*Token, path map[*Token]bool) *Token {
	if t == nil {
		return nil
	}
	if path[t] {
		panic("mdtoken: cycle detected while cloning token tree")
	}
	if clone, ok := seen[t]; ok {
		return clone
	}
	path[t] = true

	clone := &Token{
		Type:        t.Type,
		StartLine:   t.StartLine,
		StartColumn: t.StartColumn,
		EndLine:     t.EndLine,
		EndColumn:   t.EndColumn,
		StartOffset: t.StartOffset,
		EndOffset:   t.EndOffset,
		Text:        t.Text,
		Parent:      parent,
		HTMLReparse: t.HTMLReparse,
	}
	seen[t] = clone

	if len(t.Children) > 0 {
		clone.Children = make([]*Token, len(t.Children))
		for i, child := range t.Children {
			clone.Children[i] = cloneTree(child, clone, seen, path)
		}
	}

	// Frozen state carries over so a cached frozen tree stays frozen on hit.
	clone.frozen = t.frozen

	delete(path, t)
	return clone
}
