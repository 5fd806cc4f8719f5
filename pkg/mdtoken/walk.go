package mdtoken

// WalkFunc is the callback signature for Walk. Returning a non-nil error stops
// the walk immediately.
type WalkFunc func(t *Token) error

// Walk performs a pre-order traversal starting at t.
func Walk(t *Token, fn WalkFunc) error {
	if t == nil {
		return nil
	}
	if err := fn(t); err != nil {
		return err
	}
	for _, child := range t.Children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkForest walks every tree of a forest in order.
func WalkForest(roots []*Token, fn WalkFunc) error {
	for _, root := range roots {
		if err := Walk(root, fn); err != nil {
			return err
		}
	}
	return nil
}

// FilterForest returns all tokens in the forest matching the predicate, in
// pre-order.
func FilterForest(roots []*Token, predicate func(t *Token) bool) []*Token {
	var result []*Token

	//nolint:errcheck // the visitor never returns an error
	WalkForest(roots, func(t *Token) error {
		if predicate(t) {
			result = append(result, t)
		}
		return nil
	})

	return result
}

// ByType returns all tokens in the forest with the given type tag.
func ByType(roots []*Token, tokenType string) []*Token {
	return FilterForest(roots, func(t *Token) bool {
		return t.Type == tokenType
	})
}
