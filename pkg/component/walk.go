package component

// Root returns the topmost ancestor of c, or c itself when it has no
// parent.
func Root(c Component) Component {
	for c.Parent() != nil {
		c = c.Parent()
	}
	return c
}

// Walk visits c and its descendants in pre-order, children in their
// stored order. fn returning false stops the walk. Walk reports
// whether the traversal ran to completion.
func Walk(c Component, fn func(Component) bool) bool {
	if !fn(c) {
		return false
	}
	for _, child := range c.Children() {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// FindByName returns the first component named name in pre-order from
// root, or nil when the tree contains none.
func FindByName(root Component, name string) Component {
	var found Component
	Walk(root, func(c Component) bool {
		if c.Name() == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Names collects every non-empty component name in the tree in
// pre-order. Used for suggestions after a failed name lookup.
func Names(root Component) []string {
	var names []string
	Walk(root, func(c Component) bool {
		if c.Name() != "" {
			names = append(names, c.Name())
		}
		return true
	})
	return names
}
