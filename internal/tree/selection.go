package tree

import "sort"

// State is the tri-state selection indicator shown on a tree node.
type State int

const (
	Unchecked State = iota
	Checked
	Indeterminate
)

func (s State) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Set is the flat id set for one moderation session. Selecting a parent
// inserts the parent id plus every loaded descendant id; descendants that
// have never been loaded are represented only implicitly, as the parent's
// indeterminate state.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s Set) Remove(ids ...string) {
	for _, id := range ids {
		delete(s, id)
	}
}

func (s Set) Len() int { return len(s) }

// IDs returns the selected ids in a stable order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeState derives the tri-state value for one node from its own id, its
// immediate loaded children, and the selection set. loadedChildren must be
// nil when the node's children have not been fetched yet; an empty non-nil
// slice means "loaded, none returned". Each level re-derives independently,
// so a parent's displayed state self-corrects as deeper levels load.
func NodeState(node Node, loadedChildren []Node, sel Set) State {
	if !node.HasChildren {
		if sel.Has(node.ID) {
			return Checked
		}
		return Unchecked
	}

	if loadedChildren == nil {
		// An ancestor-driven bulk action may have marked this node before
		// it was ever expanded.
		if sel.Has(node.ID) {
			return Indeterminate
		}
		return Unchecked
	}

	selected := 0
	for _, child := range loadedChildren {
		if sel.Has(child.ID) {
			selected++
		}
	}
	switch {
	case selected == 0:
		if sel.Has(node.ID) {
			return Indeterminate
		}
		return Unchecked
	case selected == len(loadedChildren):
		return Checked
	default:
		return Indeterminate
	}
}

// Toggle applies one selection click: a checked node and its loaded
// descendants leave the set, anything else enters it. The update is a single
// atomic batch; ids of never-loaded descendants are deliberately untouched.
// Returns the batch that was applied and whether it was an add.
func Toggle(sel Set, node Node, loadedChildren []Node, loadedDescendants []string) (ids []string, added bool) {
	ids = append([]string{node.ID}, loadedDescendants...)
	if NodeState(node, loadedChildren, sel) == Checked {
		sel.Remove(ids...)
		return ids, false
	}
	sel.Add(ids...)
	return ids, true
}

// SelectAll adds every currently loaded id in the visible tree. Ids behind
// not-yet-expanded nodes are not included; they reconcile as subtrees load.
func SelectAll(sel Set, loadedIDs []string) {
	sel.Add(loadedIDs...)
}

// ClearAll empties the selection.
func ClearAll(sel Set) {
	for id := range sel {
		delete(sel, id)
	}
}
