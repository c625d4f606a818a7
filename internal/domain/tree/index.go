package tree

// Index is the parent/children relation of a project tree. Values are
// treated as immutable: every mutation works on a copy.
type Index struct {
	parent   map[string]string
	children map[string][]string
}

func newIndex() Index {
	idx := Index{
		parent:   make(map[string]string),
		children: make(map[string][]string),
	}
	for _, root := range Roots {
		idx.children[root] = nil
	}
	return idx
}

func (idx Index) clone() Index {
	c := Index{
		parent:   make(map[string]string, len(idx.parent)),
		children: make(map[string][]string, len(idx.children)),
	}
	for k, v := range idx.parent {
		c.parent[k] = v
	}
	for k, v := range idx.children {
		c.children[k] = append([]string(nil), v...)
	}
	return c
}

// Contains reports whether id is a root or a node of the index.
func (idx Index) Contains(id string) bool {
	_, ok := idx.children[id]
	return ok
}

// Children returns a copy of the ordered children of id.
func (idx Index) Children(id string) []string {
	return append([]string(nil), idx.children[id]...)
}

// Parent returns the parent of id. Roots have no parent.
func (idx Index) Parent(id string) (string, bool) {
	p, ok := idx.parent[id]
	return p, ok
}

// Len returns the number of non-root nodes.
func (idx Index) Len() int {
	return len(idx.parent)
}

// Prune returns a new index without id and its descendants, along with the
// removed IDs in pre-order. The input index is left untouched. Pruning an
// unknown ID or a root returns the input unchanged and no IDs.
func Prune(idx Index, id string) (Index, []string) {
	parent, ok := idx.parent[id]
	if !ok {
		return idx, nil
	}

	next := idx.clone()
	next.children[parent] = without(next.children[parent], id)

	var removed []string
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		removed = append(removed, cur)

		kids := next.children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
		delete(next.children, cur)
		delete(next.parent, cur)
	}
	return next, removed
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func inserted(list []string, index int, id string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, id)
	return append(out, list[index:]...)
}
