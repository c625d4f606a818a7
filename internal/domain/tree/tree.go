// Package tree holds the ordered project forest: fixed root buckets with
// ordered children, addressed by element ID.
package tree

import (
	"errors"
	"fmt"
)

// Root node IDs. Roots always exist and are never deleted or moved.
const (
	ChapterRoot     = "CH_ROOT"
	CharacterRoot   = "CR_ROOT"
	LocationRoot    = "LC_ROOT"
	ItemRoot        = "IT_ROOT"
	PlotLineRoot    = "PL_ROOT"
	ProjectNoteRoot = "PN_ROOT"
)

// Roots lists the root buckets in display order.
var Roots = []string{ChapterRoot, CharacterRoot, LocationRoot, ItemRoot, PlotLineRoot, ProjectNoteRoot}

var (
	// ErrUnknownNode indicates the node or parent is not in the tree.
	ErrUnknownNode = errors.New("unknown tree node")
	// ErrDuplicateNode indicates the node is already in the tree.
	ErrDuplicateNode = errors.New("node already in tree")
	// ErrRootNode indicates an attempt to delete or move a root.
	ErrRootNode = errors.New("root nodes cannot be deleted or moved")
	// ErrIndexRange indicates an insert position outside the child list.
	ErrIndexRange = errors.New("index out of range")
	// ErrCycle indicates a move below the node itself.
	ErrCycle = errors.New("node cannot be moved below itself")
)

// Guard validates a proposed child list of parent before it is committed.
type Guard func(parent string, children []string) error

// Tree is an ordered forest of element IDs. Every successful mutating call
// invokes the change hook exactly once.
type Tree struct {
	idx   Index
	hook  func()
	guard Guard
}

// New creates a tree holding only the roots.
func New(hook func()) *Tree {
	return &Tree{idx: newIndex(), hook: hook}
}

// SetHook replaces the change hook.
func (t *Tree) SetHook(hook func()) {
	t.hook = hook
}

// SetGuard installs the child list validator.
func (t *Tree) SetGuard(g Guard) {
	t.guard = g
}

// Snapshot returns the current index.
func (t *Tree) Snapshot() Index {
	return t.idx
}

// Contains reports whether id is a root or a node.
func (t *Tree) Contains(id string) bool {
	return t.idx.Contains(id)
}

// IsRoot reports whether id is one of the fixed roots.
func (t *Tree) IsRoot(id string) bool {
	for _, r := range Roots {
		if r == id {
			return true
		}
	}
	return false
}

// Len returns the number of non-root nodes.
func (t *Tree) Len() int {
	return t.idx.Len()
}

// Children returns the ordered children of parent.
func (t *Tree) Children(parent string) []string {
	return t.idx.Children(parent)
}

// Parent returns the parent of id.
func (t *Tree) Parent(id string) (string, bool) {
	return t.idx.Parent(id)
}

// IndexOf returns the position of id among its siblings, or -1.
func (t *Tree) IndexOf(id string) int {
	parent, ok := t.idx.parent[id]
	if !ok {
		return -1
	}
	for i, v := range t.idx.children[parent] {
		if v == id {
			return i
		}
	}
	return -1
}

// Prev returns the previous sibling of id, or "" if id is first.
func (t *Tree) Prev(id string) string {
	i := t.IndexOf(id)
	if i <= 0 {
		return ""
	}
	return t.idx.children[t.idx.parent[id]][i-1]
}

// Next returns the next sibling of id, or "" if id is last.
func (t *Tree) Next(id string) string {
	i := t.IndexOf(id)
	if i < 0 {
		return ""
	}
	kids := t.idx.children[t.idx.parent[id]]
	if i+1 >= len(kids) {
		return ""
	}
	return kids[i+1]
}

// Descendants returns all nodes below id in pre-order.
func (t *Tree) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, kid := range t.idx.children[cur] {
			out = append(out, kid)
			walk(kid)
		}
	}
	walk(id)
	return out
}

// Append adds id as the last child of parent.
func (t *Tree) Append(parent, id string) error {
	return t.Insert(parent, len(t.idx.children[parent]), id)
}

// Insert adds id as a child of parent at index.
func (t *Tree) Insert(parent string, index int, id string) error {
	if !t.idx.Contains(parent) {
		return fmt.Errorf("insert %s: parent %s: %w", id, parent, ErrUnknownNode)
	}
	if id == "" || t.idx.Contains(id) {
		return fmt.Errorf("insert %s: %w", id, ErrDuplicateNode)
	}
	kids := t.idx.children[parent]
	if index < 0 || index > len(kids) {
		return fmt.Errorf("insert %s at %d: %w", id, index, ErrIndexRange)
	}

	proposed := inserted(kids, index, id)
	if err := t.check(parent, proposed); err != nil {
		return err
	}

	next := t.idx.clone()
	next.children[parent] = proposed
	next.children[id] = nil
	next.parent[id] = parent
	t.commit(next)
	return nil
}

// Delete removes id and all its descendants. It returns the removed IDs in
// pre-order.
func (t *Tree) Delete(id string) ([]string, error) {
	if t.IsRoot(id) {
		return nil, fmt.Errorf("delete %s: %w", id, ErrRootNode)
	}
	parent, ok := t.idx.parent[id]
	if !ok {
		return nil, fmt.Errorf("delete %s: %w", id, ErrUnknownNode)
	}
	if err := t.check(parent, without(t.idx.children[parent], id)); err != nil {
		return nil, err
	}

	next, removed := Prune(t.idx, id)
	t.commit(next)
	return removed, nil
}

// Move re-parents id under newParent at index. The index refers to the child
// list of newParent after id has been taken out of its old position.
func (t *Tree) Move(id, newParent string, index int) error {
	if t.IsRoot(id) {
		return fmt.Errorf("move %s: %w", id, ErrRootNode)
	}
	oldParent, ok := t.idx.parent[id]
	if !ok {
		return fmt.Errorf("move %s: %w", id, ErrUnknownNode)
	}
	if !t.idx.Contains(newParent) {
		return fmt.Errorf("move %s: parent %s: %w", id, newParent, ErrUnknownNode)
	}
	if newParent == id {
		return fmt.Errorf("move %s: %w", id, ErrCycle)
	}
	for _, d := range t.Descendants(id) {
		if d == newParent {
			return fmt.Errorf("move %s: %w", id, ErrCycle)
		}
	}

	oldKids := without(t.idx.children[oldParent], id)
	targetKids := oldKids
	if newParent != oldParent {
		targetKids = t.idx.children[newParent]
	}
	if index < 0 || index > len(targetKids) {
		return fmt.Errorf("move %s to %d: %w", id, index, ErrIndexRange)
	}
	newKids := inserted(targetKids, index, id)

	if newParent != oldParent {
		if err := t.check(oldParent, oldKids); err != nil {
			return err
		}
	}
	if err := t.check(newParent, newKids); err != nil {
		return err
	}

	next := t.idx.clone()
	if newParent != oldParent {
		next.children[oldParent] = oldKids
	}
	next.children[newParent] = newKids
	next.parent[id] = newParent
	t.commit(next)
	return nil
}

func (t *Tree) check(parent string, children []string) error {
	if t.guard == nil {
		return nil
	}
	return t.guard(parent, children)
}

func (t *Tree) commit(next Index) {
	t.idx = next
	if t.hook != nil {
		t.hook()
	}
}
