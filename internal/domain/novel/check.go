package novel

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rpggio/novx/internal/domain/tree"
)

// Check verifies the structural invariants of the project: every tree node
// has an element of the right kind, the trash chapter is unique and last,
// plot line and plot point references agree on both sides, and sections
// refer only to existing world elements. All violations are joined.
func (n *Novel) Check() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for _, root := range tree.Roots {
		for _, id := range n.tree.Descendants(root) {
			if !n.registered(id) {
				fail("tree node %s has no element: %w", id, ErrNotFound)
			}
			parent, _ := n.tree.Parent(id)
			if childPrefix(parent) != PrefixOf(id) {
				fail("%s below %s: %w", id, parent, ErrWrongParent)
			}
		}
	}
	if n.tree.Len() != n.count() {
		fail("element arena and tree differ in size: %w", ErrBrokenReference)
	}
	if err := checkTrash(n.tree.Children(tree.ChapterRoot), n.chapters); err != nil {
		errs = append(errs, err)
	}

	for _, plID := range n.tree.Children(tree.PlotLineRoot) {
		pl := n.plotLines[plID]
		if pl == nil {
			continue
		}
		for _, scID := range pl.sections {
			sc, ok := n.sections[scID]
			if !ok || !slices.Contains(sc.plotLines, plID) {
				fail("plot line %s and section %s: %w", plID, scID, ErrBrokenReference)
			}
		}
		for _, ppID := range n.tree.Children(plID) {
			pp := n.plotPoints[ppID]
			if pp == nil || pp.section == "" {
				continue
			}
			sc, ok := n.sections[pp.section]
			if !ok || sc.plotPoints[ppID] != plID {
				fail("plot point %s and section %s: %w", ppID, pp.section, ErrBrokenReference)
			}
		}
	}

	for _, sc := range n.Sections() {
		for _, plID := range sc.plotLines {
			pl, ok := n.plotLines[plID]
			if !ok || !slices.Contains(pl.sections, sc.id) {
				fail("section %s and plot line %s: %w", sc.id, plID, ErrBrokenReference)
			}
		}
		for ppID, plID := range sc.plotPoints {
			pp, ok := n.plotPoints[ppID]
			if !ok || pp.section != sc.id {
				fail("section %s and plot point %s: %w", sc.id, ppID, ErrBrokenReference)
				continue
			}
			if parent, _ := n.tree.Parent(ppID); parent != plID {
				fail("plot point %s belongs to %s, not %s: %w", ppID, parent, plID, ErrBrokenReference)
			}
		}
		for _, id := range sc.characters {
			if _, ok := n.characters[id]; !ok {
				fail("section %s character %s: %w", sc.id, id, ErrBrokenReference)
			}
		}
		for _, id := range sc.locations {
			if _, ok := n.locations[id]; !ok {
				fail("section %s location %s: %w", sc.id, id, ErrBrokenReference)
			}
		}
		for _, id := range sc.items {
			if _, ok := n.items[id]; !ok {
				fail("section %s item %s: %w", sc.id, id, ErrBrokenReference)
			}
		}
	}
	return errors.Join(errs...)
}

func (n *Novel) registered(id string) bool {
	switch PrefixOf(id) {
	case ChapterPrefix:
		return n.chapters[id] != nil
	case SectionPrefix:
		return n.sections[id] != nil
	case CharacterPrefix:
		return n.characters[id] != nil
	case LocationPrefix:
		return n.locations[id] != nil
	case ItemPrefix:
		return n.items[id] != nil
	case PlotLinePrefix:
		return n.plotLines[id] != nil
	case PlotPointPrefix:
		return n.plotPoints[id] != nil
	case ProjectNotePrefix:
		return n.projectNotes[id] != nil
	}
	return false
}

func (n *Novel) count() int {
	return len(n.chapters) + len(n.sections) + len(n.characters) + len(n.locations) +
		len(n.items) + len(n.plotLines) + len(n.plotPoints) + len(n.projectNotes)
}
