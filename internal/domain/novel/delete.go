package novel

import (
	"fmt"
	"maps"

	"github.com/rpggio/novx/internal/event"
)

// Delete removes element id with its descendants and every reference to the
// removed elements. Subscribers see a single ElementDeleted event.
func (n *Novel) Delete(id string) error {
	if n.tree.IsRoot(id) || !n.tree.Contains(id) {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return n.batch(event.ElementDeleted, id, func() error {
		removed, err := n.tree.Delete(id)
		if err != nil {
			return err
		}
		for _, rid := range removed {
			n.forget(rid)
		}
		return nil
	})
}

func (n *Novel) forget(id string) {
	switch PrefixOf(id) {
	case ChapterPrefix:
		if ch, ok := n.chapters[id]; ok {
			ch.trashCheck = nil
		}
		delete(n.chapters, id)
	case SectionPrefix:
		n.forgetSection(id)
	case PlotLinePrefix:
		n.forgetPlotLine(id)
	case PlotPointPrefix:
		if pp, ok := n.plotPoints[id]; ok {
			if sc, ok := n.sections[pp.section]; ok {
				points := sc.PlotPoints()
				delete(points, id)
				sc.setPlotPoints(points)
			}
			delete(n.plotPoints, id)
		}
	case CharacterPrefix:
		for _, sc := range n.sections {
			if list, ok := removeID(sc.characters, id); ok {
				sc.SetCharacters(list)
			}
		}
		delete(n.characters, id)
	case LocationPrefix:
		for _, sc := range n.sections {
			if list, ok := removeID(sc.locations, id); ok {
				sc.SetLocations(list)
			}
		}
		delete(n.locations, id)
	case ItemPrefix:
		for _, sc := range n.sections {
			if list, ok := removeID(sc.items, id); ok {
				sc.SetItems(list)
			}
		}
		delete(n.items, id)
	case ProjectNotePrefix:
		delete(n.projectNotes, id)
	}
}

func (n *Novel) forgetSection(id string) {
	for _, pl := range n.plotLines {
		if list, ok := removeID(pl.sections, id); ok {
			pl.setSections(list)
		}
	}
	for _, pp := range n.plotPoints {
		if pp.section == id {
			pp.setSection("")
		}
	}
	delete(n.sections, id)
}

func (n *Novel) forgetPlotLine(id string) {
	pl, ok := n.plotLines[id]
	if !ok {
		return
	}
	for _, scID := range pl.sections {
		sc, ok := n.sections[scID]
		if !ok {
			continue
		}
		if list, ok := removeID(sc.plotLines, id); ok {
			sc.setPlotLines(list)
		}
		points := sc.PlotPoints()
		maps.DeleteFunc(points, func(_, plID string) bool { return plID == id })
		sc.setPlotPoints(points)
	}
	delete(n.plotLines, id)
}
