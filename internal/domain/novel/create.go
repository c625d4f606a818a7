package novel

import (
	"fmt"

	"github.com/rpggio/novx/internal/domain/tree"
)

// CreateChapter adds a new chapter after the last regular chapter, keeping
// the trash chapter last.
func (n *Novel) CreateChapter(title string, level ChapterLevel) (*Chapter, error) {
	ch := NewChapter(n.NewID(ChapterPrefix))
	ch.title = title
	ch.level = level
	index := -1
	if trash := n.TrashChapter(); trash != nil {
		index = n.tree.IndexOf(trash.id)
	}
	if err := n.InsertChapter(ch, index); err != nil {
		return nil, err
	}
	return ch, nil
}

// CreateSection appends a new section to chapter chID.
func (n *Novel) CreateSection(chID, title string) (*Section, error) {
	sc := NewSection(n.NewID(SectionPrefix))
	sc.title = title
	if err := n.AddSection(chID, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// CreateCharacter appends a new character.
func (n *Novel) CreateCharacter(title string) (*Character, error) {
	c := NewCharacter(n.NewID(CharacterPrefix))
	c.title = title
	if err := n.AddCharacter(c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateLocation appends a new location.
func (n *Novel) CreateLocation(title string) (*Location, error) {
	l := NewLocation(n.NewID(LocationPrefix))
	l.title = title
	if err := n.AddLocation(l); err != nil {
		return nil, err
	}
	return l, nil
}

// CreateItem appends a new item.
func (n *Novel) CreateItem(title string) (*Item, error) {
	it := NewItem(n.NewID(ItemPrefix))
	it.title = title
	if err := n.AddItem(it); err != nil {
		return nil, err
	}
	return it, nil
}

// CreatePlotLine appends a new plot line.
func (n *Novel) CreatePlotLine(title, shortName string) (*PlotLine, error) {
	pl := NewPlotLine(n.NewID(PlotLinePrefix))
	pl.title = title
	pl.shortName = shortName
	if err := n.AddPlotLine(pl); err != nil {
		return nil, err
	}
	return pl, nil
}

// CreatePlotPoint appends a new unplaced plot point to plot line plID.
func (n *Novel) CreatePlotPoint(plID, title string) (*PlotPoint, error) {
	pp := NewPlotPoint(n.NewID(PlotPointPrefix))
	pp.title = title
	if err := n.AddPlotPoint(plID, pp); err != nil {
		return nil, err
	}
	return pp, nil
}

// CreateProjectNote appends a new project note.
func (n *Novel) CreateProjectNote(title string) (*ProjectNote, error) {
	pn := NewProjectNote(n.NewID(ProjectNotePrefix))
	pn.title = title
	if err := n.AddProjectNote(pn); err != nil {
		return nil, err
	}
	return pn, nil
}

// MoveToTrash moves section scID to the end of the trash chapter, creating
// the trash chapter if the project has none.
func (n *Novel) MoveToTrash(scID string) error {
	if _, ok := n.sections[scID]; !ok {
		return fmt.Errorf("section %s: %w", scID, ErrNotFound)
	}
	return n.Batch(func() error {
		trash := n.TrashChapter()
		if trash == nil {
			trash = NewChapter(n.NewID(ChapterPrefix))
			trash.title = "Trash"
			trash.chType = ChapterUnused
			trash.isTrash = true
			if err := n.InsertChapter(trash, len(n.tree.Children(tree.ChapterRoot))); err != nil {
				return err
			}
		}
		if n.ChapterOf(scID) == trash.id {
			return nil
		}
		return n.tree.Move(scID, trash.id, len(n.tree.Children(trash.id)))
	})
}
