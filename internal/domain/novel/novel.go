// Package novel holds the project data model: the element arena keyed by ID,
// the ordered project tree, and the operations that keep both consistent.
package novel

import (
	"fmt"
	"log/slog"

	"github.com/rpggio/novx/internal/domain/tree"
	"github.com/rpggio/novx/internal/event"
)

// Novel is a writing project. It owns every element and the tree that
// orders them. Elements must be created and deleted through the Novel so
// that the tree and the arena stay in step.
type Novel struct {
	Element
	authorName           string
	languageCode         string
	countryCode          string
	wordTarget           int
	wordCountStart       int
	renumberChapters     bool
	chapterHeadingPrefix string
	chapterHeadingSuffix string
	workPhase            int
	referenceDate        string

	chapters     map[string]*Chapter
	sections     map[string]*Section
	characters   map[string]*Character
	locations    map[string]*Location
	items        map[string]*Item
	plotLines    map[string]*PlotLine
	plotPoints   map[string]*PlotPoint
	projectNotes map[string]*ProjectNote

	tree     *tree.Tree
	bus      *event.Bus
	modified bool
	muted    int
	pending  bool
}

// New creates an empty project.
func New() *Novel {
	return NewWithLogger(nil)
}

// NewWithLogger creates an empty project whose event bus logs handler
// failures to logger.
func NewWithLogger(logger *slog.Logger) *Novel {
	n := &Novel{
		chapters:     make(map[string]*Chapter),
		sections:     make(map[string]*Section),
		characters:   make(map[string]*Character),
		locations:    make(map[string]*Location),
		items:        make(map[string]*Item),
		plotLines:    make(map[string]*PlotLine),
		plotPoints:   make(map[string]*PlotPoint),
		projectNotes: make(map[string]*ProjectNote),
		bus:          event.NewBus(logger),
	}
	n.Element.onChange = func(string) { n.changed(event.ElementChanged, "") }
	n.tree = tree.New(func() { n.changed(event.TreeChanged, "") })
	n.tree.SetGuard(n.guard)
	return n
}

func (n *Novel) AuthorName() string               { return n.authorName }
func (n *Novel) SetAuthorName(v string)           { setValue(&n.Element, &n.authorName, v) }
func (n *Novel) LanguageCode() string             { return n.languageCode }
func (n *Novel) SetLanguageCode(v string)         { setValue(&n.Element, &n.languageCode, v) }
func (n *Novel) CountryCode() string              { return n.countryCode }
func (n *Novel) SetCountryCode(v string)          { setValue(&n.Element, &n.countryCode, v) }
func (n *Novel) WordTarget() int                  { return n.wordTarget }
func (n *Novel) SetWordTarget(v int)              { setValue(&n.Element, &n.wordTarget, v) }
func (n *Novel) WordCountStart() int              { return n.wordCountStart }
func (n *Novel) SetWordCountStart(v int)          { setValue(&n.Element, &n.wordCountStart, v) }
func (n *Novel) RenumberChapters() bool           { return n.renumberChapters }
func (n *Novel) SetRenumberChapters(v bool)       { setValue(&n.Element, &n.renumberChapters, v) }
func (n *Novel) ChapterHeadingPrefix() string     { return n.chapterHeadingPrefix }
func (n *Novel) SetChapterHeadingPrefix(v string) { setValue(&n.Element, &n.chapterHeadingPrefix, v) }
func (n *Novel) ChapterHeadingSuffix() string     { return n.chapterHeadingSuffix }
func (n *Novel) SetChapterHeadingSuffix(v string) { setValue(&n.Element, &n.chapterHeadingSuffix, v) }
func (n *Novel) WorkPhase() int                   { return n.workPhase }
func (n *Novel) SetWorkPhase(v int)               { setValue(&n.Element, &n.workPhase, v) }
func (n *Novel) ReferenceDate() string            { return n.referenceDate }

// SetReferenceDate sets the ISO date relative story days count from.
func (n *Novel) SetReferenceDate(v string) error {
	return setDate(&n.Element, &n.referenceDate, v)
}

// Tree exposes the project tree for structural reads and moves. Nodes must
// be added and deleted through the Novel.
func (n *Novel) Tree() *tree.Tree { return n.tree }

// Events returns the bus change events are published on.
func (n *Novel) Events() *event.Bus { return n.bus }

// Modified reports whether the project changed since the flag was reset.
func (n *Novel) Modified() bool { return n.modified }

// SetModified sets or resets the dirty flag without publishing an event.
func (n *Novel) SetModified(v bool) { n.modified = v }

// NewID returns a fresh ID for the given prefix.
func (n *Novel) NewID(prefix string) string {
	return NewID(prefix, n.tree.Contains)
}

func (n *Novel) changed(t event.Type, id string) {
	n.modified = true
	if n.muted > 0 {
		n.pending = true
		return
	}
	n.bus.Publish(event.Event{Type: t, ID: id})
}

// batch runs fn with change events suppressed and publishes a single event
// afterwards if anything changed.
func (n *Novel) batch(t event.Type, id string, fn func() error) error {
	n.muted++
	err := fn()
	n.muted--
	if n.muted == 0 && n.pending {
		n.pending = false
		n.bus.Publish(event.Event{Type: t, ID: id})
	}
	return err
}

// Batch runs a multi-step structural change and publishes a single
// TreeChanged event for it.
func (n *Novel) Batch(fn func() error) error {
	return n.batch(event.TreeChanged, "", fn)
}

func (n *Novel) hook(e *Element) {
	e.SetOnChange(func(id string) { n.changed(event.ElementChanged, id) })
}

// guard validates proposed child lists: only the right element kind may sit
// below each parent, and the trash chapter is unique and last.
func (n *Novel) guard(parent string, children []string) error {
	want := childPrefix(parent)
	for _, id := range children {
		if want == "" || PrefixOf(id) != want {
			return fmt.Errorf("%s below %s: %w", id, parent, ErrWrongParent)
		}
	}
	if parent != tree.ChapterRoot {
		return nil
	}
	return checkTrash(children, n.chapters)
}

func checkTrash(chapters []string, byID map[string]*Chapter) error {
	trash := -1
	for i, id := range chapters {
		ch, ok := byID[id]
		if !ok || !ch.IsTrash() {
			continue
		}
		if trash >= 0 {
			return ErrMultipleTrash
		}
		trash = i
	}
	if trash >= 0 && trash != len(chapters)-1 {
		return ErrTrashNotLast
	}
	return nil
}

// checkTrashFlag vets setting chapter id's trash flag against the current
// chapter order.
func (n *Novel) checkTrashFlag(id string, trash bool) error {
	if !trash {
		return nil
	}
	chapters := n.tree.Children(tree.ChapterRoot)
	for _, other := range chapters {
		if other != id && n.chapters[other].IsTrash() {
			return ErrMultipleTrash
		}
	}
	if len(chapters) == 0 || chapters[len(chapters)-1] != id {
		return ErrTrashNotLast
	}
	return nil
}

// attach registers an element and places it in the tree. Registration is
// undone if the tree rejects the node.
func (n *Novel) attach(parent string, index int, id string, e *Element, register func(), unregister func()) error {
	if PrefixOf(id) != childPrefix(parent) || childPrefix(parent) == "" {
		return fmt.Errorf("%s below %s: %w", id, parent, ErrWrongParent)
	}
	if n.tree.Contains(id) {
		return fmt.Errorf("%s: %w", id, ErrDuplicateID)
	}
	register()
	if index < 0 {
		index = len(n.tree.Children(parent))
	}
	if err := n.tree.Insert(parent, index, id); err != nil {
		unregister()
		return err
	}
	n.hook(e)
	return nil
}

// InsertChapter places ch among the chapters at index; a negative index
// appends.
func (n *Novel) InsertChapter(ch *Chapter, index int) error {
	return n.attach(tree.ChapterRoot, index, ch.id, &ch.Element,
		func() {
			n.chapters[ch.id] = ch
			ch.trashCheck = n.checkTrashFlag
		},
		func() {
			delete(n.chapters, ch.id)
			ch.trashCheck = nil
		})
}

// AddChapter appends ch as the last chapter.
func (n *Novel) AddChapter(ch *Chapter) error { return n.InsertChapter(ch, -1) }

// InsertSection places sc in chapter chID at index; a negative index appends.
func (n *Novel) InsertSection(chID string, sc *Section, index int) error {
	if _, ok := n.chapters[chID]; !ok {
		return fmt.Errorf("chapter %s: %w", chID, ErrNotFound)
	}
	return n.attach(chID, index, sc.id, &sc.Element,
		func() { n.sections[sc.id] = sc },
		func() { delete(n.sections, sc.id) })
}

// AddSection appends sc to chapter chID.
func (n *Novel) AddSection(chID string, sc *Section) error { return n.InsertSection(chID, sc, -1) }

// AddCharacter appends c to the character list.
func (n *Novel) AddCharacter(c *Character) error {
	return n.attach(tree.CharacterRoot, -1, c.id, &c.Element,
		func() { n.characters[c.id] = c },
		func() { delete(n.characters, c.id) })
}

// AddLocation appends l to the location list.
func (n *Novel) AddLocation(l *Location) error {
	return n.attach(tree.LocationRoot, -1, l.id, &l.Element,
		func() { n.locations[l.id] = l },
		func() { delete(n.locations, l.id) })
}

// AddItem appends it to the item list.
func (n *Novel) AddItem(it *Item) error {
	return n.attach(tree.ItemRoot, -1, it.id, &it.Element,
		func() { n.items[it.id] = it },
		func() { delete(n.items, it.id) })
}

// AddPlotLine appends pl to the plot line list.
func (n *Novel) AddPlotLine(pl *PlotLine) error {
	return n.attach(tree.PlotLineRoot, -1, pl.id, &pl.Element,
		func() { n.plotLines[pl.id] = pl },
		func() { delete(n.plotLines, pl.id) })
}

// AddPlotPoint appends pp to plot line plID.
func (n *Novel) AddPlotPoint(plID string, pp *PlotPoint) error {
	if _, ok := n.plotLines[plID]; !ok {
		return fmt.Errorf("plot line %s: %w", plID, ErrNotFound)
	}
	return n.attach(plID, -1, pp.id, &pp.Element,
		func() { n.plotPoints[pp.id] = pp },
		func() { delete(n.plotPoints, pp.id) })
}

// AddProjectNote appends pn to the project notes.
func (n *Novel) AddProjectNote(pn *ProjectNote) error {
	return n.attach(tree.ProjectNoteRoot, -1, pn.id, &pn.Element,
		func() { n.projectNotes[pn.id] = pn },
		func() { delete(n.projectNotes, pn.id) })
}

func (n *Novel) Chapter(id string) *Chapter         { return n.chapters[id] }
func (n *Novel) Section(id string) *Section         { return n.sections[id] }
func (n *Novel) Character(id string) *Character     { return n.characters[id] }
func (n *Novel) Location(id string) *Location       { return n.locations[id] }
func (n *Novel) Item(id string) *Item               { return n.items[id] }
func (n *Novel) PlotLine(id string) *PlotLine       { return n.plotLines[id] }
func (n *Novel) PlotPoint(id string) *PlotPoint     { return n.plotPoints[id] }
func (n *Novel) ProjectNote(id string) *ProjectNote { return n.projectNotes[id] }

// Chapters returns all chapters in manuscript order.
func (n *Novel) Chapters() []*Chapter {
	return collect(n.tree.Children(tree.ChapterRoot), n.chapters)
}

// SectionsOf returns the sections of chapter chID in order.
func (n *Novel) SectionsOf(chID string) []*Section {
	return collect(n.tree.Children(chID), n.sections)
}

// Sections returns all sections in manuscript order.
func (n *Novel) Sections() []*Section {
	var out []*Section
	for _, chID := range n.tree.Children(tree.ChapterRoot) {
		out = append(out, n.SectionsOf(chID)...)
	}
	return out
}

func (n *Novel) Characters() []*Character {
	return collect(n.tree.Children(tree.CharacterRoot), n.characters)
}

func (n *Novel) Locations() []*Location {
	return collect(n.tree.Children(tree.LocationRoot), n.locations)
}

func (n *Novel) Items() []*Item {
	return collect(n.tree.Children(tree.ItemRoot), n.items)
}

func (n *Novel) PlotLines() []*PlotLine {
	return collect(n.tree.Children(tree.PlotLineRoot), n.plotLines)
}

// PlotPointsOf returns the plot points of plot line plID in order.
func (n *Novel) PlotPointsOf(plID string) []*PlotPoint {
	return collect(n.tree.Children(plID), n.plotPoints)
}

func (n *Novel) ProjectNotes() []*ProjectNote {
	return collect(n.tree.Children(tree.ProjectNoteRoot), n.projectNotes)
}

// ChapterOf returns the ID of the chapter holding section scID.
func (n *Novel) ChapterOf(scID string) string {
	if _, ok := n.sections[scID]; !ok {
		return ""
	}
	parent, _ := n.tree.Parent(scID)
	return parent
}

// TrashChapter returns the trash chapter, or nil.
func (n *Novel) TrashChapter() *Chapter {
	for _, ch := range n.Chapters() {
		if ch.IsTrash() {
			return ch
		}
	}
	return nil
}

func collect[T any](ids []string, byID map[string]*T) []*T {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}
