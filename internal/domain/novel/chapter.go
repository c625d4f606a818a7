package novel

import "fmt"

// ChapterLevel distinguishes parts from chapters.
type ChapterLevel int

const (
	LevelPart    ChapterLevel = 1
	LevelChapter ChapterLevel = 2
)

// Valid reports whether l is a known level.
func (l ChapterLevel) Valid() bool {
	return l == LevelPart || l == LevelChapter
}

// ChapterType marks a chapter as part of the manuscript or not.
type ChapterType int

const (
	ChapterNormal ChapterType = 0
	ChapterUnused ChapterType = 1
)

// Valid reports whether t is a known chapter type.
func (t ChapterType) Valid() bool {
	return t == ChapterNormal || t == ChapterUnused
}

// Chapter groups sections. A part is a chapter of level 1.
type Chapter struct {
	Element
	notes       string
	level       ChapterLevel
	chType      ChapterType
	noNumber    bool
	isTrash     bool
	epigraph    string
	epigraphSrc string

	// trashCheck vets trash flag changes once the chapter is in a project.
	trashCheck func(id string, trash bool) error
}

// NewChapter creates a normal chapter of level 2.
func NewChapter(id string) *Chapter {
	return &Chapter{Element: Element{id: id}, level: LevelChapter}
}

func (c *Chapter) Notes() string              { return c.notes }
func (c *Chapter) SetNotes(v string)          { setValue(&c.Element, &c.notes, v) }
func (c *Chapter) Level() ChapterLevel        { return c.level }
func (c *Chapter) SetLevel(v ChapterLevel)    { setValue(&c.Element, &c.level, v) }
func (c *Chapter) Type() ChapterType          { return c.chType }
func (c *Chapter) SetType(v ChapterType)      { setValue(&c.Element, &c.chType, v) }
func (c *Chapter) NoNumber() bool             { return c.noNumber }
func (c *Chapter) SetNoNumber(v bool)         { setValue(&c.Element, &c.noNumber, v) }
func (c *Chapter) IsTrash() bool              { return c.isTrash }
func (c *Chapter) Epigraph() string           { return c.epigraph }
func (c *Chapter) SetEpigraph(v string)       { setValue(&c.Element, &c.epigraph, v) }
func (c *Chapter) EpigraphSrc() string        { return c.epigraphSrc }
func (c *Chapter) SetEpigraphSrc(v string)    { setValue(&c.Element, &c.epigraphSrc, v) }

// SetIsTrash marks the chapter as the trash bin. Inside a project the change
// is refused when it would leave a second trash chapter or one that isn't
// last.
func (c *Chapter) SetIsTrash(v bool) error {
	if c.isTrash == v {
		return nil
	}
	if c.trashCheck != nil {
		if err := c.trashCheck(c.id, v); err != nil {
			return fmt.Errorf("chapter %s: %w", c.id, err)
		}
	}
	setValue(&c.Element, &c.isTrash, v)
	return nil
}
