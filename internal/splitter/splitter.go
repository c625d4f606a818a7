// Package splitter turns divider lines typed into chapter descriptions,
// section contents and stage descriptions into new chapters and sections.
//
// Dividers start a line and are followed by a space or the line end:
//
//	#! Title   new part
//	# Title    new chapter
//	## Title   new section
//	##+        continue the current section
package splitter

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
)

// Splitter rewrites project structure from divider markup.
type Splitter struct {
	logger *slog.Logger
}

// New creates a Splitter.
func New(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Splitter{logger: logger}
}

// SplitChapters splits chapter descriptions at part and chapter dividers.
// Each divider creates a chapter right after the previous one; the lines
// following it become the new chapter's description.
func (s *Splitter) SplitChapters(n *novel.Novel) (bool, error) {
	changed := false
	err := n.Batch(func() error {
		for _, origin := range regularChapters(n) {
			lines := strings.Split(origin.Desc(), "\n")
			if !hasDivider(lines, false, partDivider, chapterDivider) {
				continue
			}
			current := origin
			var buf []string
			for _, line := range lines {
				kind, title := parseDivider(line)
				if kind != partDivider && kind != chapterDivider {
					buf = append(buf, line)
					continue
				}
				current.SetDesc(strings.Join(buf, "\n"))
				buf = nil
				next, err := newChapterAfter(n, current, title, kind)
				if err != nil {
					return err
				}
				s.logger.Debug("chapter split", "origin", origin.ID(), "new", next.ID())
				current = next
				changed = true
			}
			current.SetDesc(strings.Join(buf, "\n"))
		}
		return nil
	})
	return changed, err
}

// SplitSections splits section contents. A part or chapter divider creates
// a chapter after the current one and moves the rest of the origin
// chapter's sections into it; text between that divider and the next
// section divider becomes an untitled section. A section divider creates a
// section after the current one with the origin's status and type. An
// append divider keeps collecting into the current section.
func (s *Splitter) SplitSections(n *novel.Novel) (bool, error) {
	changed := false
	err := n.Batch(func() error {
		for _, ch := range regularChapters(n) {
			for _, origin := range n.SectionsOf(ch.ID()) {
				lines := strings.Split(origin.Content(), "\n")
				if !hasDivider(lines, true, partDivider, chapterDivider, sectionDivider, appendDivider) {
					continue
				}
				created, err := s.splitSection(n, origin, lines)
				if err != nil {
					return err
				}
				if created {
					changed = true
				}
			}
		}
		return nil
	})
	return changed, err
}

// splitSection reports whether it created a chapter or section.
func (s *Splitter) splitSection(n *novel.Novel, origin *novel.Section, lines []string) (bool, error) {
	chapter := n.Chapter(n.ChapterOf(origin.ID()))
	current := origin
	created := false
	var buf []string

	// flush stores the collected lines in the current section, creating an
	// untitled one at the top of the chapter after a chapter divider.
	flush := func() error {
		if current == nil {
			if strings.TrimSpace(strings.Join(buf, "")) == "" {
				buf = nil
				return nil
			}
			sc, err := newSectionAt(n, chapter.ID(), 0, "", origin)
			if err != nil {
				return err
			}
			current = sc
			created = true
		}
		current.SetContent(strings.Join(buf, "\n"))
		buf = nil
		return nil
	}

	for _, line := range lines {
		kind, title := parseDivider(plain(line))
		switch kind {
		case partDivider, chapterDivider:
			if err := flush(); err != nil {
				return false, err
			}
			next, err := newChapterAfter(n, chapter, title, kind)
			if err != nil {
				return false, err
			}
			if err := moveFollowing(n, chapter.ID(), current, next.ID()); err != nil {
				return false, err
			}
			s.logger.Debug("chapter split from section", "origin", origin.ID(), "new", next.ID())
			chapter = next
			current = nil
			created = true
		case sectionDivider:
			if err := flush(); err != nil {
				return false, err
			}
			index := 0
			if current != nil {
				index = n.Tree().IndexOf(current.ID()) + 1
			}
			sc, err := newSectionAt(n, chapter.ID(), index, title, origin)
			if err != nil {
				return false, err
			}
			s.logger.Debug("section split", "origin", origin.ID(), "new", sc.ID())
			current = sc
			created = true
		case appendDivider:
		default:
			buf = append(buf, line)
		}
	}
	if err := flush(); err != nil {
		return false, err
	}
	return created, nil
}

// SplitStages splits the descriptions of stage sections: "#" starts a
// level 1 stage and "##" a level 2 stage. New stages have no content.
func (s *Splitter) SplitStages(n *novel.Novel) (bool, error) {
	changed := false
	err := n.Batch(func() error {
		for _, ch := range regularChapters(n) {
			for _, origin := range n.SectionsOf(ch.ID()) {
				if !origin.Type().IsStage() {
					continue
				}
				lines := strings.Split(origin.Desc(), "\n")
				if !hasDivider(lines, false, chapterDivider, sectionDivider) {
					continue
				}
				current := origin
				var buf []string
				for _, line := range lines {
					kind, title := parseDivider(line)
					if kind != chapterDivider && kind != sectionDivider {
						buf = append(buf, line)
						continue
					}
					current.SetDesc(strings.Join(buf, "\n"))
					buf = nil

					level := 1
					if kind == sectionDivider {
						level = 2
					}
					sc := novel.NewSection(n.NewID(novel.SectionPrefix))
					sc.SetTitle(title)
					sc.SetType(novel.StageType(level))
					if err := n.InsertSection(ch.ID(), sc, n.Tree().IndexOf(current.ID())+1); err != nil {
						return err
					}
					s.logger.Debug("stage split", "origin", origin.ID(), "new", sc.ID(), "level", level)
					current = sc
					changed = true
				}
				current.SetDesc(strings.Join(buf, "\n"))
			}
		}
		return nil
	})
	return changed, err
}

func regularChapters(n *novel.Novel) []*novel.Chapter {
	var out []*novel.Chapter
	for _, ch := range n.Chapters() {
		if !ch.IsTrash() {
			out = append(out, ch)
		}
	}
	return out
}

func hasDivider(lines []string, markup bool, kinds ...divider) bool {
	for _, line := range lines {
		if markup {
			line = plain(line)
		}
		kind, _ := parseDivider(line)
		for _, k := range kinds {
			if kind == k {
				return true
			}
		}
	}
	return false
}

func newChapterAfter(n *novel.Novel, after *novel.Chapter, title string, kind divider) (*novel.Chapter, error) {
	ch := novel.NewChapter(n.NewID(novel.ChapterPrefix))
	ch.SetTitle(title)
	ch.SetType(after.Type())
	if kind == partDivider {
		ch.SetLevel(novel.LevelPart)
	}
	if err := n.InsertChapter(ch, n.Tree().IndexOf(after.ID())+1); err != nil {
		return nil, err
	}
	return ch, nil
}

func newSectionAt(n *novel.Novel, chID string, index int, title string, origin *novel.Section) (*novel.Section, error) {
	sc := novel.NewSection(n.NewID(novel.SectionPrefix))
	sc.SetTitle(title)
	sc.SetStatus(origin.Status())
	sc.SetType(origin.Type())
	if err := n.InsertSection(chID, sc, index); err != nil {
		return nil, err
	}
	return sc, nil
}

// moveFollowing moves the sections of chapter from that come after the
// section after into chapter to, keeping their order. A nil after moves
// them all.
func moveFollowing(n *novel.Novel, from string, after *novel.Section, to string) error {
	start := 0
	if after != nil {
		start = n.Tree().IndexOf(after.ID()) + 1
	}
	kids := n.Tree().Children(from)
	for i, id := range kids[start:] {
		if err := n.Tree().Move(id, to, i); err != nil {
			return err
		}
	}
	return nil
}
