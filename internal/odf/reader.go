package odf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
)

func readText(path string) ([]Paragraph, error) {
	content, err := ReadPart(path, "content.xml")
	if err != nil {
		return nil, err
	}
	return ParseText(content)
}

func readSheet(path string) ([][]string, error) {
	content, err := ReadPart(path, "content.xml")
	if err != nil {
		return nil, err
	}
	tables, err := ParseSheet(content)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("table in %s: %w", path, ErrMissingPart)
	}
	return tables[0].Rows, nil
}

// bySection groups the body paragraphs of named text sections, keeping
// the section order of the document.
func bySection(paras []Paragraph, markup bool) ([]string, map[string][]string) {
	var order []string
	groups := make(map[string][]string)
	for _, p := range paras {
		if p.Section == "" || p.Heading > 0 {
			continue
		}
		if _, ok := groups[p.Section]; !ok {
			order = append(order, p.Section)
		}
		line := p.Text
		if markup {
			line = p.Markup
		}
		groups[p.Section] = append(groups[p.Section], line)
	}
	return order, groups
}

// Merge reads an edited export document back into its project and
// reports the number of elements it updated. Elements the document names
// but the project lacks are skipped.
func Merge(path string, k format.Kind, n *novel.Novel) (int, error) {
	merged := 0
	err := n.Batch(func() error {
		var err error
		switch k {
		case format.Manuscript, format.ChapterDesc, format.SectionDesc:
			merged, err = mergeText(path, k, n)
		case format.SectionList:
			merged, err = mergeSheet(path, sectionColumns, func(id string) (*novel.Section, bool) {
				sc := n.Section(id)
				return sc, sc != nil
			})
		case format.CharacterList:
			merged, err = mergeSheet(path, characterColumns, func(id string) (*novel.Character, bool) {
				c := n.Character(id)
				return c, c != nil
			})
		case format.LocationList:
			merged, err = mergeSheet(path, worldColumns, func(id string) (*novel.WorldElement, bool) {
				if l := n.Location(id); l != nil {
					return &l.WorldElement, true
				}
				return nil, false
			})
		case format.ItemList:
			merged, err = mergeSheet(path, worldColumns, func(id string) (*novel.WorldElement, bool) {
				if it := n.Item(id); it != nil {
					return &it.WorldElement, true
				}
				return nil, false
			})
		default:
			return fmt.Errorf("%s cannot be read back: %w", k, format.ErrUnsupportedType)
		}
		return err
	})
	return merged, err
}

func mergeSheet[T any](path string, cols []column[T], lookup func(id string) (T, bool)) (int, error) {
	rows, err := readSheet(path)
	if err != nil {
		return 0, err
	}
	return mergeRows(rows, cols, lookup)
}

func mergeText(path string, k format.Kind, n *novel.Novel) (int, error) {
	paras, err := readText(path)
	if err != nil {
		return 0, err
	}
	order, groups := bySection(paras, k == format.Manuscript)
	merged := 0
	for _, name := range order {
		text := strings.Join(groups[name], "\n")
		switch k {
		case format.Manuscript:
			if sc := n.Section(name); sc != nil {
				sc.SetContent(text)
				merged++
			}
		case format.SectionDesc:
			if sc := n.Section(name); sc != nil {
				sc.SetDesc(text)
				merged++
			}
		case format.ChapterDesc:
			if ch := n.Chapter(name); ch != nil {
				ch.SetDesc(text)
				merged++
			}
		}
	}
	return merged, nil
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return lines
}

func defaultTitle(n *novel.Novel, path string) {
	if n.Title() == "" {
		n.SetTitle(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
}

// ReadOutline builds a new project from an outline: level 1 headings are
// parts, level 2 chapters, level 3 sections. Body paragraphs describe the
// element above them.
func ReadOutline(path string) (*novel.Novel, error) {
	paras, err := readText(path)
	if err != nil {
		return nil, err
	}
	n := novel.New()
	err = n.Batch(func() error {
		cur := &n.Element
		var lines []string
		var chID string
		flush := func() {
			if lines = trimBlank(lines); len(lines) > 0 {
				cur.SetDesc(strings.Join(lines, "\n"))
			}
			lines = nil
		}
		for _, p := range paras {
			title := strings.TrimSpace(p.Text)
			switch {
			case p.Style == "Title":
				n.SetTitle(title)
			case p.Style == "Subtitle":
				n.SetAuthorName(title)
			case p.Heading == 1 || p.Heading == 2:
				flush()
				level := novel.LevelChapter
				if p.Heading == 1 {
					level = novel.LevelPart
				}
				ch, err := n.CreateChapter(title, level)
				if err != nil {
					return err
				}
				chID, cur = ch.ID(), &ch.Element
			case p.Heading >= 3:
				flush()
				if chID == "" {
					ch, err := n.CreateChapter("", novel.LevelChapter)
					if err != nil {
						return err
					}
					chID = ch.ID()
				}
				sc, err := n.CreateSection(chID, title)
				if err != nil {
					return err
				}
				cur = &sc.Element
			default:
				lines = append(lines, p.Text)
			}
		}
		flush()
		defaultTitle(n, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading outline %s: %w", path, err)
	}
	return n, nil
}

// ReadDocument builds a new project from a work in progress: level 1
// headings are parts, level 2 chapters and deeper headings start titled
// sections. Body paragraphs become section content, keeping emphasis.
func ReadDocument(path string) (*novel.Novel, error) {
	paras, err := readText(path)
	if err != nil {
		return nil, err
	}
	n := novel.New()
	err = n.Batch(func() error {
		var (
			ch    *novel.Chapter
			sc    *novel.Section
			lines []string
		)
		flush := func() {
			if sc != nil {
				sc.SetContent(strings.Join(trimBlank(lines), "\n"))
			}
			lines = nil
		}
		openSection := func(title string) error {
			flush()
			if ch == nil {
				c, err := n.CreateChapter(fmt.Sprintf("Chapter %d", len(n.Chapters())+1), novel.LevelChapter)
				if err != nil {
					return err
				}
				ch = c
			}
			s, err := n.CreateSection(ch.ID(), title)
			if err != nil {
				return err
			}
			sc = s
			return nil
		}
		for _, p := range paras {
			title := strings.TrimSpace(p.Text)
			switch {
			case p.Style == "Title":
				n.SetTitle(title)
			case p.Style == "Subtitle":
				n.SetAuthorName(title)
			case p.Heading == 1 || p.Heading == 2:
				flush()
				level := novel.LevelChapter
				if p.Heading == 1 {
					level = novel.LevelPart
				}
				c, err := n.CreateChapter(title, level)
				if err != nil {
					return err
				}
				ch, sc = c, nil
			case p.Heading >= 3:
				if err := openSection(title); err != nil {
					return err
				}
			default:
				if sc == nil {
					if title == "" {
						continue
					}
					if err := openSection(""); err != nil {
						return err
					}
				}
				lines = append(lines, p.Markup)
			}
		}
		flush()
		defaultTitle(n, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	return n, nil
}
