package format

import (
	"fmt"
	"slices"

	"github.com/rpggio/novx/internal/domain/novel"
)

// Filter decides which chapters and sections an export includes. Nil
// predicates accept everything.
type Filter struct {
	Chapter func(id string) bool
	Section func(id string) bool
}

func (f Filter) AcceptsChapter(id string) bool {
	return f.Chapter == nil || f.Chapter(id)
}

func (f Filter) AcceptsSection(id string) bool {
	return f.Section == nil || f.Section(id)
}

// ByCharacter accepts sections crID takes part in, and the chapters
// holding them.
func ByCharacter(n *novel.Novel, crID string) Filter {
	return bySection(n, func(sc *novel.Section) bool {
		return slices.Contains(sc.Characters(), crID)
	})
}

// ByPlotLine accepts the sections of plot line plID, and the chapters
// holding them.
func ByPlotLine(n *novel.Novel, plID string) Filter {
	return bySection(n, func(sc *novel.Section) bool {
		return slices.Contains(sc.PlotLines(), plID)
	})
}

// ByTag accepts sections tagged tag, and the chapters holding them.
func ByTag(n *novel.Novel, tag string) Filter {
	return bySection(n, func(sc *novel.Section) bool {
		return slices.Contains(sc.Tags(), tag)
	})
}

// Selection names export filter criteria. At most one applies: a
// character wins over a plot line, a plot line over a tag.
type Selection struct {
	Character string
	PlotLine  string
	Tag       string
}

func (s Selection) IsZero() bool {
	return s == Selection{}
}

// Filter resolves the selection against n. Unknown characters and plot
// lines are reported; an unused tag selects nothing.
func (s Selection) Filter(n *novel.Novel) (Filter, error) {
	switch {
	case s.Character != "":
		if n.Character(s.Character) == nil {
			return Filter{}, fmt.Errorf("character %s: %w", s.Character, novel.ErrNotFound)
		}
		return ByCharacter(n, s.Character), nil
	case s.PlotLine != "":
		if n.PlotLine(s.PlotLine) == nil {
			return Filter{}, fmt.Errorf("plot line %s: %w", s.PlotLine, novel.ErrNotFound)
		}
		return ByPlotLine(n, s.PlotLine), nil
	case s.Tag != "":
		return ByTag(n, s.Tag), nil
	}
	return Filter{}, nil
}

func bySection(n *novel.Novel, keep func(*novel.Section) bool) Filter {
	return Filter{
		Chapter: func(id string) bool {
			for _, sc := range n.SectionsOf(id) {
				if keep(sc) {
					return true
				}
			}
			return false
		},
		Section: func(id string) bool {
			sc := n.Section(id)
			return sc != nil && keep(sc)
		},
	}
}
