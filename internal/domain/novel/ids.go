package novel

import (
	"strconv"
	"strings"

	"github.com/rpggio/novx/internal/domain/tree"
)

// ID prefixes, one namespace per element type.
const (
	ChapterPrefix     = "ch"
	SectionPrefix     = "sc"
	CharacterPrefix   = "cr"
	LocationPrefix    = "lc"
	ItemPrefix        = "it"
	PlotLinePrefix    = "ac"
	PlotPointPrefix   = "ap"
	ProjectNotePrefix = "pn"
)

var prefixes = []string{
	ChapterPrefix, SectionPrefix, CharacterPrefix, LocationPrefix,
	ItemPrefix, PlotLinePrefix, PlotPointPrefix, ProjectNotePrefix,
}

// PrefixOf returns the type prefix of id, or "" if id isn't a well formed
// element ID.
func PrefixOf(id string) string {
	if len(id) < 3 {
		return ""
	}
	for _, p := range prefixes {
		if strings.HasPrefix(id, p) {
			if _, err := strconv.Atoi(id[len(p):]); err == nil {
				return p
			}
		}
	}
	return ""
}

// NewID returns prefix followed by the smallest positive integer for which
// taken reports false.
func NewID(prefix string, taken func(string) bool) string {
	for i := 1; ; i++ {
		id := prefix + strconv.Itoa(i)
		if !taken(id) {
			return id
		}
	}
}

// childPrefix returns the prefix of elements allowed below parent, or "" if
// parent takes no children.
func childPrefix(parent string) string {
	switch parent {
	case tree.ChapterRoot:
		return ChapterPrefix
	case tree.CharacterRoot:
		return CharacterPrefix
	case tree.LocationRoot:
		return LocationPrefix
	case tree.ItemRoot:
		return ItemPrefix
	case tree.PlotLineRoot:
		return PlotLinePrefix
	case tree.ProjectNoteRoot:
		return ProjectNotePrefix
	}
	switch PrefixOf(parent) {
	case ChapterPrefix:
		return SectionPrefix
	case PlotLinePrefix:
		return PlotPointPrefix
	}
	return ""
}
