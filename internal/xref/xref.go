// Package xref derives read-only cross-reference indices from a project.
package xref

import (
	"maps"
	"slices"

	"github.com/rpggio/novx/internal/domain/novel"
)

// Index maps world elements and tags to the sections referring to them.
// Section lists are in manuscript order. Sections of the trash chapter are
// only listed in ChapterOfSection.
type Index struct {
	SectionsByCharacter map[string][]string
	SectionsByLocation  map[string][]string
	SectionsByItem      map[string][]string
	SectionsByTag       map[string][]string
	SectionsByViewpoint map[string][]string

	CharactersByTag map[string][]string
	LocationsByTag  map[string][]string
	ItemsByTag      map[string][]string

	ChapterOfSection map[string]string
	SectionOrder     []string
}

// Build computes a fresh index. The project is not modified.
func Build(n *novel.Novel) *Index {
	idx := &Index{
		SectionsByCharacter: make(map[string][]string),
		SectionsByLocation:  make(map[string][]string),
		SectionsByItem:      make(map[string][]string),
		SectionsByTag:       make(map[string][]string),
		SectionsByViewpoint: make(map[string][]string),
		CharactersByTag:     make(map[string][]string),
		LocationsByTag:      make(map[string][]string),
		ItemsByTag:          make(map[string][]string),
		ChapterOfSection:    make(map[string]string),
	}

	for _, c := range n.Characters() {
		idx.SectionsByCharacter[c.ID()] = []string{}
		addTags(idx.CharactersByTag, c.ID(), c.Tags())
	}
	for _, l := range n.Locations() {
		idx.SectionsByLocation[l.ID()] = []string{}
		addTags(idx.LocationsByTag, l.ID(), l.Tags())
	}
	for _, it := range n.Items() {
		idx.SectionsByItem[it.ID()] = []string{}
		addTags(idx.ItemsByTag, it.ID(), it.Tags())
	}

	for _, ch := range n.Chapters() {
		for _, sc := range n.SectionsOf(ch.ID()) {
			idx.ChapterOfSection[sc.ID()] = ch.ID()
			if ch.IsTrash() {
				continue
			}
			idx.SectionOrder = append(idx.SectionOrder, sc.ID())
			addRefs(idx.SectionsByCharacter, sc.ID(), sc.Characters())
			addRefs(idx.SectionsByLocation, sc.ID(), sc.Locations())
			addRefs(idx.SectionsByItem, sc.ID(), sc.Items())
			addTags(idx.SectionsByTag, sc.ID(), sc.Tags())
			if vp := sc.Viewpoint(); vp != "" {
				idx.SectionsByViewpoint[vp] = append(idx.SectionsByViewpoint[vp], sc.ID())
			}
		}
	}
	return idx
}

// addRefs appends id under each known key. Unknown keys are dangling
// references and are skipped.
func addRefs(m map[string][]string, id string, keys []string) {
	for _, k := range keys {
		if list, ok := m[k]; ok {
			m[k] = append(list, id)
		}
	}
}

func addTags(m map[string][]string, id string, tags []string) {
	for _, tag := range tags {
		m[tag] = append(m[tag], id)
	}
}

// Tags returns the sorted set of keys of a tag index.
func Tags(m map[string][]string) []string {
	return slices.Sorted(maps.Keys(m))
}
