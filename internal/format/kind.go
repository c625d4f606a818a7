// Package format is the registry of document kinds the converter handles.
// Every kind is addressed by a filename suffix and an extension.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType indicates a file no candidate kind matches.
var ErrUnsupportedType = errors.New("unsupported file type")

// Kind is a document kind.
type Kind int

const (
	Novx Kind = iota
	NovxZip
	Manuscript
	ChapterDesc
	SectionDesc
	BriefSynopsis
	SectionList
	CharacterList
	LocationList
	ItemList
	PlotList
	Data
	OutlineImport
	DocumentImport
)

// Descriptor holds the addressing data of a kind.
type Descriptor struct {
	Name        string
	Suffix      string
	Extension   string
	Description string
	// Reimport marks export kinds that can be read back into their project.
	Reimport bool
}

var descriptors = [...]Descriptor{
	Novx:           {"novx", "", ".novx", "novx project", false},
	NovxZip:        {"novx_zip", "", ".zip", "Zipped novx project", false},
	Manuscript:     {"manuscript", "_manuscript", ".odt", "Editable manuscript", true},
	ChapterDesc:    {"chapter_desc", "_chapter_desc", ".odt", "Chapter descriptions", true},
	SectionDesc:    {"section_desc", "_section_desc", ".odt", "Section descriptions", true},
	BriefSynopsis:  {"brief_synopsis", "_brief_synopsis", ".odt", "Brief synopsis", false},
	SectionList:    {"section_list", "_section_list", ".ods", "Section list", true},
	CharacterList:  {"character_list", "_character_list", ".ods", "Character list", true},
	LocationList:   {"location_list", "_location_list", ".ods", "Location list", true},
	ItemList:       {"item_list", "_item_list", ".ods", "Item list", true},
	PlotList:       {"plot_list", "_plot_list", ".ods", "Plot list", false},
	Data:           {"data", "_data", ".xml", "XML data files", false},
	OutlineImport:  {"outline", "", ".odt", "Novel outline", false},
	DocumentImport: {"document", "", ".odt", "Work in progress", false},
}

// Kinds lists every registered kind.
func Kinds() []Kind {
	out := make([]Kind, len(descriptors))
	for i := range descriptors {
		out[i] = Kind(i)
	}
	return out
}

// Descriptor returns the addressing data of k.
func (k Kind) Descriptor() Descriptor {
	if k < 0 || int(k) >= len(descriptors) {
		return Descriptor{}
	}
	return descriptors[k]
}

func (k Kind) String() string {
	if d := k.Descriptor(); d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Matches reports whether path ends in the kind's suffix and extension.
// Extensions compare case-insensitively.
func (k Kind) Matches(path string) bool {
	d := k.Descriptor()
	if d.Extension == "" {
		return false
	}
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, d.Extension) {
		return false
	}
	stem := strings.TrimSuffix(base, ext)
	return d.Suffix == "" || (strings.HasSuffix(stem, d.Suffix) && len(stem) > len(d.Suffix))
}

// Path returns the document path of kind k for the project at
// projectPath.
func (k Kind) Path(projectPath string) string {
	d := k.Descriptor()
	return stem(projectPath) + d.Suffix + d.Extension
}

// ProjectPath returns the project file a document of kind k was exported
// from.
func (k Kind) ProjectPath(docPath string) string {
	s := stem(docPath)
	return strings.TrimSuffix(s, k.Descriptor().Suffix) + descriptors[Novx].Extension
}

// ParseKind looks a kind up by name or suffix, with or without the leading
// underscore.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "_")
	for i, d := range descriptors {
		if d.Name == s || (d.Suffix != "" && d.Suffix[1:] == s) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnsupportedType)
}

// Select returns the first candidate matching path.
func Select(candidates []Kind, path string) (Kind, error) {
	for _, k := range candidates {
		if k.Matches(path) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedType)
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
