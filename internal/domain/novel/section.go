package novel

import (
	"maps"
	"slices"
)

// SectionType marks a section as manuscript text, unused, or a story
// structure stage.
type SectionType int

const (
	SectionNormal SectionType = 0
	SectionUnused SectionType = 1
	SectionStage1 SectionType = 2
	SectionStage2 SectionType = 3
)

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	return t >= SectionNormal && t <= SectionStage2
}

// IsStage reports whether t is a stage marker.
func (t SectionType) IsStage() bool {
	return t == SectionStage1 || t == SectionStage2
}

// StageType returns the section type for stage level 1 or 2.
func StageType(level int) SectionType {
	if level == 2 {
		return SectionStage2
	}
	return SectionStage1
}

// Status is the completion status of a section.
type Status int

const (
	StatusOutline    Status = 1
	StatusDraft      Status = 2
	StatusFirstEdit  Status = 3
	StatusSecondEdit Status = 4
	StatusDone       Status = 5
)

var statusNames = map[Status]string{
	StatusOutline:    "Outline",
	StatusDraft:      "Draft",
	StatusFirstEdit:  "1st Edit",
	StatusSecondEdit: "2nd Edit",
	StatusDone:       "Done",
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s >= StatusOutline && s <= StatusDone
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Section is a scene. Content holds one <p> element per line.
type Section struct {
	Element
	notes        string
	content      string
	scType       SectionType
	status       Status
	characters   []string
	locations    []string
	items        []string
	tags         []string
	plotLines    []string
	plotPoints   map[string]string
	appendToPrev bool
	goal         string
	conflict     string
	outcome      string
	date         string
	time         string
}

// NewSection creates a normal section in outline status.
func NewSection(id string) *Section {
	return &Section{Element: Element{id: id}, status: StatusOutline}
}

func (s *Section) Notes() string            { return s.notes }
func (s *Section) SetNotes(v string)        { setValue(&s.Element, &s.notes, v) }
func (s *Section) Content() string          { return s.content }
func (s *Section) SetContent(v string)      { setValue(&s.Element, &s.content, v) }
func (s *Section) Type() SectionType        { return s.scType }
func (s *Section) SetType(v SectionType)    { setValue(&s.Element, &s.scType, v) }
func (s *Section) Status() Status           { return s.status }
func (s *Section) SetStatus(v Status)       { setValue(&s.Element, &s.status, v) }
func (s *Section) Characters() []string     { return slices.Clone(s.characters) }
func (s *Section) SetCharacters(v []string) { setList(&s.Element, &s.characters, v) }
func (s *Section) Locations() []string      { return slices.Clone(s.locations) }
func (s *Section) SetLocations(v []string)  { setList(&s.Element, &s.locations, v) }
func (s *Section) Items() []string          { return slices.Clone(s.items) }
func (s *Section) SetItems(v []string)      { setList(&s.Element, &s.items, v) }
func (s *Section) Tags() []string           { return slices.Clone(s.tags) }
func (s *Section) SetTags(v []string)       { setList(&s.Element, &s.tags, cleanTags(v)) }
func (s *Section) AppendToPrev() bool       { return s.appendToPrev }
func (s *Section) SetAppendToPrev(v bool)   { setValue(&s.Element, &s.appendToPrev, v) }
func (s *Section) Goal() string             { return s.goal }
func (s *Section) SetGoal(v string)         { setValue(&s.Element, &s.goal, v) }
func (s *Section) Conflict() string         { return s.conflict }
func (s *Section) SetConflict(v string)     { setValue(&s.Element, &s.conflict, v) }
func (s *Section) Outcome() string          { return s.outcome }
func (s *Section) SetOutcome(v string)      { setValue(&s.Element, &s.outcome, v) }
func (s *Section) Date() string             { return s.date }
func (s *Section) SetDate(v string) error   { return setDate(&s.Element, &s.date, v) }
func (s *Section) Time() string             { return s.time }
func (s *Section) SetTime(v string) error   { return setClock(&s.Element, &s.time, v) }

// Viewpoint returns the viewpoint character, which is the first character.
func (s *Section) Viewpoint() string {
	if len(s.characters) == 0 {
		return ""
	}
	return s.characters[0]
}

// SetViewpoint moves crID to the front of the character list, adding it if
// necessary.
func (s *Section) SetViewpoint(crID string) {
	rest, _ := removeID(s.characters, crID)
	s.SetCharacters(append([]string{crID}, rest...))
}

// PlotLines returns the IDs of the plot lines the section belongs to. The
// list is maintained by Novel.LinkSection and Novel.UnlinkSection.
func (s *Section) PlotLines() []string { return slices.Clone(s.plotLines) }

// PlotPoints maps plot point IDs to their plot line IDs. The map is
// maintained by Novel.AssignPlotPoint and Novel.ClearPlotPoint.
func (s *Section) PlotPoints() map[string]string { return maps.Clone(s.plotPoints) }

func (s *Section) setPlotLines(v []string)          { setList(&s.Element, &s.plotLines, v) }
func (s *Section) setPlotPoints(v map[string]string) { setMap(&s.Element, &s.plotPoints, v) }
