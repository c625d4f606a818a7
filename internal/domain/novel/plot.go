package novel

import "slices"

// PlotLine is a narrative thread running through a list of sections.
type PlotLine struct {
	Element
	shortName string
	notes     string
	sections  []string
}

// NewPlotLine creates an empty plot line.
func NewPlotLine(id string) *PlotLine {
	return &PlotLine{Element: Element{id: id}}
}

func (p *PlotLine) ShortName() string     { return p.shortName }
func (p *PlotLine) SetShortName(v string) { setValue(&p.Element, &p.shortName, v) }
func (p *PlotLine) Notes() string         { return p.notes }
func (p *PlotLine) SetNotes(v string)     { setValue(&p.Element, &p.notes, v) }

// Sections returns the associated section IDs in order. The list is
// maintained by Novel.LinkSection and Novel.UnlinkSection.
func (p *PlotLine) Sections() []string { return slices.Clone(p.sections) }

func (p *PlotLine) setSections(v []string) { setList(&p.Element, &p.sections, v) }

// PlotPoint is a beat of a plot line, placed in at most one section.
type PlotPoint struct {
	Element
	notes   string
	section string
}

// NewPlotPoint creates an unplaced plot point.
func NewPlotPoint(id string) *PlotPoint {
	return &PlotPoint{Element: Element{id: id}}
}

func (p *PlotPoint) Notes() string     { return p.notes }
func (p *PlotPoint) SetNotes(v string) { setValue(&p.Element, &p.notes, v) }

// Section returns the associated section ID, or "" if the point is unplaced.
func (p *PlotPoint) Section() string { return p.section }

func (p *PlotPoint) setSection(v string) { setValue(&p.Element, &p.section, v) }

// ProjectNote is a free-form note attached to the project.
type ProjectNote struct {
	Element
}

// NewProjectNote creates an empty project note.
func NewProjectNote(id string) *ProjectNote {
	return &ProjectNote{Element: Element{id: id}}
}
