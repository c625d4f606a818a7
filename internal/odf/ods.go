package odf

import (
	"fmt"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/rpggio/novx/internal/novx"
)

const sheetHeader = contentHeader + `  <office:spreadsheet>
   <table:table table:name="${Table}">
`

const sheetFooter = `   </table:table>
  </office:spreadsheet>
 </office:body>
</office:document-content>
`

// column maps one spreadsheet column to an element field. Columns without
// a setter are not read back.
type column[T any] struct {
	header string
	get    func(T) string
	set    func(T, string)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return ""
}

func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "x", "1", "true":
		return true
	}
	return false
}

var sectionColumns = []column[*novel.Section]{
	{"ID", func(s *novel.Section) string { return s.ID() }, nil},
	{"Title", func(s *novel.Section) string { return s.Title() }, func(s *novel.Section, v string) { s.SetTitle(v) }},
	{"Description", func(s *novel.Section) string { return s.Desc() }, func(s *novel.Section, v string) { s.SetDesc(v) }},
	{"Status", func(s *novel.Section) string { return s.Status().String() }, func(s *novel.Section, v string) {
		if st, ok := novel.ParseStatus(strings.TrimSpace(v)); ok {
			s.SetStatus(st)
		}
	}},
	{"Tags", func(s *novel.Section) string { return novx.JoinTags(s.Tags()) }, func(s *novel.Section, v string) { s.SetTags(novx.SplitTags(v)) }},
	{"Date", func(s *novel.Section) string { return s.Date() }, func(s *novel.Section, v string) { _ = s.SetDate(strings.TrimSpace(v)) }},
	{"Time", func(s *novel.Section) string { return s.Time() }, func(s *novel.Section, v string) { _ = s.SetTime(strings.TrimSpace(v)) }},
	{"Goal", func(s *novel.Section) string { return s.Goal() }, func(s *novel.Section, v string) { s.SetGoal(v) }},
	{"Conflict", func(s *novel.Section) string { return s.Conflict() }, func(s *novel.Section, v string) { s.SetConflict(v) }},
	{"Outcome", func(s *novel.Section) string { return s.Outcome() }, func(s *novel.Section, v string) { s.SetOutcome(v) }},
	{"Notes", func(s *novel.Section) string { return s.Notes() }, func(s *novel.Section, v string) { s.SetNotes(v) }},
}

var characterColumns = []column[*novel.Character]{
	{"ID", func(c *novel.Character) string { return c.ID() }, nil},
	{"Name", func(c *novel.Character) string { return c.Title() }, func(c *novel.Character, v string) { c.SetTitle(v) }},
	{"Full name", func(c *novel.Character) string { return c.FullName() }, func(c *novel.Character, v string) { c.SetFullName(v) }},
	{"Aka", func(c *novel.Character) string { return c.Aka() }, func(c *novel.Character, v string) { c.SetAka(v) }},
	{"Description", func(c *novel.Character) string { return c.Desc() }, func(c *novel.Character, v string) { c.SetDesc(v) }},
	{"Bio", func(c *novel.Character) string { return c.Bio() }, func(c *novel.Character, v string) { c.SetBio(v) }},
	{"Goals", func(c *novel.Character) string { return c.Goals() }, func(c *novel.Character, v string) { c.SetGoals(v) }},
	{"Notes", func(c *novel.Character) string { return c.Notes() }, func(c *novel.Character, v string) { c.SetNotes(v) }},
	{"Tags", func(c *novel.Character) string { return novx.JoinTags(c.Tags()) }, func(c *novel.Character, v string) { c.SetTags(novx.SplitTags(v)) }},
	{"Major", func(c *novel.Character) string { return yesNo(c.IsMajor()) }, func(c *novel.Character, v string) { c.SetIsMajor(parseYes(v)) }},
	{"Birth date", func(c *novel.Character) string { return c.BirthDate() }, func(c *novel.Character, v string) { _ = c.SetBirthDate(strings.TrimSpace(v)) }},
	{"Death date", func(c *novel.Character) string { return c.DeathDate() }, func(c *novel.Character, v string) { _ = c.SetDeathDate(strings.TrimSpace(v)) }},
}

// worldColumns serve locations and items.
var worldColumns = []column[*novel.WorldElement]{
	{"ID", func(w *novel.WorldElement) string { return w.ID() }, nil},
	{"Name", func(w *novel.WorldElement) string { return w.Title() }, func(w *novel.WorldElement, v string) { w.SetTitle(v) }},
	{"Aka", func(w *novel.WorldElement) string { return w.Aka() }, func(w *novel.WorldElement, v string) { w.SetAka(v) }},
	{"Description", func(w *novel.WorldElement) string { return w.Desc() }, func(w *novel.WorldElement, v string) { w.SetDesc(v) }},
	{"Notes", func(w *novel.WorldElement) string { return w.Notes() }, func(w *novel.WorldElement, v string) { w.SetNotes(v) }},
	{"Tags", func(w *novel.WorldElement) string { return novx.JoinTags(w.Tags()) }, func(w *novel.WorldElement, v string) { w.SetTags(novx.SplitTags(v)) }},
}

func plotColumns(n *novel.Novel) []column[*novel.PlotLine] {
	return []column[*novel.PlotLine]{
		{"ID", func(p *novel.PlotLine) string { return p.ID() }, nil},
		{"Title", func(p *novel.PlotLine) string { return p.Title() }, nil},
		{"Short name", func(p *novel.PlotLine) string { return p.ShortName() }, nil},
		{"Description", func(p *novel.PlotLine) string { return p.Desc() }, nil},
		{"Sections", func(p *novel.PlotLine) string {
			var titles []string
			for _, id := range p.Sections() {
				if sc := n.Section(id); sc != nil {
					titles = append(titles, sc.Title())
				}
			}
			return strings.Join(titles, "\n")
		}, nil},
	}
}

func tabulate[T any](cols []column[T], elems []T) [][]string {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.header
	}
	rows := [][]string{header}
	for _, e := range elems {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.get(e)
		}
		rows = append(rows, row)
	}
	return rows
}

func locations(n *novel.Novel) []*novel.WorldElement {
	var out []*novel.WorldElement
	for _, l := range n.Locations() {
		out = append(out, &l.WorldElement)
	}
	return out
}

func items(n *novel.Novel) []*novel.WorldElement {
	var out []*novel.WorldElement
	for _, it := range n.Items() {
		out = append(out, &it.WorldElement)
	}
	return out
}

// listedSections returns the normal sections outside the trash that the
// filter accepts, in reading order.
func listedSections(n *novel.Novel, f format.Filter) []*novel.Section {
	var out []*novel.Section
	for _, ch := range n.Chapters() {
		if ch.IsTrash() || !f.AcceptsChapter(ch.ID()) {
			continue
		}
		for _, sc := range n.SectionsOf(ch.ID()) {
			if sc.Type() == novel.SectionNormal && f.AcceptsSection(sc.ID()) {
				out = append(out, sc)
			}
		}
	}
	return out
}

// SheetWriter exports a project list as a spreadsheet.
type SheetWriter struct {
	Path   string
	Kind   format.Kind
	Filter format.Filter
}

func (w *SheetWriter) Write(n *novel.Novel) error {
	var rows [][]string
	switch w.Kind {
	case format.SectionList:
		rows = tabulate(sectionColumns, listedSections(n, w.Filter))
	case format.CharacterList:
		rows = tabulate(characterColumns, n.Characters())
	case format.LocationList:
		rows = tabulate(worldColumns, locations(n))
	case format.ItemList:
		rows = tabulate(worldColumns, items(n))
	case format.PlotList:
		rows = tabulate(plotColumns(n), n.PlotLines())
	default:
		return fmt.Errorf("%s as spreadsheet: %w", w.Kind, format.ErrUnsupportedType)
	}

	var b strings.Builder
	b.WriteString(Render(sheetHeader, map[string]string{"Table": escape(w.Kind.Descriptor().Description)}))
	for _, row := range rows {
		b.WriteString("    <table:table-row>")
		for _, v := range row {
			b.WriteString(`<table:table-cell office:value-type="string">`)
			for _, line := range strings.Split(v, "\n") {
				b.WriteString("<text:p>" + escape(line) + "</text:p>")
			}
			b.WriteString("</table:table-cell>")
		}
		b.WriteString("</table:table-row>\n")
	}
	b.WriteString(sheetFooter)

	doc := Document{
		Mimetype: mimeSpreadsheet,
		Content:  b.String(),
		Styles:   stylesTemplate,
		Meta:     Render(metaTemplate, projectValues(n)),
	}
	return doc.WriteFile(w.Path)
}

// mergeRows applies the cells of a sheet to the elements named in its ID
// column. Columns are matched by header, rows of unknown elements are
// skipped.
func mergeRows[T any](rows [][]string, cols []column[T], lookup func(id string) (T, bool)) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("sheet has no header row: %w", ErrMissingPart)
	}
	byHeader := make(map[string]column[T], len(cols))
	for _, c := range cols {
		byHeader[c.header] = c
	}
	idCol := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == "ID" {
			idCol = i
		}
	}
	if idCol < 0 {
		return 0, fmt.Errorf("sheet has no ID column: %w", ErrMissingPart)
	}

	merged := 0
	for _, row := range rows[1:] {
		if idCol >= len(row) {
			continue
		}
		e, ok := lookup(strings.TrimSpace(row[idCol]))
		if !ok {
			continue
		}
		for i, h := range rows[0] {
			c, ok := byHeader[strings.TrimSpace(h)]
			if !ok || c.set == nil {
				continue
			}
			v := ""
			if i < len(row) {
				v = row[i]
			}
			c.set(e, v)
		}
		merged++
	}
	return merged, nil
}
