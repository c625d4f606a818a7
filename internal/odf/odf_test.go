package odf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/stretchr/testify/require"
)

func sampleNovel(t *testing.T) *novel.Novel {
	t.Helper()
	n := novel.New()
	n.SetTitle("The Road")
	n.SetAuthorName("A. Writer")

	ch, err := n.CreateChapter("Departure", novel.LevelChapter)
	require.NoError(t, err)
	ch.SetDesc("They leave.")
	a, err := n.CreateSection(ch.ID(), "Morning")
	require.NoError(t, err)
	a.SetContent("Hello <em>world</em>\nSecond &amp; line")
	a.SetDesc("Dawn breaks.")
	b, err := n.CreateSection(ch.ID(), "Noon")
	require.NoError(t, err)
	b.SetContent("<strong>Loud</strong> noon")

	cr, err := n.CreateCharacter("Alice")
	require.NoError(t, err)
	cr.SetIsMajor(true)
	cr.SetTags([]string{"hero", "pilot"})
	_, err = n.CreateLocation("Harbor")
	require.NoError(t, err)
	return n
}

func writeContent(t *testing.T, path, mime, content string) {
	t.Helper()
	doc := Document{Mimetype: mime, Content: content, Styles: stylesTemplate, Meta: metaTemplate}
	require.NoError(t, doc.WriteFile(path))
}

func TestRender(t *testing.T) {
	out := Render("<a>${Title}</a><b>${Missing}</b>$Title", map[string]string{"Title": "x"})
	require.Equal(t, "<a>x</a><b></b>$Title", out)
}

func TestTextWriter_Manuscript(t *testing.T) {
	n := sampleNovel(t)
	path := filepath.Join(t.TempDir(), "road_manuscript.odt")

	w := &TextWriter{Path: path, Kind: format.Manuscript}
	require.NoError(t, w.Write(n))

	mime, err := ReadPart(path, "mimetype")
	require.NoError(t, err)
	require.Equal(t, mimeText, string(mime))

	content, err := ReadPart(path, "content.xml")
	require.NoError(t, err)
	s := string(content)
	require.Contains(t, s, `<text:h text:style-name="Heading_20_2" text:outline-level="2">Departure</text:h>`)
	require.Contains(t, s, `text:name="sc1"`)
	require.Contains(t, s, `Hello <text:span text:style-name="Emphasis">world</text:span>`)
	require.Contains(t, s, `<text:span text:style-name="Strong_20_Emphasis">Loud</text:span> noon`)
	require.Equal(t, 1, strings.Count(s, "Section_20_mark"))

	meta, err := ReadPart(path, "meta.xml")
	require.NoError(t, err)
	require.Contains(t, string(meta), "<dc:title>The Road</dc:title>")
}

func TestMerge_ManuscriptRestoresContent(t *testing.T) {
	n := sampleNovel(t)
	path := filepath.Join(t.TempDir(), "road_manuscript.odt")
	require.NoError(t, (&TextWriter{Path: path, Kind: format.Manuscript}).Write(n))

	want := n.Section("sc1").Content()
	n.Section("sc1").SetContent("changed")
	n.Section("sc2").SetContent("changed")

	merged, err := Merge(path, format.Manuscript, n)
	require.NoError(t, err)
	require.Equal(t, 2, merged)
	require.Equal(t, want, n.Section("sc1").Content())
	require.Equal(t, "<strong>Loud</strong> noon", n.Section("sc2").Content())
}

func TestMerge_Descriptions(t *testing.T) {
	n := sampleNovel(t)
	dir := t.TempDir()

	chPath := filepath.Join(dir, "road_chapter_desc.odt")
	require.NoError(t, (&TextWriter{Path: chPath, Kind: format.ChapterDesc}).Write(n))
	scPath := filepath.Join(dir, "road_section_desc.odt")
	require.NoError(t, (&TextWriter{Path: scPath, Kind: format.SectionDesc}).Write(n))

	n.Chapter("ch1").SetDesc("")
	n.Section("sc1").SetDesc("")

	_, err := Merge(chPath, format.ChapterDesc, n)
	require.NoError(t, err)
	require.Equal(t, "They leave.", n.Chapter("ch1").Desc())

	_, err = Merge(scPath, format.SectionDesc, n)
	require.NoError(t, err)
	require.Equal(t, "Dawn breaks.", n.Section("sc1").Desc())
	require.Equal(t, "", n.Section("sc2").Desc())
}

func TestTextWriter_FilterAndUnused(t *testing.T) {
	n := sampleNovel(t)
	n.Section("sc2").SetType(novel.SectionUnused)
	path := filepath.Join(t.TempDir(), "road_brief_synopsis.odt")

	require.NoError(t, (&TextWriter{Path: path, Kind: format.BriefSynopsis}).Write(n))
	content, err := ReadPart(path, "content.xml")
	require.NoError(t, err)
	require.Contains(t, string(content), "Morning")
	require.NotContains(t, string(content), "Noon")

	f := format.Filter{Chapter: func(string) bool { return false }}
	require.NoError(t, (&TextWriter{Path: path, Kind: format.BriefSynopsis, Filter: f}).Write(n))
	content, err = ReadPart(path, "content.xml")
	require.NoError(t, err)
	require.NotContains(t, string(content), "Departure")
}

func TestTextWriter_RejectsSheetKind(t *testing.T) {
	err := (&TextWriter{Path: filepath.Join(t.TempDir(), "x.odt"), Kind: format.SectionList}).Write(novel.New())
	require.ErrorIs(t, err, format.ErrUnsupportedType)
}

func TestTextWriter_UserStyles(t *testing.T) {
	dir := t.TempDir()
	stylesPath := filepath.Join(dir, "styles.xml")
	require.NoError(t, os.WriteFile(stylesPath, []byte("<custom/>"), 0o644))

	path := filepath.Join(dir, "road_manuscript.odt")
	require.NoError(t, (&TextWriter{Path: path, Kind: format.Manuscript, StylesPath: stylesPath}).Write(sampleNovel(t)))
	st, err := ReadPart(path, "styles.xml")
	require.NoError(t, err)
	require.Equal(t, "<custom/>", string(st))
}

func TestParseText_Formatting(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="` + nsOffice + `" xmlns:style="` + nsStyle + `" xmlns:text="` + nsText + `" xmlns:fo="` + nsFO + `">
 <office:automatic-styles>
  <style:style style:name="T1" style:family="text"><style:text-properties fo:font-style="italic"/></style:style>
  <style:style style:name="T2" style:family="text"><style:text-properties fo:font-weight="bold"/></style:style>
  <style:style style:name="T3" style:family="text"><style:text-properties fo:color="#ff0000"/></style:style>
 </office:automatic-styles>
 <office:body><office:text>
  <text:h text:outline-level="2">Head</text:h>
  <text:section text:name="sc4">
   <text:p>a<text:s text:c="2"/>b<text:span text:style-name="T1">it</text:span><text:span text:style-name="T2">bo</text:span><text:span text:style-name="T3">red</text:span><text:note><text:note-body><text:p>gone</text:p></text:note-body></text:note> &amp; c</text:p>
  </text:section>
  <text:p>outside</text:p>
 </office:text></office:body>
</office:document-content>`

	paras, err := ParseText([]byte(content))
	require.NoError(t, err)
	require.Len(t, paras, 3)

	require.Equal(t, 2, paras[0].Heading)
	require.Equal(t, "Head", paras[0].Text)

	require.Equal(t, "sc4", paras[1].Section)
	require.Equal(t, "a  bitbored & c", paras[1].Text)
	require.Equal(t, "a  b<em>it</em><strong>bo</strong>red &amp; c", paras[1].Markup)

	require.Equal(t, "", paras[2].Section)
}

func TestParseSheet_RepeatedCells(t *testing.T) {
	content := `<office:document-content xmlns:office="` + nsOffice + `" xmlns:table="` + nsTable + `" xmlns:text="` + nsText + `">
 <office:body><office:spreadsheet><table:table table:name="S">
  <table:table-row><table:table-cell><text:p>ID</text:p></table:table-cell><table:table-cell table:number-columns-repeated="2"><text:p>x</text:p></table:table-cell><table:table-cell table:number-columns-repeated="1000"/></table:table-row>
  <table:table-row><table:table-cell><text:p>one</text:p><text:p>two</text:p></table:table-cell></table:table-row>
  <table:table-row><table:table-cell table:number-columns-repeated="1000"/></table:table-row>
 </table:table></office:spreadsheet></office:body>
</office:document-content>`

	tables, err := ParseSheet([]byte(content))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, "S", tables[0].Name)
	require.Equal(t, [][]string{{"ID", "x", "x"}, {"one\ntwo"}}, tables[0].Rows)
}

func TestSheetWriter_SectionListRoundTrip(t *testing.T) {
	n := sampleNovel(t)
	sc := n.Section("sc1")
	sc.SetTags([]string{"dawn", "sea"})
	sc.SetStatus(novel.StatusDraft)
	require.NoError(t, sc.SetDate("2024-05-01"))

	path := filepath.Join(t.TempDir(), "road_section_list.ods")
	require.NoError(t, (&SheetWriter{Path: path, Kind: format.SectionList}).Write(n))

	sc.SetTags(nil)
	sc.SetStatus(novel.StatusOutline)
	sc.SetTitle("other")

	merged, err := Merge(path, format.SectionList, n)
	require.NoError(t, err)
	require.Equal(t, 2, merged)
	require.Equal(t, "Morning", sc.Title())
	require.Equal(t, []string{"dawn", "sea"}, sc.Tags())
	require.Equal(t, novel.StatusDraft, sc.Status())
	require.Equal(t, "2024-05-01", sc.Date())
}

func TestMerge_SheetByHeader(t *testing.T) {
	n := sampleNovel(t)
	path := filepath.Join(t.TempDir(), "road_character_list.ods")
	content := Render(sheetHeader, map[string]string{"Table": "Characters"}) +
		`<table:table-row><table:table-cell><text:p>Major</text:p></table:table-cell><table:table-cell><text:p>ID</text:p></table:table-cell><table:table-cell><text:p>Bio</text:p></table:table-cell><table:table-cell><text:p>Unknown</text:p></table:table-cell></table:table-row>
<table:table-row><table:table-cell/><table:table-cell><text:p>cr1</text:p></table:table-cell><table:table-cell><text:p>Born at sea.</text:p></table:table-cell><table:table-cell><text:p>ignored</text:p></table:table-cell></table:table-row>
<table:table-row><table:table-cell><text:p>Yes</text:p></table:table-cell><table:table-cell><text:p>cr9</text:p></table:table-cell></table:table-row>
` + sheetFooter
	writeContent(t, path, mimeSpreadsheet, content)

	merged, err := Merge(path, format.CharacterList, n)
	require.NoError(t, err)
	require.Equal(t, 1, merged)
	cr := n.Character("cr1")
	require.False(t, cr.IsMajor())
	require.Equal(t, "Born at sea.", cr.Bio())
	require.Equal(t, []string{"hero", "pilot"}, cr.Tags())
}

func TestMerge_SheetWithoutIDColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "road_location_list.ods")
	content := Render(sheetHeader, nil) +
		`<table:table-row><table:table-cell><text:p>Name</text:p></table:table-cell></table:table-row>` + sheetFooter
	writeContent(t, path, mimeSpreadsheet, content)

	_, err := Merge(path, format.LocationList, sampleNovel(t))
	require.ErrorIs(t, err, ErrMissingPart)
}

func TestMerge_ExportOnlyKind(t *testing.T) {
	_, err := Merge("road_brief_synopsis.odt", format.BriefSynopsis, novel.New())
	require.ErrorIs(t, err, format.ErrUnsupportedType)
}

func TestSheetWriter_PlotList(t *testing.T) {
	n := sampleNovel(t)
	pl, err := n.CreatePlotLine("Main", "M")
	require.NoError(t, err)
	require.NoError(t, n.LinkSection(pl.ID(), "sc2"))

	path := filepath.Join(t.TempDir(), "road_plot_list.ods")
	require.NoError(t, (&SheetWriter{Path: path, Kind: format.PlotList}).Write(n))
	rows, err := readSheet(path)
	require.NoError(t, err)
	require.Equal(t, []string{"ID", "Title", "Short name", "Description", "Sections"}, rows[0])
	require.Equal(t, []string{"ac1", "Main", "M", "", "Noon"}, rows[1])
}

func TestDataWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "road_data.xml")
	require.NoError(t, (&DataWriter{Path: path}).Write(sampleNovel(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	require.Contains(t, s, `<CHARACTER id="cr1" major="true">`)
	require.Contains(t, s, `<Tags>hero;pilot</Tags>`)
	require.Contains(t, s, `<LOCATION id="lc1">`)
}

func TestReadOutline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.odt")
	writeContent(t, path, mimeText, contentHeader+`<office:text>
<text:h text:outline-level="1">Book One</text:h>
<text:h text:outline-level="2">Arrival</text:h>
<text:p>The ship docks.</text:p>
<text:p/>
<text:h text:style-name="Heading_20_3" text:outline-level="3">Fog</text:h>
<text:p>Nothing is visible.</text:p>
<text:p>Then a bell.</text:p>
`+textFooter)

	outline, err := IsOutline(path)
	require.NoError(t, err)
	require.True(t, outline)

	n, err := ReadOutline(path)
	require.NoError(t, err)
	require.Equal(t, "plan", n.Title())

	chapters := n.Chapters()
	require.Len(t, chapters, 2)
	require.Equal(t, novel.LevelPart, chapters[0].Level())
	require.Equal(t, "Arrival", chapters[1].Title())
	require.Equal(t, "The ship docks.", chapters[1].Desc())

	sections := n.SectionsOf(chapters[1].ID())
	require.Len(t, sections, 1)
	require.Equal(t, "Fog", sections[0].Title())
	require.Equal(t, "Nothing is visible.\nThen a bell.", sections[0].Desc())
	require.NoError(t, n.Check())
}

func TestReadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.odt")
	writeContent(t, path, mimeText, contentHeader+`<office:text>
<text:p text:style-name="Title">Storm</text:p>
<text:p>Before any chapter.</text:p>
<text:h text:outline-level="2">Two</text:h>
<text:p>First <text:span text:style-name="Emphasis">line</text:span></text:p>
<text:p>## </text:p>
<text:p>After</text:p>
`+textFooter)

	outline, err := IsOutline(path)
	require.NoError(t, err)
	require.False(t, outline)

	n, err := ReadDocument(path)
	require.NoError(t, err)
	require.Equal(t, "Storm", n.Title())

	chapters := n.Chapters()
	require.Len(t, chapters, 2)
	require.Equal(t, "Chapter 1", chapters[0].Title())
	require.Equal(t, "Before any chapter.", n.SectionsOf(chapters[0].ID())[0].Content())

	sections := n.SectionsOf(chapters[1].ID())
	require.Len(t, sections, 1)
	require.Equal(t, "First <em>line</em>\n## \nAfter", sections[0].Content())
}

func TestIsOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "road_manuscript.odt")
	require.False(t, IsOpen(path))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".~lock.road_manuscript.odt#"), nil, 0o644))
	require.True(t, IsOpen(path))
}
