package format_test

import (
	"testing"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/stretchr/testify/require"
)

func TestSelect_FirstMatchWins(t *testing.T) {
	candidates := []format.Kind{format.Manuscript, format.ChapterDesc, format.DocumentImport}

	for i := 0; i < 3; i++ {
		k, err := format.Select(candidates, "/books/road_manuscript.odt")
		require.NoError(t, err)
		require.Equal(t, format.Manuscript, k)
	}

	k, err := format.Select(candidates, "/books/road_chapter_desc.ODT")
	require.NoError(t, err)
	require.Equal(t, format.ChapterDesc, k)

	k, err = format.Select(candidates, "/books/draft.odt")
	require.NoError(t, err)
	require.Equal(t, format.DocumentImport, k)

	_, err = format.Select(candidates, "/books/road.ods")
	require.ErrorIs(t, err, format.ErrUnsupportedType)
	require.ErrorContains(t, err, "road.ods")
}

func TestKind_Paths(t *testing.T) {
	require.Equal(t, "/b/road_section_list.ods", format.SectionList.Path("/b/road.novx"))
	require.Equal(t, "/b/road.novx", format.SectionList.ProjectPath("/b/road_section_list.ods"))
	require.Equal(t, "/b/road.novx", format.DocumentImport.ProjectPath("/b/road.odt"))
	require.False(t, format.Manuscript.Matches("/b/_manuscript.odt"))
	require.True(t, format.Novx.Matches("road.NOVX"))
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"_manuscript", "manuscript", " Manuscript "} {
		k, err := format.ParseKind(s)
		require.NoError(t, err)
		require.Equal(t, format.Manuscript, k)
	}
	_, err := format.ParseKind("_pickle")
	require.ErrorIs(t, err, format.ErrUnsupportedType)
	require.Len(t, format.Kinds(), 14)
}

func TestFilters(t *testing.T) {
	n := novel.New()
	ch1, err := n.CreateChapter("One", novel.LevelChapter)
	require.NoError(t, err)
	ch2, err := n.CreateChapter("Two", novel.LevelChapter)
	require.NoError(t, err)
	a, err := n.CreateSection(ch1.ID(), "A")
	require.NoError(t, err)
	b, err := n.CreateSection(ch2.ID(), "B")
	require.NoError(t, err)
	cr, err := n.CreateCharacter("Alice")
	require.NoError(t, err)
	pl, err := n.CreatePlotLine("Main", "M")
	require.NoError(t, err)

	a.SetCharacters([]string{cr.ID()})
	b.SetTags([]string{"storm"})
	require.NoError(t, n.LinkSection(pl.ID(), b.ID()))

	f := format.ByCharacter(n, cr.ID())
	require.True(t, f.AcceptsChapter(ch1.ID()))
	require.False(t, f.AcceptsChapter(ch2.ID()))
	require.True(t, f.AcceptsSection(a.ID()))
	require.False(t, f.AcceptsSection(b.ID()))

	f = format.ByPlotLine(n, pl.ID())
	require.True(t, f.AcceptsSection(b.ID()))
	require.False(t, f.AcceptsSection(a.ID()))

	f = format.ByTag(n, "storm")
	require.True(t, f.AcceptsChapter(ch2.ID()))

	var all format.Filter
	require.True(t, all.AcceptsChapter("anything"))
	require.True(t, all.AcceptsSection("anything"))
}

func TestSelection(t *testing.T) {
	n := novel.New()
	ch, err := n.CreateChapter("One", novel.LevelChapter)
	require.NoError(t, err)
	a, err := n.CreateSection(ch.ID(), "A")
	require.NoError(t, err)
	b, err := n.CreateSection(ch.ID(), "B")
	require.NoError(t, err)
	cr, err := n.CreateCharacter("Alice")
	require.NoError(t, err)
	a.SetCharacters([]string{cr.ID()})
	b.SetTags([]string{"storm"})

	require.True(t, format.Selection{}.IsZero())

	f, err := format.Selection{Character: cr.ID(), Tag: "storm"}.Filter(n)
	require.NoError(t, err)
	require.True(t, f.AcceptsSection(a.ID()))
	require.False(t, f.AcceptsSection(b.ID()))

	f, err = format.Selection{Tag: "storm"}.Filter(n)
	require.NoError(t, err)
	require.True(t, f.AcceptsSection(b.ID()))

	_, err = format.Selection{PlotLine: "ac7"}.Filter(n)
	require.ErrorIs(t, err, novel.ErrNotFound)

	f, err = format.Selection{}.Filter(n)
	require.NoError(t, err)
	require.True(t, f.AcceptsSection(b.ID()))
}
