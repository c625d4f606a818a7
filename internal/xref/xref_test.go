package xref_test

import (
	"testing"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/xref"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T) *novel.Novel {
	t.Helper()
	n := novel.New()
	alice, err := n.CreateCharacter("Alice")
	require.NoError(t, err)
	alice.SetTags([]string{"lead", "Lead"})
	bob, err := n.CreateCharacter("Bob")
	require.NoError(t, err)
	harbour, err := n.CreateLocation("Harbour")
	require.NoError(t, err)
	harbour.SetTags([]string{"sea"})
	_, err = n.CreateItem("Map")
	require.NoError(t, err)

	ch, err := n.CreateChapter("One", novel.LevelChapter)
	require.NoError(t, err)
	for _, title := range []string{"A", "B", "C"} {
		_, err := n.CreateSection(ch.ID(), title)
		require.NoError(t, err)
	}
	n.Section("sc1").SetCharacters([]string{alice.ID(), bob.ID()})
	n.Section("sc1").SetTags([]string{"night"})
	n.Section("sc2").SetCharacters([]string{bob.ID()})
	n.Section("sc2").SetLocations([]string{harbour.ID()})
	n.Section("sc3").SetCharacters([]string{alice.ID()})
	n.Section("sc3").SetTags([]string{"night", "storm"})
	require.NoError(t, n.MoveToTrash("sc3"))
	n.SetModified(false)
	return n
}

func TestBuild(t *testing.T) {
	n := project(t)
	idx := xref.Build(n)

	require.Equal(t, []string{"sc1"}, idx.SectionsByCharacter["cr1"])
	require.Equal(t, []string{"sc1", "sc2"}, idx.SectionsByCharacter["cr2"])
	require.Equal(t, []string{"sc2"}, idx.SectionsByLocation["lc1"])
	require.Equal(t, []string{}, idx.SectionsByItem["it1"])
	require.Equal(t, []string{"sc1"}, idx.SectionsByTag["night"])
	require.NotContains(t, idx.SectionsByTag, "storm")
	require.Equal(t, []string{"sc1"}, idx.SectionsByViewpoint["cr1"])
	require.Equal(t, []string{"sc2"}, idx.SectionsByViewpoint["cr2"])

	require.Equal(t, []string{"cr1"}, idx.CharactersByTag["lead"])
	require.Equal(t, []string{"cr1"}, idx.CharactersByTag["Lead"])
	require.Equal(t, []string{"lc1"}, idx.LocationsByTag["sea"])
	require.Empty(t, idx.ItemsByTag)

	require.Equal(t, []string{"sc1", "sc2"}, idx.SectionOrder)
	require.Equal(t, "ch1", idx.ChapterOfSection["sc1"])
	require.Equal(t, n.TrashChapter().ID(), idx.ChapterOfSection["sc3"])

	require.Equal(t, []string{"Lead", "lead"}, xref.Tags(idx.CharactersByTag))
	require.False(t, n.Modified())
}

func TestBuild_ReflectsDeletion(t *testing.T) {
	n := project(t)
	require.NoError(t, n.Delete("ch1"))
	idx := xref.Build(n)
	require.Empty(t, idx.SectionOrder)
	require.NotContains(t, idx.ChapterOfSection, "sc1")
	require.Empty(t, idx.SectionsByCharacter["cr2"])
}
