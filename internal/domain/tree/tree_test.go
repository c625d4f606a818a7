package tree_test

import (
	"errors"
	"testing"

	"github.com/rpggio/novx/internal/domain/tree"
	"github.com/stretchr/testify/require"
)

func newCountingTree(t *testing.T) (*tree.Tree, *int) {
	t.Helper()
	calls := 0
	return tree.New(func() { calls++ }), &calls
}

func TestTree_RootsAlwaysExist(t *testing.T) {
	tr, _ := newCountingTree(t)
	for _, root := range tree.Roots {
		require.True(t, tr.Contains(root))
		require.Empty(t, tr.Children(root))
	}

	_, err := tr.Delete(tree.ChapterRoot)
	require.ErrorIs(t, err, tree.ErrRootNode)
	require.ErrorIs(t, tr.Move(tree.ItemRoot, tree.ChapterRoot, 0), tree.ErrRootNode)
}

func TestTree_AppendInsertOrder(t *testing.T) {
	tr, calls := newCountingTree(t)
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch1"))
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch3"))
	require.NoError(t, tr.Insert(tree.ChapterRoot, 1, "ch2"))
	require.Equal(t, []string{"ch1", "ch2", "ch3"}, tr.Children(tree.ChapterRoot))
	require.Equal(t, 3, *calls)

	parent, ok := tr.Parent("ch2")
	require.True(t, ok)
	require.Equal(t, tree.ChapterRoot, parent)
	require.Equal(t, "ch1", tr.Prev("ch2"))
	require.Equal(t, "ch3", tr.Next("ch2"))
	require.Equal(t, "", tr.Prev("ch1"))
	require.Equal(t, "", tr.Next("ch3"))
}

func TestTree_InsertErrors(t *testing.T) {
	tr, calls := newCountingTree(t)
	require.ErrorIs(t, tr.Append("nope", "ch1"), tree.ErrUnknownNode)
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch1"))
	require.ErrorIs(t, tr.Append(tree.ChapterRoot, "ch1"), tree.ErrDuplicateNode)
	require.ErrorIs(t, tr.Insert(tree.ChapterRoot, 5, "ch2"), tree.ErrIndexRange)
	require.ErrorIs(t, tr.Insert(tree.ChapterRoot, -1, "ch2"), tree.ErrIndexRange)
	require.Equal(t, 1, *calls)
}

func TestTree_DeleteCascadesWithSingleHook(t *testing.T) {
	tr, calls := newCountingTree(t)
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch1"))
	require.NoError(t, tr.Append("ch1", "sc1"))
	require.NoError(t, tr.Append("ch1", "sc2"))
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch2"))
	*calls = 0

	removed, err := tr.Delete("ch1")
	require.NoError(t, err)
	require.Equal(t, []string{"ch1", "sc1", "sc2"}, removed)
	require.Equal(t, 1, *calls)
	require.False(t, tr.Contains("sc1"))
	require.Equal(t, []string{"ch2"}, tr.Children(tree.ChapterRoot))
	require.Equal(t, 1, tr.Len())

	_, err = tr.Delete("ch1")
	require.ErrorIs(t, err, tree.ErrUnknownNode)
}

func TestPrune_LeavesInputUntouched(t *testing.T) {
	tr, _ := newCountingTree(t)
	require.NoError(t, tr.Append(tree.PlotLineRoot, "ac1"))
	require.NoError(t, tr.Append("ac1", "ap1"))
	before := tr.Snapshot()

	after, removed := tree.Prune(before, "ac1")
	require.Equal(t, []string{"ac1", "ap1"}, removed)
	require.True(t, before.Contains("ap1"))
	require.False(t, after.Contains("ap1"))
	require.Equal(t, []string{"ac1"}, before.Children(tree.PlotLineRoot))
	require.Empty(t, after.Children(tree.PlotLineRoot))

	same, none := tree.Prune(before, "missing")
	require.Nil(t, none)
	require.Equal(t, before.Len(), same.Len())
}

func TestTree_Move(t *testing.T) {
	tr, calls := newCountingTree(t)
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch1"))
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch2"))
	require.NoError(t, tr.Append("ch1", "sc1"))
	require.NoError(t, tr.Append("ch1", "sc2"))
	require.NoError(t, tr.Append("ch2", "sc3"))
	*calls = 0

	require.NoError(t, tr.Move("sc2", "ch2", 0))
	require.Equal(t, []string{"sc1"}, tr.Children("ch1"))
	require.Equal(t, []string{"sc2", "sc3"}, tr.Children("ch2"))

	require.NoError(t, tr.Move("sc3", "ch2", 0))
	require.Equal(t, []string{"sc3", "sc2"}, tr.Children("ch2"))
	require.Equal(t, 2, *calls)

	require.ErrorIs(t, tr.Move("ch1", "sc1", 0), tree.ErrCycle)
	require.ErrorIs(t, tr.Move("ch1", "ch1", 0), tree.ErrCycle)
	require.ErrorIs(t, tr.Move("sc1", "ch2", 9), tree.ErrIndexRange)
}

func TestTree_GuardRejectsWithoutMutation(t *testing.T) {
	tr, calls := newCountingTree(t)
	errFull := errors.New("full")
	tr.SetGuard(func(parent string, children []string) error {
		if parent == tree.ItemRoot && len(children) > 1 {
			return errFull
		}
		return nil
	})

	require.NoError(t, tr.Append(tree.ItemRoot, "it1"))
	require.ErrorIs(t, tr.Append(tree.ItemRoot, "it2"), errFull)
	require.False(t, tr.Contains("it2"))
	require.Equal(t, 1, *calls)
}

func TestTree_Descendants(t *testing.T) {
	tr, _ := newCountingTree(t)
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch1"))
	require.NoError(t, tr.Append("ch1", "sc1"))
	require.NoError(t, tr.Append(tree.ChapterRoot, "ch2"))
	require.NoError(t, tr.Append("ch2", "sc2"))
	require.Equal(t, []string{"ch1", "sc1", "ch2", "sc2"}, tr.Descendants(tree.ChapterRoot))
}
