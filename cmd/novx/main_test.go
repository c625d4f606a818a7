package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/novx/internal/converter"
	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	f, args, err := parseFlags([]string{"-suffix", "_manuscript", "-yes", "-character", "cr2", "road.novx"})
	require.NoError(t, err)
	require.Equal(t, "_manuscript", f.suffix)
	require.True(t, f.yes)
	require.Equal(t, "cr2", f.character)
	require.Equal(t, []string{"road.novx"}, args)

	f, args, err = parseFlags([]string{"-mcp"})
	require.NoError(t, err)
	require.True(t, f.mcp)
	require.Empty(t, args)
}

func TestParseAnswer(t *testing.T) {
	require.Equal(t, converter.Overwrite, parseAnswer(" Y "))
	require.Equal(t, converter.Overwrite, parseAnswer("yes"))
	require.Equal(t, converter.OpenExisting, parseAnswer("o"))
	require.Equal(t, converter.Cancel, parseAnswer(""))
	require.Equal(t, converter.Cancel, parseAnswer("maybe"))
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}

func TestLogFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "novx.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()
	w.max, w.keep = 32, 16

	_, err = w.Write([]byte(strings.Repeat("a", 30)))
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "aaaaaa0123456789", string(data))
}

type historyStub struct {
	entries []activity.Entry
}

func (h historyStub) Recent(_ context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	if opts.Limit < len(h.entries) {
		return h.entries[:opts.Limit], nil
	}
	return h.entries, nil
}

func TestPrintHistory(t *testing.T) {
	now := time.Now()
	svc := historyStub{entries: []activity.Entry{
		{Stage: activity.StageExport, Status: activity.StatusSucceeded, Source: "road.novx", Target: "road_manuscript.odt", CreatedAt: now},
		{Stage: activity.StageNone, Status: activity.StatusFailed, Source: "notes.txt", Message: "notes.txt: unsupported file type", CreatedAt: now},
	}}

	var buf bytes.Buffer
	require.NoError(t, printHistory(context.Background(), &buf, svc, 5))
	out := buf.String()
	require.Contains(t, out, "road.novx -> road_manuscript.odt")
	require.Contains(t, out, "notes.txt -> -")
	require.Contains(t, out, "unsupported file type")

	buf.Reset()
	require.NoError(t, printHistory(context.Background(), &buf, svc, 1))
	require.NotContains(t, buf.String(), "notes.txt")
}
