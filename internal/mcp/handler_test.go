package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/novx/internal/converter"
	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/rpggio/novx/internal/novx"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type converterStub struct {
	runFn func(context.Context, converter.Request) (*converter.Result, error)
}

func (c converterStub) Run(ctx context.Context, req converter.Request) (*converter.Result, error) {
	return c.runFn(ctx, req)
}

type historyStub struct {
	recentFn func(context.Context, activity.ListOptions) ([]activity.Entry, error)
}

func (h historyStub) Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	return h.recentFn(ctx, opts)
}

func textOf(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", res.Content[0])
	return tc.Text
}

func sampleNovel(t *testing.T) *novel.Novel {
	t.Helper()
	n := novel.New()
	n.SetTitle("The Road")
	n.SetAuthorName("A. Writer")
	ch, err := n.CreateChapter("Departure", novel.LevelChapter)
	require.NoError(t, err)
	cr, err := n.CreateCharacter("Alice")
	require.NoError(t, err)
	first, err := n.CreateSection(ch.ID(), "Morning")
	require.NoError(t, err)
	first.SetCharacters([]string{cr.ID()})
	first.SetTags([]string{"travel"})
	_, err = n.CreateSection(ch.ID(), "Evening")
	require.NoError(t, err)
	return n
}

func TestHandler_ConvertDocument(t *testing.T) {
	runID := uuid.New()
	var got converter.Request
	h := NewHandler(converterStub{
		runFn: func(_ context.Context, req converter.Request) (*converter.Result, error) {
			got = req
			return &converter.Result{
				RunID:   runID,
				Stage:   activity.StageExport,
				Kind:    format.Manuscript,
				Source:  req.Path,
				Target:  "/b/road_manuscript.odt",
				Message: "road_manuscript.odt written",
			}, nil
		},
	}, nil)

	res, _, err := h.ConvertDocument(context.Background(), nil, ConvertDocumentParams{
		Path:      "/b/road.novx",
		Suffix:    "_manuscript",
		Overwrite: true,
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var resp ConversionResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &resp))
	require.Equal(t, runID.String(), resp.RunID)
	require.Equal(t, "export", resp.Stage)
	require.Equal(t, "manuscript", resp.Kind)
	require.Equal(t, "/b/road_manuscript.odt", resp.Target)

	require.Equal(t, "_manuscript", got.Suffix)
	require.NotNil(t, got.Decider)
	require.Equal(t, converter.Overwrite, got.Decider.Decide("/b/road_manuscript.odt"))
	require.True(t, got.Select.IsZero())
}

func TestHandler_ConvertDocumentKeepsExisting(t *testing.T) {
	h := NewHandler(converterStub{
		runFn: func(_ context.Context, req converter.Request) (*converter.Result, error) {
			require.Equal(t, converter.Cancel, req.Decider.Decide("x"))
			return &converter.Result{}, fmt.Errorf("x: %w", converter.ErrCanceled)
		},
	}, nil)

	res, _, err := h.ConvertDocument(context.Background(), nil, ConvertDocumentParams{Path: "/b/road.novx", Suffix: "_manuscript"})
	require.NoError(t, err)
	require.True(t, res.IsError)

	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &apiErr))
	require.Equal(t, "CANCELED", apiErr.Code)
	require.Equal(t, "x: conversion canceled", apiErr.Details)
}

func TestHandler_ConvertDocumentErrors(t *testing.T) {
	h := NewHandler(converterStub{
		runFn: func(context.Context, converter.Request) (*converter.Result, error) {
			return nil, errors.New("disk full")
		},
	}, nil)

	res, _, err := h.ConvertDocument(context.Background(), nil, ConvertDocumentParams{})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, "path is required", textOf(t, res))

	res, _, err = h.ConvertDocument(context.Background(), nil, ConvertDocumentParams{Path: "/b/notes.odt"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, "disk full", textOf(t, res))
}

func TestHandler_ConvertDocumentSelection(t *testing.T) {
	var got converter.Request
	h := NewHandler(converterStub{
		runFn: func(_ context.Context, req converter.Request) (*converter.Result, error) {
			got = req
			if req.Select.PlotLine != "" {
				return nil, fmt.Errorf("plot line %s: %w", req.Select.PlotLine, novel.ErrNotFound)
			}
			return &converter.Result{Stage: activity.StageExport}, nil
		},
	}, nil)

	res, _, err := h.ConvertDocument(context.Background(), nil, ConvertDocumentParams{Path: "/b/road.novx", Suffix: "_manuscript", Character: "cr1", Tag: "travel"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, format.Selection{Character: "cr1", Tag: "travel"}, got.Select)

	res, _, err = h.ConvertDocument(context.Background(), nil, ConvertDocumentParams{Path: "/b/road.novx", PlotLine: "ac9"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, textOf(t, res), "NOT_FOUND")
}

func TestHandler_ListFormats(t *testing.T) {
	h := NewHandler(nil, nil)
	res, _, err := h.ListFormats(context.Background(), nil, ListFormatsParams{})
	require.NoError(t, err)

	var formats []FormatResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &formats))
	require.Len(t, formats, len(format.Kinds()))
	require.Contains(t, formats, FormatResponse{
		Name:        "character_list",
		Suffix:      "_character_list",
		Extension:   ".ods",
		Description: "Character list",
		Reimport:    true,
	})
}

func TestHandler_ProjectIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "road.novx")
	require.NoError(t, novx.NewFile(path, nil).Write(sampleNovel(t)))

	h := NewHandler(nil, nil)
	res, _, err := h.ProjectIndex(context.Background(), nil, ProjectIndexParams{Path: path})
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))

	var resp ProjectIndexResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &resp))
	require.Equal(t, "The Road", resp.Title)
	require.Equal(t, "A. Writer", resp.Author)
	require.Equal(t, 1, resp.Chapters)
	require.Equal(t, 2, resp.Sections)
	require.Equal(t, 1, resp.Characters)
	require.Equal(t, []string{"sc1"}, resp.SectionsByCharacter["cr1"])
	require.Equal(t, []string{"travel"}, resp.Tags)

	res, _, err = h.ProjectIndex(context.Background(), nil, ProjectIndexParams{Path: filepath.Join(t.TempDir(), "notes.txt")})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, textOf(t, res), "UNSUPPORTED_TYPE")
}

func TestHandler_ConversionHistory(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var got activity.ListOptions
	h := NewHandler(nil, historyStub{
		recentFn: func(_ context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
			got = opts
			return []activity.Entry{{
				RunID:     "run-1",
				Stage:     activity.StageImport,
				Kind:      "manuscript",
				Source:    "/b/road_manuscript.odt",
				Target:    "/b/road.novx",
				Status:    activity.StatusSucceeded,
				CreatedAt: created,
			}}, nil
		},
	})

	res, _, err := h.ConversionHistory(context.Background(), nil, ConversionHistoryParams{Status: "succeeded", Limit: 5})
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	require.Equal(t, activity.StatusSucceeded, *got.Status)
	require.Equal(t, 5, got.Limit)

	var entries []HistoryEntryResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "run-1", entries[0].RunID)
	require.True(t, created.Equal(entries[0].Timestamp))

	res, _, err = NewHandler(nil, nil).ConversionHistory(context.Background(), nil, ConversionHistoryParams{})
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestServer_InMemory(t *testing.T) {
	ctx := context.Background()
	server := NewServer(Config{
		Converter: converterStub{
			runFn: func(_ context.Context, req converter.Request) (*converter.Result, error) {
				return &converter.Result{Stage: activity.StageNewProject, Kind: format.OutlineImport, Source: req.Path, Target: "/b/plan.novx"}, nil
			},
		},
	})

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"convert_document", "list_formats", "project_index", "conversion_history"}, names)

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "convert_document",
		Arguments: map[string]any{"path": "/b/plan.odt"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Contains(t, textOf(t, result), `"target": "/b/plan.novx"`)

	doc, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "novx://docs/dividers"})
	require.NoError(t, err)
	require.Contains(t, doc.Contents[0].Text, "##+")
}
