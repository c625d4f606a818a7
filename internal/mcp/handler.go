package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/novx/internal/converter"
	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/rpggio/novx/internal/xref"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler serves the MCP tools.
type Handler struct {
	converter ConverterService
	history   HistoryService
}

// NewHandler creates a new MCP handler. A nil history disables the
// conversion_history tool's data.
func NewHandler(conv ConverterService, history HistoryService) *Handler {
	return &Handler{
		converter: conv,
		history:   history,
	}
}

func readProject(path string) (*novel.Novel, error) {
	_, file, err := converter.ExportSourceFactory{}.Make(path)
	if err != nil {
		return nil, err
	}
	return file.Read()
}

func (h *Handler) ConvertDocument(ctx context.Context, _ *sdkmcp.CallToolRequest, in ConvertDocumentParams) (*sdkmcp.CallToolResult, any, error) {
	if in.Path == "" {
		return toolError("path is required"), nil, nil
	}
	req := converter.Request{
		Path:   in.Path,
		Suffix: in.Suffix,
		Select: format.Selection{
			Character: in.Character,
			PlotLine:  in.PlotLine,
			Tag:       in.Tag,
		},
		Decider: overwriteDecider(in.Overwrite),
	}

	res, err := h.converter.Run(ctx, req)
	if err != nil {
		return toolFailure(err), nil, nil
	}
	return toolJSON(ConversionResponse{
		RunID:   res.RunID.String(),
		Stage:   string(res.Stage),
		Kind:    res.Kind.String(),
		Source:  res.Source,
		Target:  res.Target,
		Message: res.Message,
		Opened:  res.Opened,
	})
}

func overwriteDecider(overwrite bool) converter.Decider {
	return converter.DeciderFunc(func(string) converter.Decision {
		if overwrite {
			return converter.Overwrite
		}
		return converter.Cancel
	})
}

func (h *Handler) ListFormats(_ context.Context, _ *sdkmcp.CallToolRequest, _ ListFormatsParams) (*sdkmcp.CallToolResult, any, error) {
	kinds := format.Kinds()
	resp := make([]FormatResponse, 0, len(kinds))
	for _, k := range kinds {
		d := k.Descriptor()
		resp = append(resp, FormatResponse{
			Name:        d.Name,
			Suffix:      d.Suffix,
			Extension:   d.Extension,
			Description: d.Description,
			Reimport:    d.Reimport,
		})
	}
	return toolJSON(resp)
}

func (h *Handler) ProjectIndex(_ context.Context, _ *sdkmcp.CallToolRequest, in ProjectIndexParams) (*sdkmcp.CallToolResult, any, error) {
	if in.Path == "" {
		return toolError("path is required"), nil, nil
	}
	n, err := readProject(in.Path)
	if err != nil {
		return toolFailure(err), nil, nil
	}
	idx := xref.Build(n)
	return toolJSON(ProjectIndexResponse{
		Title:               n.Title(),
		Author:              n.AuthorName(),
		Chapters:            len(n.Chapters()),
		Sections:            len(idx.SectionOrder),
		Characters:          len(n.Characters()),
		Locations:           len(n.Locations()),
		Items:               len(n.Items()),
		PlotLines:           len(n.PlotLines()),
		SectionsByCharacter: idx.SectionsByCharacter,
		SectionsByLocation:  idx.SectionsByLocation,
		SectionsByItem:      idx.SectionsByItem,
		SectionsByTag:       idx.SectionsByTag,
		SectionsByViewpoint: idx.SectionsByViewpoint,
		Tags:                xref.Tags(idx.SectionsByTag),
	})
}

func (h *Handler) ConversionHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, in ConversionHistoryParams) (*sdkmcp.CallToolResult, any, error) {
	if h.history == nil {
		return toolError("conversion history is disabled"), nil, nil
	}
	opts := activity.ListOptions{Source: in.Source, Limit: in.Limit}
	if in.Status != "" {
		status := activity.Status(in.Status)
		opts.Status = &status
	}
	entries, err := h.history.Recent(ctx, opts)
	if err != nil {
		return toolFailure(err), nil, nil
	}
	resp := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, HistoryEntryResponse{
			Timestamp: e.CreatedAt,
			RunID:     e.RunID,
			Stage:     e.Stage,
			Kind:      e.Kind,
			Source:    e.Source,
			Target:    e.Target,
			Status:    e.Status,
			Message:   e.Message,
		})
	}
	return toolJSON(resp)
}

// toolFailure reports err as a tool error, with an error code when the
// error is a known one.
func toolFailure(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		return toolError("%v", err)
	}
	data, mErr := json.MarshalIndent(apiErr, "", "  ")
	if mErr != nil {
		return toolError("%v", err)
	}
	return toolError("%s", data)
}

func toolError(msg string, args ...any) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: fmt.Sprintf(msg, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("failed to marshal result: %v", err), nil, nil
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
