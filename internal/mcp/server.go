package mcp

import (
	"context"
	"log/slog"

	"github.com/rpggio/novx/internal/converter"
	"github.com/rpggio/novx/internal/domain/activity"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ConverterService runs conversions for the convert_document tool.
type ConverterService interface {
	Run(ctx context.Context, req converter.Request) (*converter.Result, error)
}

// HistoryService lists past runs for the conversion_history tool.
type HistoryService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Config contains server configuration. History is optional.
type Config struct {
	Converter ConverterService
	History   HistoryService
	Logger    *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "novx",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Converter, cfg.History))

	return server
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "convert_document",
		Description: "Export a novx project to an office document, read an edited export back into its project, or create a project from an outline or draft",
	}, h.ConvertDocument)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_formats",
		Description: "List the document kinds with their suffixes and extensions",
	}, h.ListFormats)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_index",
		Description: "Summarize a project and list which sections refer to each character, location, item and tag",
	}, h.ProjectIndex)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "conversion_history",
		Description: "List recent conversion runs, newest first",
	}, h.ConversionHistory)
}
