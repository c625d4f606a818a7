package mcp

import (
	"time"

	"github.com/rpggio/novx/internal/domain/activity"
)

type ConvertDocumentParams struct {
	Path      string `json:"path" jsonschema:"Absolute path of the project or document to convert"`
	Suffix    string `json:"suffix,omitempty" jsonschema:"Export kind when path is a project, e.g. _manuscript or character_list"`
	Overwrite bool   `json:"overwrite,omitempty" jsonschema:"Replace an existing target file"`
	Character string `json:"character,omitempty" jsonschema:"Export only sections this character ID takes part in"`
	PlotLine  string `json:"plot_line,omitempty" jsonschema:"Export only sections linked to this plot line ID"`
	Tag       string `json:"tag,omitempty" jsonschema:"Export only sections carrying this tag"`
}

type ListFormatsParams struct{}

type ProjectIndexParams struct {
	Path string `json:"path" jsonschema:"Absolute path of a .novx project or zipped project"`
}

type ConversionHistoryParams struct {
	Source string `json:"source,omitempty" jsonschema:"Only runs converting this path"`
	Status string `json:"status,omitempty" jsonschema:"Only runs with this status: succeeded, canceled or failed"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of runs (default 20)"`
}

type ConversionResponse struct {
	RunID   string `json:"run_id"`
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Message string `json:"message,omitempty"`
	Opened  bool   `json:"opened,omitempty"`
}

type FormatResponse struct {
	Name        string `json:"name"`
	Suffix      string `json:"suffix,omitempty"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
	Reimport    bool   `json:"reimport"`
}

type ProjectIndexResponse struct {
	Title      string `json:"title"`
	Author     string `json:"author,omitempty"`
	Chapters   int    `json:"chapters"`
	Sections   int    `json:"sections"`
	Characters int    `json:"characters"`
	Locations  int    `json:"locations"`
	Items      int    `json:"items"`
	PlotLines  int    `json:"plot_lines"`

	SectionsByCharacter map[string][]string `json:"sections_by_character"`
	SectionsByLocation  map[string][]string `json:"sections_by_location"`
	SectionsByItem      map[string][]string `json:"sections_by_item"`
	SectionsByTag       map[string][]string `json:"sections_by_tag"`
	SectionsByViewpoint map[string][]string `json:"sections_by_viewpoint"`
	Tags                []string            `json:"tags"`
}

type HistoryEntryResponse struct {
	Timestamp time.Time       `json:"timestamp"`
	RunID     string          `json:"run_id"`
	Stage     activity.Stage  `json:"stage"`
	Kind      string          `json:"kind,omitempty"`
	Source    string          `json:"source"`
	Target    string          `json:"target,omitempty"`
	Status    activity.Status `json:"status"`
	Message   string          `json:"message,omitempty"`
}
