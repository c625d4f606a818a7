package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `novx converts fiction projects (.novx XML files) to and from office documents.

Workflow:
1) Export: call convert_document with a .novx path and a suffix (see list_formats).
   The document is written next to the project as <project><suffix>.odt or .ods.
2) Edit the exported document in an office suite. Keep section and chapter
   markers intact; they tie the text back to the project.
3) Read back: call convert_document with the edited document's path. Only
   kinds marked reimport=true can be read back.
4) New project: call convert_document with a plain .odt outline or draft.

Existing targets are kept unless overwrite=true.

Docs:
- novx://docs/formats
- novx://docs/dividers
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "novx://docs/formats",
		Name:        "formats",
		Title:       "Document kinds",
		Description: "Which export kinds exist and which can be read back",
		Content: `# Document kinds

Text documents (.odt):
- _manuscript: section content, one text section per novx section. Read back.
- _chapter_desc: chapter descriptions. Read back.
- _section_desc: section descriptions. Read back.
- _brief_synopsis: chapter and section titles only.

Spreadsheets (.ods), one row per element, first column is the ID:
- _section_list, _character_list, _location_list, _item_list. Read back.
- _plot_list: plot lines with their points and sections.

Other:
- _data: characters, locations and items as XML.

Read back is matched by column header, so columns may be reordered.
Rows with unknown IDs are ignored.
`,
	},
	{
		URI:         "novx://docs/dividers",
		Name:        "dividers",
		Title:       "Structure dividers",
		Description: "Paragraph markers that split text into new chapters and sections",
		Content: `# Structure dividers

A paragraph starting with one of these markers starts a new element when a
document is read back. The rest of the line is the new element's title.

Manuscripts:
- "#! Title": new part
- "# Title": new chapter
- "## Title": new section
- "##+": continue the current section

Chapter descriptions take "#" and "#!" for new chapters and parts.

In stage descriptions, "#" starts a level 1 stage and "##" a level 2 stage.

Text after the marker up to the next marker becomes the new element's
content, or its description in description documents.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
