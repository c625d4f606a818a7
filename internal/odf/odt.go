package odf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
)

const contentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" office:version="1.2">
 <office:automatic-styles>
  <style:style style:name="Sect1" style:family="section"/>
 </office:automatic-styles>
 <office:body>
`

const textHeader = contentHeader + `  <office:text>
<text:p text:style-name="Title">${Title}</text:p>
<text:p text:style-name="Subtitle">${AuthorName}</text:p>
`

const textFooter = `  </office:text>
 </office:body>
</office:document-content>
`

const (
	partHeading    = `<text:h text:style-name="Heading_20_1" text:outline-level="1">${Title}</text:h>` + "\n"
	chapterHeading = `<text:h text:style-name="Heading_20_2" text:outline-level="2">${Title}</text:h>` + "\n"
	namedSection   = `<text:section text:style-name="Sect1" text:name="${ID}">` + "\n${Body}</text:section>\n"
)

// textLayout holds the templates of one text document kind. Empty
// templates are not rendered.
type textLayout struct {
	part, chapter string
	chapterBody   string
	section       string
	divider       string
	// stages includes stage sections besides normal ones.
	stages bool
}

var textLayouts = map[format.Kind]textLayout{
	format.Manuscript: {
		part:    partHeading,
		chapter: chapterHeading,
		section: Render(namedSection, map[string]string{"ID": "${ID}", "Body": "${Content}"}),
		divider: `<text:p text:style-name="Section_20_mark">* * *</text:p>` + "\n",
	},
	format.ChapterDesc: {
		part:        partHeading,
		chapter:     chapterHeading,
		chapterBody: Render(namedSection, map[string]string{"ID": "${ID}", "Body": "${Desc}"}),
	},
	format.SectionDesc: {
		part:    partHeading,
		chapter: chapterHeading,
		section: `<text:p text:style-name="Section_20_title">${Title}</text:p>` + "\n" +
			Render(namedSection, map[string]string{"ID": "${ID}", "Body": "${Desc}"}),
		stages: true,
	},
	format.BriefSynopsis: {
		part:    partHeading,
		chapter: chapterHeading,
		section: `<text:p text:style-name="Text_20_body">${Title}</text:p>` + "\n",
	},
}

// TextWriter exports a project as a text document.
type TextWriter struct {
	Path       string
	Kind       format.Kind
	Filter     format.Filter
	StylesPath string
}

// Write renders the document in memory and stores it with a single write.
func (w *TextWriter) Write(n *novel.Novel) error {
	layout, ok := textLayouts[w.Kind]
	if !ok {
		return fmt.Errorf("%s as text document: %w", w.Kind, format.ErrUnsupportedType)
	}
	st, err := styles(w.StylesPath)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(Render(textHeader, projectValues(n)))
	for _, ch := range n.Chapters() {
		if ch.IsTrash() || ch.Type() != novel.ChapterNormal || !w.Filter.AcceptsChapter(ch.ID()) {
			continue
		}
		values := chapterValues(ch)
		if ch.Level() == novel.LevelPart {
			b.WriteString(Render(layout.part, values))
		} else {
			b.WriteString(Render(layout.chapter, values))
		}
		if layout.chapterBody != "" {
			b.WriteString(Render(layout.chapterBody, values))
		}
		if layout.section == "" {
			continue
		}
		first := true
		for _, sc := range n.SectionsOf(ch.ID()) {
			if !exported(sc, layout.stages) || !w.Filter.AcceptsSection(sc.ID()) {
				continue
			}
			if !first {
				b.WriteString(layout.divider)
			}
			first = false
			b.WriteString(Render(layout.section, sectionValues(sc)))
		}
	}
	b.WriteString(textFooter)

	doc := Document{
		Mimetype: mimeText,
		Content:  b.String(),
		Styles:   st,
		Meta:     Render(metaTemplate, projectValues(n)),
	}
	return doc.WriteFile(w.Path)
}

func exported(sc *novel.Section, stages bool) bool {
	return sc.Type() == novel.SectionNormal || (stages && sc.Type().IsStage())
}

func projectValues(n *novel.Novel) map[string]string {
	return map[string]string{
		"Title":       escape(n.Title()),
		"AuthorName":  escape(n.AuthorName()),
		"Description": escape(strings.ReplaceAll(n.Desc(), "\n", " ")),
	}
}

func chapterValues(ch *novel.Chapter) map[string]string {
	return map[string]string{
		"ID":    ch.ID(),
		"Title": escape(ch.Title()),
		"Desc":  textParagraphs(ch.Desc()),
	}
}

func sectionValues(sc *novel.Section) map[string]string {
	return map[string]string{
		"ID":      sc.ID(),
		"Title":   escape(sc.Title()),
		"Desc":    textParagraphs(sc.Desc()),
		"Content": markupParagraphs(sc.Content()),
	}
}

const bodyParagraph = `<text:p text:style-name="Text_20_body">%s</text:p>` + "\n"

// textParagraphs renders plain text as one paragraph per line. Empty text
// still gets one empty paragraph to type into.
func textParagraphs(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(&b, bodyParagraph, escape(line))
	}
	return b.String()
}

var (
	runTag   = regexp.MustCompile(`<(/?)(em|strong)>`)
	otherTag = regexp.MustCompile(`<[^>]*>`)
)

var runStyles = map[string]string{"em": "Emphasis", "strong": "Strong_20_Emphasis"}

// markupParagraphs renders section content, turning <em> and <strong> runs
// into styled spans and dropping other inline markup.
func markupParagraphs(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = runTag.ReplaceAllStringFunc(line, func(m string) string {
			parts := runTag.FindStringSubmatch(m)
			if parts[1] == "/" {
				return "\x00/span\x00"
			}
			return "\x00span " + runStyles[parts[2]] + "\x00"
		})
		line = otherTag.ReplaceAllString(line, "")
		line = strings.NewReplacer(
			"\x00/span\x00", "</text:span>",
			"\x00span Emphasis\x00", `<text:span text:style-name="Emphasis">`,
			"\x00span Strong_20_Emphasis\x00", `<text:span text:style-name="Strong_20_Emphasis">`,
		).Replace(line)
		fmt.Fprintf(&b, bodyParagraph, line)
	}
	return b.String()
}
