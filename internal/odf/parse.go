package odf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsTable  = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsStyle  = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsFO     = "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
)

// Paragraph is one text:p or text:h with its formatting discarded.
type Paragraph struct {
	// Section is the name of the innermost text:section holding the
	// paragraph, or "".
	Section string
	Style   string
	// Heading is the outline level of a text:h, 0 for plain paragraphs.
	Heading int
	Text    string
	// Markup is Text escaped as XML, with italic and bold runs kept as
	// <em> and <strong>.
	Markup string
}

// Table is a spreadsheet table as rows of cell texts.
type Table struct {
	Name string
	Rows [][]string
}

// maxRepeat caps the expansion of repeated empty cells, which office
// suites use to pad rows to the full sheet width.
const maxRepeat = 64

func attrValue(se xml.StartElement, space, local string) string {
	for _, a := range se.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// parser walks content.xml tokens, tracking sections and the emphasis of
// automatic styles.
type parser struct {
	dec      *xml.Decoder
	runs     map[string]string
	sections []string
}

func newParser(content []byte) *parser {
	return &parser{
		dec:  xml.NewDecoder(bytes.NewReader(content)),
		runs: map[string]string{"Emphasis": "em", "Strong_20_Emphasis": "strong"},
	}
}

// ParseText extracts the paragraphs of a text document's content.xml in
// document order.
func ParseText(content []byte) ([]Paragraph, error) {
	p := newParser(content)
	var out []Paragraph
	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parsing content: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsStyle && t.Name.Local == "style":
				if err := p.style(t); err != nil {
					return nil, err
				}
			case t.Name.Space == nsText && t.Name.Local == "section":
				p.sections = append(p.sections, attrValue(t, nsText, "name"))
			case t.Name.Space == nsText && (t.Name.Local == "p" || t.Name.Local == "h"):
				para, err := p.paragraph(t)
				if err != nil {
					return nil, err
				}
				out = append(out, para)
			case t.Name.Space == nsOffice && t.Name.Local == "annotation":
				if err := p.dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Space == nsText && t.Name.Local == "section" && len(p.sections) > 0 {
				p.sections = p.sections[:len(p.sections)-1]
			}
		}
	}
}

// style records automatic styles that render italic or bold.
func (p *parser) style(se xml.StartElement) error {
	name := attrValue(se, nsStyle, "name")
	if run, ok := p.runs[attrValue(se, nsStyle, "parent-style-name")]; ok {
		p.runs[name] = run
	}
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return fmt.Errorf("parsing style %s: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == nsStyle && t.Name.Local == "text-properties" {
				switch {
				case attrValue(t, nsFO, "font-style") == "italic":
					p.runs[name] = "em"
				case attrValue(t, nsFO, "font-weight") == "bold":
					p.runs[name] = "strong"
				}
			}
		case xml.EndElement:
			if t.Name.Space == nsStyle && t.Name.Local == "style" {
				return nil
			}
		}
	}
}

func (p *parser) paragraph(se xml.StartElement) (Paragraph, error) {
	para := Paragraph{Style: attrValue(se, nsText, "style-name")}
	if len(p.sections) > 0 {
		para.Section = p.sections[len(p.sections)-1]
	}
	if se.Name.Local == "h" {
		para.Heading = 1
		if lvl, err := strconv.Atoi(attrValue(se, nsText, "outline-level")); err == nil && lvl > 0 {
			para.Heading = lvl
		}
	}

	var text, markup strings.Builder
	var open []string
	emit := func(s string) {
		text.WriteString(s)
		markup.WriteString(escape(s))
	}
	for depth := 1; depth > 0; {
		tok, err := p.dec.Token()
		if err != nil {
			return para, fmt.Errorf("parsing paragraph: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			emit(string(t))
		case xml.StartElement:
			if t.Name.Space != nsText {
				if err := p.dec.Skip(); err != nil {
					return para, err
				}
				continue
			}
			switch t.Name.Local {
			case "span":
				depth++
				run := p.runs[attrValue(t, nsText, "style-name")]
				open = append(open, run)
				if run != "" {
					markup.WriteString("<" + run + ">")
				}
			case "s":
				count := 1
				if c, err := strconv.Atoi(attrValue(t, nsText, "c")); err == nil && c > 0 {
					count = c
				}
				emit(strings.Repeat(" ", count))
				depth++
			case "tab":
				emit("\t")
				depth++
			case "line-break":
				emit(" ")
				depth++
			case "note", "bookmark-ref", "tracked-changes":
				if err := p.dec.Skip(); err != nil {
					return para, err
				}
			default:
				depth++
				open = append(open, "")
			}
		case xml.EndElement:
			depth--
			if depth == 0 {
				break
			}
			switch t.Name.Local {
			case "s", "tab", "line-break":
			default:
				if n := len(open); n > 0 {
					if run := open[n-1]; run != "" {
						markup.WriteString("</" + run + ">")
					}
					open = open[:n-1]
				}
			}
		}
	}
	para.Text = text.String()
	para.Markup = markup.String()
	return para, nil
}

// ParseSheet extracts the tables of a spreadsheet's content.xml.
// Trailing empty cells and rows are dropped.
func ParseSheet(content []byte) ([]Table, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	var (
		tables []Table
		row    []string
		cell   *strings.Builder
		paras  int
		repeat int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return tables, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parsing sheet: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsTable && t.Name.Local == "table":
				tables = append(tables, Table{Name: attrValue(t, nsTable, "name")})
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				row = nil
			case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				cell = &strings.Builder{}
				paras = 0
				repeat = 1
				if r, err := strconv.Atoi(attrValue(t, nsTable, "number-columns-repeated")); err == nil && r > 1 {
					repeat = r
				}
			case t.Name.Space == nsText && t.Name.Local == "p" && cell != nil:
				if paras > 0 {
					cell.WriteString("\n")
				}
				paras++
			case t.Name.Space == nsText && t.Name.Local == "s" && cell != nil:
				cell.WriteString(" ")
			case t.Name.Space == nsOffice && t.Name.Local == "annotation":
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.CharData:
			if cell != nil && paras > 0 {
				cell.Write(t)
			}
		case xml.EndElement:
			switch {
			case t.Name.Space == nsTable && (t.Name.Local == "table-cell" || t.Name.Local == "covered-table-cell"):
				v := cell.String()
				if v == "" {
					repeat = min(repeat, maxRepeat)
				}
				for range repeat {
					row = append(row, v)
				}
				cell = nil
			case t.Name.Space == nsTable && t.Name.Local == "table-row":
				for len(row) > 0 && row[len(row)-1] == "" {
					row = row[:len(row)-1]
				}
				if len(row) > 0 && len(tables) > 0 {
					tables[len(tables)-1].Rows = append(tables[len(tables)-1].Rows, row)
				}
			}
		}
	}
}
