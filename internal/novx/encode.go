package novx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
)

type attr struct {
	name  string
	value string
}

func flag(name string, v bool) attr {
	if v {
		return attr{name, "1"}
	}
	return attr{name: name}
}

// xmlWriter renders elements with one level of two-space indentation per
// nesting depth. Attributes with empty values are omitted.
type xmlWriter struct {
	buf   bytes.Buffer
	depth int
}

func (w *xmlWriter) indent() {
	w.buf.WriteString(strings.Repeat("  ", w.depth))
}

func (w *xmlWriter) tag(name string, attrs []attr, selfClose bool) {
	w.indent()
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	for _, a := range attrs {
		if a.value == "" {
			continue
		}
		fmt.Fprintf(&w.buf, ` %s="%s"`, a.name, escape(a.value))
	}
	if selfClose {
		w.buf.WriteString("/>\n")
		return
	}
	w.buf.WriteString(">\n")
}

func (w *xmlWriter) open(name string, attrs ...attr) {
	w.tag(name, attrs, false)
	w.depth++
}

func (w *xmlWriter) close(name string) {
	w.depth--
	w.indent()
	fmt.Fprintf(&w.buf, "</%s>\n", name)
}

// leaf writes <name>text</name>, or nothing when text is empty.
func (w *xmlWriter) leaf(name, text string, attrs ...attr) {
	if text == "" {
		return
	}
	w.indent()
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	for _, a := range attrs {
		if a.value != "" {
			fmt.Fprintf(&w.buf, ` %s="%s"`, a.name, escape(a.value))
		}
	}
	fmt.Fprintf(&w.buf, ">%s</%s>\n", escape(text), name)
}

// paragraphs writes text as one <p> per line. Lines are escaped unless raw,
// in which case they already hold paragraph markup. A raw line that is a
// whole attributed paragraph is written as is.
func (w *xmlWriter) paragraphs(name, text string, raw bool) {
	if text == "" {
		return
	}
	w.open(name)
	for _, line := range strings.Split(text, "\n") {
		if !raw {
			line = escape(line)
		}
		w.indent()
		if raw && isParagraph(line) {
			w.buf.WriteString(line + "\n")
			continue
		}
		fmt.Fprintf(&w.buf, "<p>%s</p>\n", line)
	}
	w.close(name)
}

func isParagraph(line string) bool {
	return strings.HasPrefix(line, "<p ") && strings.HasSuffix(line, "</p>")
}

func (w *xmlWriter) ids(name string, ids []string) {
	if len(ids) == 0 {
		return
	}
	w.tag(name, []attr{{"ids", strings.Join(ids, " ")}}, true)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func itoa(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// Encode writes n as a novx document.
func Encode(out io.Writer, n *novel.Novel) error {
	w := &xmlWriter{}
	w.buf.WriteString(xml.Header)
	w.open("novx", attr{"version", fmt.Sprintf("%d.%d", majorVersion, minorVersion)}, attr{"lang", lang(n)})

	w.open("PROJECT", flag("renumberChapters", n.RenumberChapters()), attr{"workPhase", itoa(n.WorkPhase())})
	w.leaf("Title", n.Title())
	w.leaf("Author", n.AuthorName())
	w.paragraphs("Desc", n.Desc(), false)
	w.leaf("ChapterHeadingPrefix", n.ChapterHeadingPrefix())
	w.leaf("ChapterHeadingSuffix", n.ChapterHeadingSuffix())
	w.leaf("WordTarget", itoa(n.WordTarget()))
	w.leaf("WordCountStart", itoa(n.WordCountStart()))
	w.leaf("ReferenceDate", n.ReferenceDate())
	writeExtras(w, &n.Element)
	w.close("PROJECT")

	w.open("CHAPTERS")
	for _, ch := range n.Chapters() {
		writeChapter(w, n, ch)
	}
	w.close("CHAPTERS")

	w.open("CHARACTERS")
	for _, c := range n.Characters() {
		w.open("CHARACTER", attr{"id", c.ID()}, flag("major", c.IsMajor()))
		w.leaf("Title", c.Title())
		w.leaf("FullName", c.FullName())
		writeWorld(w, &c.WorldElement)
		w.paragraphs("Bio", c.Bio(), false)
		w.paragraphs("Goals", c.Goals(), false)
		w.leaf("BirthDate", c.BirthDate())
		w.leaf("DeathDate", c.DeathDate())
		writeExtras(w, &c.Element)
		w.close("CHARACTER")
	}
	w.close("CHARACTERS")

	w.open("LOCATIONS")
	for _, l := range n.Locations() {
		w.open("LOCATION", attr{"id", l.ID()})
		w.leaf("Title", l.Title())
		writeWorld(w, &l.WorldElement)
		writeExtras(w, &l.Element)
		w.close("LOCATION")
	}
	w.close("LOCATIONS")

	w.open("ITEMS")
	for _, it := range n.Items() {
		w.open("ITEM", attr{"id", it.ID()})
		w.leaf("Title", it.Title())
		writeWorld(w, &it.WorldElement)
		writeExtras(w, &it.Element)
		w.close("ITEM")
	}
	w.close("ITEMS")

	w.open("ARCS")
	for _, pl := range n.PlotLines() {
		w.open("ARC", attr{"id", pl.ID()})
		w.leaf("Title", pl.Title())
		w.leaf("ShortName", pl.ShortName())
		w.paragraphs("Desc", pl.Desc(), false)
		w.paragraphs("Notes", pl.Notes(), false)
		w.ids("Sections", pl.Sections())
		writeExtras(w, &pl.Element)
		for _, pp := range n.PlotPointsOf(pl.ID()) {
			w.open("POINT", attr{"id", pp.ID()})
			w.leaf("Title", pp.Title())
			w.paragraphs("Desc", pp.Desc(), false)
			w.paragraphs("Notes", pp.Notes(), false)
			if pp.Section() != "" {
				w.tag("Section", []attr{{"id", pp.Section()}}, true)
			}
			writeExtras(w, &pp.Element)
			w.close("POINT")
		}
		w.close("ARC")
	}
	w.close("ARCS")

	w.open("PROJECTNOTES")
	for _, pn := range n.ProjectNotes() {
		w.open("PROJECTNOTE", attr{"id", pn.ID()})
		w.leaf("Title", pn.Title())
		w.paragraphs("Desc", pn.Desc(), false)
		writeExtras(w, &pn.Element)
		w.close("PROJECTNOTE")
	}
	w.close("PROJECTNOTES")

	w.close("novx")
	_, err := out.Write(w.buf.Bytes())
	return err
}

func writeChapter(w *xmlWriter, n *novel.Novel, ch *novel.Chapter) {
	level := ""
	if ch.Level() == novel.LevelPart {
		level = "1"
	}
	w.open("CHAPTER",
		attr{"id", ch.ID()},
		attr{"type", itoa(int(ch.Type()))},
		attr{"level", level},
		flag("isTrash", ch.IsTrash()),
		flag("noNumber", ch.NoNumber()),
	)
	w.leaf("Title", ch.Title())
	w.paragraphs("Desc", ch.Desc(), false)
	w.paragraphs("Notes", ch.Notes(), false)
	w.paragraphs("Epigraph", ch.Epigraph(), false)
	w.leaf("EpigraphSrc", ch.EpigraphSrc())
	writeExtras(w, &ch.Element)
	for _, sc := range n.SectionsOf(ch.ID()) {
		writeSection(w, sc)
	}
	w.close("CHAPTER")
}

func writeSection(w *xmlWriter, sc *novel.Section) {
	w.open("SECTION",
		attr{"id", sc.ID()},
		attr{"type", itoa(int(sc.Type()))},
		attr{"status", strconv.Itoa(int(sc.Status()))},
		flag("append", sc.AppendToPrev()),
	)
	w.leaf("Title", sc.Title())
	w.paragraphs("Desc", sc.Desc(), false)
	w.paragraphs("Notes", sc.Notes(), false)
	w.leaf("Tags", JoinTags(sc.Tags()))
	w.paragraphs("Goal", sc.Goal(), false)
	w.paragraphs("Conflict", sc.Conflict(), false)
	w.paragraphs("Outcome", sc.Outcome(), false)
	w.leaf("Date", sc.Date())
	w.leaf("Time", sc.Time())
	w.ids("Characters", sc.Characters())
	w.ids("Locations", sc.Locations())
	w.ids("Items", sc.Items())
	writeExtras(w, &sc.Element)
	w.paragraphs("Content", sc.Content(), true)
	w.close("SECTION")
}

func writeWorld(w *xmlWriter, we *novel.WorldElement) {
	w.leaf("Aka", we.Aka())
	w.paragraphs("Desc", we.Desc(), false)
	w.paragraphs("Notes", we.Notes(), false)
	w.leaf("Tags", JoinTags(we.Tags()))
}

func writeExtras(w *xmlWriter, e *novel.Element) {
	for _, l := range e.Links() {
		w.tag("Link", []attr{{"path", l.Path}, {"fullPath", l.FullPath}}, true)
	}
	fields := e.Fields()
	if len(fields) == 0 {
		return
	}
	w.open("Fields")
	for _, f := range fields {
		w.indent()
		fmt.Fprintf(&w.buf, "<Field tag=\"%s\">%s</Field>\n", escape(f.Key), escape(f.Value))
	}
	w.close("Fields")
}

func lang(n *novel.Novel) string {
	switch {
	case n.LanguageCode() == "":
		return ""
	case n.CountryCode() == "":
		return n.LanguageCode()
	}
	return n.LanguageCode() + "-" + n.CountryCode()
}

// JoinTags renders tags in the tag-string form used by novx and the
// spreadsheet exports.
func JoinTags(tags []string) string {
	return strings.Join(tags, ";")
}

// SplitTags parses a tag string. Empty tags are dropped and an empty string
// yields an empty, non-nil list.
func SplitTags(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ";") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
