package novx

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
)

// Decode parses a novx document into a new project. Older minor versions
// are upgraded first. The returned project is unmodified.
func Decode(r io.Reader) (*novel.Novel, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	minor, err := checkVersion(doc.Version)
	if err != nil {
		return nil, err
	}
	if minor < minorVersion {
		upgrade(&doc)
	}

	n := novel.New()
	if err := build(n, &doc); err != nil {
		return nil, err
	}
	n.SetModified(false)
	return n, nil
}

func checkVersion(v string) (int, error) {
	major, minor, ok := strings.Cut(v, ".")
	if !ok {
		return 0, fmt.Errorf("version %q: %w", v, ErrVersion)
	}
	maj, err := strconv.Atoi(major)
	if err != nil || maj != majorVersion {
		return 0, fmt.Errorf("version %q: %w", v, ErrVersion)
	}
	mnr, err := strconv.Atoi(minor)
	if err != nil || mnr < 0 || mnr > minorVersion {
		return 0, fmt.Errorf("version %q: %w", v, ErrVersion)
	}
	return mnr, nil
}

func build(n *novel.Novel, doc *xmlDocument) error {
	buildProject(n, doc)

	// World elements first so that section participants can be checked.
	for _, x := range doc.Characters {
		c := novel.NewCharacter(x.ID)
		readCommon(&c.Element, &x.xmlCommon)
		readWorld(&c.WorldElement, &x.xmlWorld)
		c.SetFullName(x.FullName)
		c.SetIsMajor(x.Major == "1")
		c.SetBio(text(x.Bio))
		c.SetGoals(text(x.Goals))
		_ = c.SetBirthDate(x.BirthDate)
		_ = c.SetDeathDate(x.DeathDate)
		if err := n.AddCharacter(c); err != nil {
			return fmt.Errorf("character %s: %w", x.ID, err)
		}
	}
	for _, x := range doc.Locations {
		l := novel.NewLocation(x.ID)
		readCommon(&l.Element, &x.xmlCommon)
		readWorld(&l.WorldElement, &x)
		if err := n.AddLocation(l); err != nil {
			return fmt.Errorf("location %s: %w", x.ID, err)
		}
	}
	for _, x := range doc.Items {
		it := novel.NewItem(x.ID)
		readCommon(&it.Element, &x.xmlCommon)
		readWorld(&it.WorldElement, &x)
		if err := n.AddItem(it); err != nil {
			return fmt.Errorf("item %s: %w", x.ID, err)
		}
	}

	for _, x := range doc.Chapters {
		if err := buildChapter(n, &x); err != nil {
			return err
		}
	}

	for _, x := range doc.PlotLines {
		pl := novel.NewPlotLine(x.ID)
		readCommon(&pl.Element, &x.xmlCommon)
		pl.SetShortName(x.ShortName)
		pl.SetNotes(text(x.Notes))
		if err := n.AddPlotLine(pl); err != nil {
			return fmt.Errorf("plot line %s: %w", x.ID, err)
		}
		for _, scID := range ids(x.Sections) {
			if n.Section(scID) == nil {
				continue
			}
			if err := n.LinkSection(pl.ID(), scID); err != nil {
				return err
			}
		}
		for _, xp := range x.Points {
			pp := novel.NewPlotPoint(xp.ID)
			readCommon(&pp.Element, &xp.xmlCommon)
			pp.SetNotes(text(xp.Notes))
			if err := n.AddPlotPoint(pl.ID(), pp); err != nil {
				return fmt.Errorf("plot point %s: %w", xp.ID, err)
			}
			if xp.Section == nil || n.Section(xp.Section.ID) == nil {
				continue
			}
			if err := n.AssignPlotPoint(pp.ID(), xp.Section.ID); err != nil {
				return err
			}
		}
	}

	for _, x := range doc.Notes {
		pn := novel.NewProjectNote(x.ID)
		readCommon(&pn.Element, &x)
		if err := n.AddProjectNote(pn); err != nil {
			return fmt.Errorf("project note %s: %w", x.ID, err)
		}
	}
	return nil
}

func buildProject(n *novel.Novel, doc *xmlDocument) {
	lang, country, _ := strings.Cut(doc.Lang, "-")
	n.SetLanguageCode(lang)
	n.SetCountryCode(country)

	p := &doc.Project
	n.SetTitle(p.Title)
	n.SetAuthorName(p.Author)
	n.SetDesc(text(p.Desc))
	n.SetRenumberChapters(p.RenumberChapters == "1")
	n.SetWorkPhase(atoi(p.WorkPhase))
	n.SetChapterHeadingPrefix(p.HeadingPrefix)
	n.SetChapterHeadingSuffix(p.HeadingSuffix)
	n.SetWordTarget(atoi(p.WordTarget))
	n.SetWordCountStart(atoi(p.WordCountStart))
	_ = n.SetReferenceDate(p.ReferenceDate)
	n.SetLinks(links(p.Links))
	n.SetFields(fields(p.Fields))
}

func buildChapter(n *novel.Novel, x *xmlChapter) error {
	ch := novel.NewChapter(x.ID)
	readCommon(&ch.Element, &x.xmlCommon)
	ch.SetNotes(text(x.Notes))
	ch.SetEpigraph(text(x.Epigraph))
	ch.SetEpigraphSrc(x.EpigraphSrc)
	ch.SetNoNumber(x.NoNumber == "1")
	if err := ch.SetIsTrash(x.IsTrash == "1"); err != nil {
		return err
	}

	ch.SetLevel(novel.LevelChapter)
	if lvl := novel.ChapterLevel(atoi(x.Level)); lvl.Valid() {
		ch.SetLevel(lvl)
	}
	ch.SetType(novel.ChapterNormal)
	if x.Type != "" {
		if t := novel.ChapterType(atoi(x.Type)); t.Valid() && isInt(x.Type) {
			ch.SetType(t)
		} else {
			ch.SetType(novel.ChapterUnused)
		}
	}
	if err := n.AddChapter(ch); err != nil {
		return fmt.Errorf("chapter %s: %w", x.ID, err)
	}

	for _, xs := range x.Sections {
		sc := novel.NewSection(xs.ID)
		readCommon(&sc.Element, &xs.xmlCommon)
		sc.SetNotes(text(xs.Notes))
		sc.SetGoal(text(xs.Goal))
		sc.SetConflict(text(xs.Conflict))
		sc.SetOutcome(text(xs.Outcome))
		sc.SetAppendToPrev(xs.Append == "1")
		_ = sc.SetDate(xs.Date)
		_ = sc.SetTime(xs.Time)
		sc.SetContent(raw(xs.Content))
		sc.SetTags(tags(xs.Tags))

		sc.SetType(novel.SectionNormal)
		if xs.Type != "" {
			if t := novel.SectionType(atoi(xs.Type)); t.Valid() && isInt(xs.Type) {
				sc.SetType(t)
			} else {
				sc.SetType(novel.SectionUnused)
			}
		}
		sc.SetStatus(novel.StatusOutline)
		if st := novel.Status(atoi(xs.Status)); st.Valid() {
			sc.SetStatus(st)
		}

		sc.SetCharacters(existing(ids(xs.Characters), func(id string) bool { return n.Character(id) != nil }))
		sc.SetLocations(existing(ids(xs.Locations), func(id string) bool { return n.Location(id) != nil }))
		sc.SetItems(existing(ids(xs.Items), func(id string) bool { return n.Item(id) != nil }))

		if err := n.AddSection(ch.ID(), sc); err != nil {
			return fmt.Errorf("section %s: %w", xs.ID, err)
		}
	}
	return nil
}

func readCommon(e *novel.Element, x *xmlCommon) {
	e.SetTitle(x.Title)
	e.SetDesc(text(x.Desc))
	e.SetLinks(links(x.Links))
	e.SetFields(fields(x.Fields))
}

func readWorld(w *novel.WorldElement, x *xmlWorld) {
	w.SetAka(x.Aka)
	w.SetNotes(text(x.Notes))
	w.SetTags(tags(x.Tags))
}

func text(t *xmlText) string {
	if t == nil {
		return ""
	}
	return strings.Join(t.Paras, "\n")
}

func raw(t *xmlRaw) string {
	if t == nil {
		return ""
	}
	lines := make([]string, len(t.Paras))
	for i, p := range t.Paras {
		lines[i] = p.line()
	}
	return strings.Join(lines, "\n")
}

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// line returns the paragraph's inner markup, or the whole element when it
// carries attributes such as style or xml:lang.
func (p xmlInner) line() string {
	if len(p.Attrs) == 0 {
		return p.Inner
	}
	var b strings.Builder
	b.WriteString("<p")
	for _, a := range p.Attrs {
		name := a.Name.Local
		switch a.Name.Space {
		case "":
		case xmlNamespace:
			name = "xml:" + name
		default:
			name = a.Name.Space + ":" + name
		}
		fmt.Fprintf(&b, ` %s="%s"`, name, escape(a.Value))
	}
	b.WriteString(">")
	b.WriteString(p.Inner)
	b.WriteString("</p>")
	return b.String()
}

func tags(s *string) []string {
	if s == nil {
		return []string{}
	}
	return SplitTags(*s)
}

func ids(x *xmlIDs) []string {
	if x == nil {
		return nil
	}
	return strings.Fields(x.IDs)
}

func existing(list []string, ok func(string) bool) []string {
	if list == nil {
		return nil
	}
	return slices.DeleteFunc(list, func(id string) bool { return !ok(id) })
}

func links(xs []xmlLink) []novel.Link {
	if len(xs) == 0 {
		return nil
	}
	out := make([]novel.Link, len(xs))
	for i, l := range xs {
		out[i] = novel.Link{Path: l.Path, FullPath: l.FullPath}
	}
	return out
}

func fields(xs []xmlField) []novel.Field {
	if len(xs) == 0 {
		return nil
	}
	out := make([]novel.Field, len(xs))
	for i, f := range xs {
		out[i] = novel.Field{Key: f.Tag, Value: f.Value}
	}
	return out
}

func atoi(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func isInt(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
