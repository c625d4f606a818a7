package novx

import "strings"

// upgrade rewrites a pre-1.4 document into the current layout:
//   - ID lists were stored as element text instead of an ids attribute
//   - plot lines listed their sections as <Section id=".."/> children
func upgrade(doc *xmlDocument) {
	for i := range doc.Chapters {
		for j := range doc.Chapters[i].Sections {
			sc := &doc.Chapters[i].Sections[j]
			legacyIDs(sc.Characters)
			legacyIDs(sc.Locations)
			legacyIDs(sc.Items)
		}
	}
	for i := range doc.PlotLines {
		pl := &doc.PlotLines[i]
		legacyIDs(pl.Sections)
		if len(pl.Legacy) == 0 {
			continue
		}
		if pl.Sections == nil {
			pl.Sections = &xmlIDs{}
		}
		list := strings.Fields(pl.Sections.IDs)
		for _, ref := range pl.Legacy {
			if ref.ID != "" {
				list = append(list, ref.ID)
			}
		}
		pl.Sections.IDs = strings.Join(list, " ")
		pl.Legacy = nil
	}
}

func legacyIDs(x *xmlIDs) {
	if x == nil || x.IDs != "" {
		return
	}
	x.IDs = strings.Join(strings.Fields(x.Text), " ")
	x.Text = ""
}
