package odf

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/novx"
)

type dataEntry struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"Title"`
	Aka   string `xml:"Aka,omitempty"`
	Desc  string `xml:"Desc,omitempty"`
	Tags  string `xml:"Tags,omitempty"`
	Major bool   `xml:"major,attr,omitempty"`
}

type dataDocument struct {
	XMLName    xml.Name    `xml:"novxData"`
	Characters []dataEntry `xml:"CHARACTERS>CHARACTER"`
	Locations  []dataEntry `xml:"LOCATIONS>LOCATION"`
	Items      []dataEntry `xml:"ITEMS>ITEM"`
}

func worldEntry(w *novel.WorldElement) dataEntry {
	return dataEntry{
		ID:    w.ID(),
		Title: w.Title(),
		Aka:   w.Aka(),
		Desc:  w.Desc(),
		Tags:  novx.JoinTags(w.Tags()),
	}
}

// DataWriter exports the world elements of a project as plain XML for
// other tools to consume.
type DataWriter struct {
	Path string
}

func (w *DataWriter) Write(n *novel.Novel) error {
	doc := dataDocument{}
	for _, c := range n.Characters() {
		e := worldEntry(&c.WorldElement)
		e.Major = c.IsMajor()
		doc.Characters = append(doc.Characters, e)
	}
	for _, l := range locations(n) {
		doc.Locations = append(doc.Locations, worldEntry(l))
	}
	for _, it := range items(n) {
		doc.Items = append(doc.Items, worldEntry(it))
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding data: %w", err)
	}
	data := append([]byte(xml.Header), out...)
	data = append(data, '\n')
	if err := os.WriteFile(w.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.Path, err)
	}
	return nil
}
