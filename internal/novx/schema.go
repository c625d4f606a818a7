// Package novx reads and writes projects in the novx XML format, plain or
// zipped.
package novx

import "encoding/xml"

// Extension is the file extension of novx project files.
const Extension = ".novx"

const (
	majorVersion = 1
	minorVersion = 4
)

type xmlDocument struct {
	XMLName    xml.Name       `xml:"novx"`
	Version    string         `xml:"version,attr"`
	Lang       string         `xml:"lang,attr"`
	Project    xmlProject     `xml:"PROJECT"`
	Chapters   []xmlChapter   `xml:"CHAPTERS>CHAPTER"`
	Characters []xmlCharacter `xml:"CHARACTERS>CHARACTER"`
	Locations  []xmlWorld     `xml:"LOCATIONS>LOCATION"`
	Items      []xmlWorld     `xml:"ITEMS>ITEM"`
	PlotLines  []xmlPlotLine  `xml:"ARCS>ARC"`
	Notes      []xmlCommon    `xml:"PROJECTNOTES>PROJECTNOTE"`
}

type xmlCommon struct {
	ID     string     `xml:"id,attr"`
	Title  string     `xml:"Title"`
	Desc   *xmlText   `xml:"Desc"`
	Links  []xmlLink  `xml:"Link"`
	Fields []xmlField `xml:"Fields>Field"`
}

type xmlProject struct {
	RenumberChapters string     `xml:"renumberChapters,attr"`
	WorkPhase        string     `xml:"workPhase,attr"`
	Title            string     `xml:"Title"`
	Author           string     `xml:"Author"`
	Desc             *xmlText   `xml:"Desc"`
	HeadingPrefix    string     `xml:"ChapterHeadingPrefix"`
	HeadingSuffix    string     `xml:"ChapterHeadingSuffix"`
	WordTarget       string     `xml:"WordTarget"`
	WordCountStart   string     `xml:"WordCountStart"`
	ReferenceDate    string     `xml:"ReferenceDate"`
	Links            []xmlLink  `xml:"Link"`
	Fields           []xmlField `xml:"Fields>Field"`
}

type xmlChapter struct {
	xmlCommon
	Type        string       `xml:"type,attr"`
	Level       string       `xml:"level,attr"`
	IsTrash     string       `xml:"isTrash,attr"`
	NoNumber    string       `xml:"noNumber,attr"`
	Notes       *xmlText     `xml:"Notes"`
	Epigraph    *xmlText     `xml:"Epigraph"`
	EpigraphSrc string       `xml:"EpigraphSrc"`
	Sections    []xmlSection `xml:"SECTION"`
}

type xmlSection struct {
	xmlCommon
	Type       string   `xml:"type,attr"`
	Status     string   `xml:"status,attr"`
	Append     string   `xml:"append,attr"`
	Notes      *xmlText `xml:"Notes"`
	Tags       *string  `xml:"Tags"`
	Goal       *xmlText `xml:"Goal"`
	Conflict   *xmlText `xml:"Conflict"`
	Outcome    *xmlText `xml:"Outcome"`
	Date       string   `xml:"Date"`
	Time       string   `xml:"Time"`
	Characters *xmlIDs  `xml:"Characters"`
	Locations  *xmlIDs  `xml:"Locations"`
	Items      *xmlIDs  `xml:"Items"`
	Content    *xmlRaw  `xml:"Content"`
}

type xmlWorld struct {
	xmlCommon
	Aka   string   `xml:"Aka"`
	Notes *xmlText `xml:"Notes"`
	Tags  *string  `xml:"Tags"`
}

type xmlCharacter struct {
	xmlWorld
	Major     string   `xml:"major,attr"`
	FullName  string   `xml:"FullName"`
	Bio       *xmlText `xml:"Bio"`
	Goals     *xmlText `xml:"Goals"`
	BirthDate string   `xml:"BirthDate"`
	DeathDate string   `xml:"DeathDate"`
}

type xmlPlotLine struct {
	xmlCommon
	ShortName string         `xml:"ShortName"`
	Notes     *xmlText       `xml:"Notes"`
	Sections  *xmlIDs        `xml:"Sections"`
	Legacy    []xmlRef       `xml:"Section"`
	Points    []xmlPlotPoint `xml:"POINT"`
}

type xmlPlotPoint struct {
	xmlCommon
	Notes   *xmlText `xml:"Notes"`
	Section *xmlRef  `xml:"Section"`
}

type xmlText struct {
	Paras []string `xml:"p"`
}

type xmlRaw struct {
	Paras []xmlInner `xml:"p"`
}

type xmlInner struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Inner string     `xml:",innerxml"`
}

// xmlIDs holds a space separated ID list. Files older than 1.4 store the
// list as character data instead of the ids attribute.
type xmlIDs struct {
	IDs  string `xml:"ids,attr"`
	Text string `xml:",chardata"`
}

type xmlRef struct {
	ID string `xml:"id,attr"`
}

type xmlLink struct {
	Path     string `xml:"path,attr"`
	FullPath string `xml:"fullPath,attr"`
}

type xmlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}
