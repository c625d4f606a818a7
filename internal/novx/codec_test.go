package novx_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/novx"
	"github.com/stretchr/testify/require"
)

const canonical = `<?xml version="1.0" encoding="UTF-8"?>
<novx version="1.4" lang="en-GB">
  <PROJECT renumberChapters="1" workPhase="3">
    <Title>The Long Road</Title>
    <Author>J. Doe</Author>
    <Desc>
      <p>A story about roads.</p>
      <p>And walking.</p>
    </Desc>
    <ChapterHeadingPrefix>Chapter </ChapterHeadingPrefix>
    <WordTarget>80000</WordTarget>
    <ReferenceDate>2024-01-01</ReferenceDate>
    <Fields>
      <Field tag="genre">Road &amp; travel</Field>
    </Fields>
  </PROJECT>
  <CHAPTERS>
    <CHAPTER id="ch1" level="1">
      <Title>Part One</Title>
    </CHAPTER>
    <CHAPTER id="ch2">
      <Title>Departure</Title>
      <Desc>
        <p>They leave.</p>
      </Desc>
      <SECTION id="sc1" status="2">
        <Title>Morning</Title>
        <Tags>travel;dawn</Tags>
        <Goal>
          <p>Get going</p>
        </Goal>
        <Date>2024-01-02</Date>
        <Time>06:30</Time>
        <Characters ids="cr1 cr2"/>
        <Locations ids="lc1"/>
        <Link path="notes/morning.md" fullPath="/tmp/notes/morning.md"/>
        <Content>
          <p>The sun <em>rose</em>.</p>
          <p>Alice &amp; Bob left.</p>
        </Content>
      </SECTION>
      <SECTION id="sc2" type="2" status="1" append="1">
        <Title>Stage</Title>
      </SECTION>
    </CHAPTER>
    <CHAPTER id="ch3" type="1" isTrash="1" noNumber="1">
      <Title>Trash</Title>
    </CHAPTER>
  </CHAPTERS>
  <CHARACTERS>
    <CHARACTER id="cr1" major="1">
      <Title>Alice</Title>
      <FullName>Alice Liddell</FullName>
      <Aka>Al</Aka>
      <Tags>lead</Tags>
      <Bio>
        <p>Born by the sea.</p>
      </Bio>
      <BirthDate>1990-05-01</BirthDate>
    </CHARACTER>
    <CHARACTER id="cr2">
      <Title>Bob</Title>
    </CHARACTER>
  </CHARACTERS>
  <LOCATIONS>
    <LOCATION id="lc1">
      <Title>Harbour</Title>
    </LOCATION>
  </LOCATIONS>
  <ITEMS>
    <ITEM id="it1">
      <Title>Map</Title>
      <Notes>
        <p>Torn.</p>
      </Notes>
    </ITEM>
  </ITEMS>
  <ARCS>
    <ARC id="ac1">
      <Title>Journey</Title>
      <ShortName>J</ShortName>
      <Sections ids="sc1"/>
      <POINT id="ap1">
        <Title>Setting out</Title>
        <Section id="sc1"/>
      </POINT>
      <POINT id="ap2">
        <Title>Arrival</Title>
      </POINT>
    </ARC>
  </ARCS>
  <PROJECTNOTES>
    <PROJECTNOTE id="pn1">
      <Title>Research</Title>
    </PROJECTNOTE>
  </PROJECTNOTES>
</novx>
`

func decode(t *testing.T, doc string) *novel.Novel {
	t.Helper()
	n, err := novx.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return n
}

func encode(t *testing.T, n *novel.Novel) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, novx.Encode(&buf, n))
	return buf.String()
}

func TestCodec_RoundTripIsIdentity(t *testing.T) {
	n := decode(t, canonical)
	require.Equal(t, canonical, encode(t, n))
	require.False(t, n.Modified())
	require.NoError(t, n.Check())
}

func TestCodec_DecodesModel(t *testing.T) {
	n := decode(t, canonical)

	require.Equal(t, "en", n.LanguageCode())
	require.Equal(t, "GB", n.CountryCode())
	require.Equal(t, "A story about roads.\nAnd walking.", n.Desc())
	require.True(t, n.RenumberChapters())
	require.Equal(t, 80000, n.WordTarget())
	v, ok := n.Field("genre")
	require.True(t, ok)
	require.Equal(t, "Road & travel", v)

	require.Equal(t, novel.LevelPart, n.Chapter("ch1").Level())
	require.Equal(t, novel.LevelChapter, n.Chapter("ch2").Level())
	require.True(t, n.Chapter("ch3").IsTrash())

	sc := n.Section("sc1")
	require.Equal(t, novel.StatusDraft, sc.Status())
	require.Equal(t, []string{"travel", "dawn"}, sc.Tags())
	require.Equal(t, "cr1", sc.Viewpoint())
	require.Equal(t, "The sun <em>rose</em>.\nAlice &amp; Bob left.", sc.Content())
	require.Equal(t, []string{"ac1"}, sc.PlotLines())
	require.Equal(t, map[string]string{"ap1": "ac1"}, sc.PlotPoints())
	require.Equal(t, []novel.Link{{Path: "notes/morning.md", FullPath: "/tmp/notes/morning.md"}}, sc.Links())

	require.Equal(t, novel.SectionStage1, n.Section("sc2").Type())
	require.True(t, n.Section("sc2").AppendToPrev())
	require.Equal(t, "", n.PlotPoint("ap2").Section())
}

func TestCodec_ParagraphRoundTrip(t *testing.T) {
	for _, text := range []string{"one", "one\ntwo", "a < b\nc & d\n  indented"} {
		n := novel.New()
		n.SetDesc(text)
		require.Equal(t, text, decode(t, encode(t, n)).Desc())
	}
}

func TestCodec_KeepsParagraphAttributes(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<novx version="1.4">
  <PROJECT/>
  <CHAPTERS>
    <CHAPTER id="ch1">
      <SECTION id="sc1">
        <Content>
          <p style="quotations">Quoted</p>
          <p xml:lang="de-DE">Hallo</p>
          <p>Plain <em>text</em></p>
        </Content>
      </SECTION>
    </CHAPTER>
  </CHAPTERS>
</novx>
`
	n := decode(t, doc)
	require.Equal(t,
		"<p style=\"quotations\">Quoted</p>\n<p xml:lang=\"de-DE\">Hallo</p>\nPlain <em>text</em>",
		n.Section("sc1").Content())

	out := encode(t, n)
	require.Contains(t, out, `<p style="quotations">Quoted</p>`)
	require.Contains(t, out, `<p xml:lang="de-DE">Hallo</p>`)
	require.Contains(t, out, `<p>Plain <em>text</em></p>`)
	require.Equal(t, n.Section("sc1").Content(), decode(t, out).Section("sc1").Content())
}

func TestCodec_EmptyTextWritesNoElement(t *testing.T) {
	n := novel.New()
	ch, err := n.CreateChapter("Empty", novel.LevelChapter)
	require.NoError(t, err)
	_, err = n.CreateSection(ch.ID(), "")
	require.NoError(t, err)

	out := encode(t, n)
	require.NotContains(t, out, "<Desc>")
	require.NotContains(t, out, "<Content>")
	require.NotContains(t, out, "<p>")
	require.Contains(t, out, `<SECTION id="sc1" status="1">`)
}

func TestCodec_BooleanFlagsOmittedWhenFalse(t *testing.T) {
	n := novel.New()
	c, err := n.CreateCharacter("Minor")
	require.NoError(t, err)
	c.SetIsMajor(false)

	out := encode(t, n)
	require.NotContains(t, out, "major")
	require.NotContains(t, out, "<Tags>")
	require.NotContains(t, out, `="0"`)

	back := decode(t, out).Character(c.ID())
	require.False(t, back.IsMajor())
	require.NotNil(t, back.Tags())
	require.Empty(t, back.Tags())

	c.SetIsMajor(true)
	require.Contains(t, encode(t, n), `<CHARACTER id="cr1" major="1">`)
}

func TestCodec_EnumDefaults(t *testing.T) {
	doc := `<novx version="1.4"><CHAPTERS>
<CHAPTER id="ch1" level="7" type="9"><SECTION id="sc1" type="x" status="42"/></CHAPTER>
<CHAPTER id="ch2"><SECTION id="sc2"/></CHAPTER>
</CHAPTERS></novx>`
	n := decode(t, doc)

	require.Equal(t, novel.LevelChapter, n.Chapter("ch1").Level())
	require.Equal(t, novel.ChapterUnused, n.Chapter("ch1").Type())
	require.Equal(t, novel.SectionUnused, n.Section("sc1").Type())
	require.Equal(t, novel.StatusOutline, n.Section("sc1").Status())

	require.Equal(t, novel.ChapterNormal, n.Chapter("ch2").Type())
	require.Equal(t, novel.SectionNormal, n.Section("sc2").Type())
	require.Equal(t, novel.StatusOutline, n.Section("sc2").Status())
}

func TestCodec_ToleratesMissingAndEmptyIDLists(t *testing.T) {
	doc := `<novx version="1.4"><CHAPTERS><CHAPTER id="ch1"><SECTION id="sc1"/></CHAPTER></CHAPTERS>
<ARCS><ARC id="ac1"/><ARC id="ac2"><Sections ids=""/></ARC><ARC id="ac3"><Sections ids="sc1 sc99"/></ARC></ARCS></novx>`
	n := decode(t, doc)
	require.Empty(t, n.PlotLine("ac1").Sections())
	require.Empty(t, n.PlotLine("ac2").Sections())
	require.Equal(t, []string{"sc1"}, n.PlotLine("ac3").Sections())
	require.Equal(t, []string{"ac3"}, n.Section("sc1").PlotLines())
	require.NoError(t, n.Check())
}

func TestCodec_BuildsPlotBackReferences(t *testing.T) {
	doc := `<novx version="1.3"><CHAPTERS><CHAPTER id="ch1"><SECTION id="sc1"/></CHAPTER></CHAPTERS>
<ARCS><ARC id="ac1"><Section id="sc1"/><Section id="sc1"/><Section id="sc9"/>
<POINT id="ap1"><Section id="sc1"/></POINT><POINT id="ap2"><Section id="sc9"/></POINT></ARC></ARCS></novx>`
	n := decode(t, doc)
	require.Equal(t, []string{"sc1"}, n.PlotLine("ac1").Sections())
	require.Equal(t, []string{"ac1"}, n.Section("sc1").PlotLines())
	require.Equal(t, map[string]string{"ap1": "ac1"}, n.Section("sc1").PlotPoints())
	require.Equal(t, "", n.PlotPoint("ap2").Section())
	require.NoError(t, n.Check())
}

func TestCodec_VersionHandling(t *testing.T) {
	for _, v := range []string{"2.0", "1.5", "", "x.y"} {
		_, err := novx.Decode(strings.NewReader(`<novx version="` + v + `"/>`))
		require.ErrorIs(t, err, novx.ErrVersion, v)
	}

	_, err := novx.Decode(strings.NewReader(`<project version="1.4"/>`))
	require.ErrorIs(t, err, novx.ErrMalformed)
	_, err = novx.Decode(strings.NewReader(`<novx version="1.4">`))
	require.ErrorIs(t, err, novx.ErrMalformed)
}

func TestCodec_UpgradesLegacyLayout(t *testing.T) {
	doc := `<novx version="1.3">
<CHAPTERS><CHAPTER id="ch1">
<SECTION id="sc1"><Characters>cr1 cr2</Characters></SECTION>
<SECTION id="sc2"/>
</CHAPTER></CHAPTERS>
<CHARACTERS><CHARACTER id="cr1"/><CHARACTER id="cr2"/></CHARACTERS>
<ARCS><ARC id="ac1"><Section id="sc1"/><Section id="sc2"/></ARC></ARCS>
</novx>`
	n := decode(t, doc)
	require.Equal(t, []string{"cr1", "cr2"}, n.Section("sc1").Characters())
	require.Equal(t, []string{"sc1", "sc2"}, n.PlotLine("ac1").Sections())

	out := encode(t, n)
	require.Contains(t, out, `<novx version="1.4">`)
	require.Contains(t, out, `<Sections ids="sc1 sc2"/>`)
}

func TestCodec_TrashMustBeLast(t *testing.T) {
	doc := `<novx version="1.4"><CHAPTERS>
<CHAPTER id="ch1" isTrash="1"/><CHAPTER id="ch2" isTrash="1"/>
</CHAPTERS></novx>`
	_, err := novx.Decode(strings.NewReader(doc))
	require.ErrorIs(t, err, novel.ErrMultipleTrash)

	doc = `<novx version="1.4"><CHAPTERS>
<CHAPTER id="ch1" isTrash="1"/><CHAPTER id="ch2"/>
</CHAPTERS></novx>`
	_, err = novx.Decode(strings.NewReader(doc))
	require.ErrorIs(t, err, novel.ErrTrashNotLast)
}

func TestTags(t *testing.T) {
	require.Equal(t, []string{"a", "b c"}, novx.SplitTags(" a ;; b c ;"))
	require.Equal(t, []string{}, novx.SplitTags(""))
	require.Equal(t, "a;b", novx.JoinTags([]string{"a", "b"}))
}
