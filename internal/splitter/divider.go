package splitter

import (
	"html"
	"regexp"
	"strings"
)

type divider int

const (
	noDivider divider = iota
	partDivider
	chapterDivider
	sectionDivider
	appendDivider
)

// Longer tokens come first so that "##" isn't read as "#".
var markers = []struct {
	token string
	kind  divider
}{
	{"#!", partDivider},
	{"##+", appendDivider},
	{"##", sectionDivider},
	{"#", chapterDivider},
}

// parseDivider reports the divider a line starts with and the title that
// follows it. The token must be followed by a space or end the line.
func parseDivider(line string) (divider, string) {
	for _, m := range markers {
		rest, ok := strings.CutPrefix(line, m.token)
		if !ok {
			continue
		}
		if rest == "" {
			return m.kind, ""
		}
		if rest[0] == ' ' {
			return m.kind, strings.TrimSpace(rest)
		}
		return noDivider, ""
	}
	return noDivider, ""
}

var markup = regexp.MustCompile(`<[^>]*>`)

// plain turns a line of paragraph markup into text.
func plain(line string) string {
	return html.UnescapeString(markup.ReplaceAllString(line, ""))
}
