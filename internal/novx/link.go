package novx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/novx/internal/domain/novel"
)

// ResolveLink locates the target of l. The stored path is tried relative to
// dir first, then as given, then the recorded full path. On success both
// paths are returned normalized: Path relative to dir where possible and
// FullPath absolute.
func ResolveLink(dir string, l novel.Link) (novel.Link, error) {
	var candidates []string
	if l.Path != "" {
		if !filepath.IsAbs(l.Path) {
			candidates = append(candidates, filepath.Join(dir, l.Path))
		}
		candidates = append(candidates, l.Path)
	}
	if l.FullPath != "" {
		candidates = append(candidates, l.FullPath)
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err != nil {
			continue
		}
		full, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		out := novel.Link{Path: full, FullPath: full}
		if absDir, err := filepath.Abs(dir); err == nil {
			if rel, err := filepath.Rel(absDir, full); err == nil {
				out.Path = filepath.ToSlash(rel)
			}
		}
		return out, nil
	}
	return l, fmt.Errorf("link %q: %w", l.Path, ErrLinkNotFound)
}

// resolveLinks updates every link of n in place. Unresolvable links are kept
// unchanged and logged. The modified flag is preserved.
func resolveLinks(n *novel.Novel, dir string, logger *slog.Logger) {
	modified := n.Modified()
	for _, e := range elements(n) {
		links := e.Links()
		if len(links) == 0 {
			continue
		}
		for i, l := range links {
			resolved, err := ResolveLink(dir, l)
			if err != nil {
				logger.Warn("unresolved link", "element", e.ID(), "path", l.Path, "error", err)
				continue
			}
			links[i] = resolved
		}
		e.SetLinks(links)
	}
	n.SetModified(modified)
}

func elements(n *novel.Novel) []*novel.Element {
	out := []*novel.Element{&n.Element}
	for _, ch := range n.Chapters() {
		out = append(out, &ch.Element)
	}
	for _, sc := range n.Sections() {
		out = append(out, &sc.Element)
	}
	for _, c := range n.Characters() {
		out = append(out, &c.Element)
	}
	for _, l := range n.Locations() {
		out = append(out, &l.Element)
	}
	for _, it := range n.Items() {
		out = append(out, &it.Element)
	}
	for _, pl := range n.PlotLines() {
		out = append(out, &pl.Element)
		for _, pp := range n.PlotPointsOf(pl.ID()) {
			out = append(out, &pp.Element)
		}
	}
	for _, pn := range n.ProjectNotes() {
		out = append(out, &pn.Element)
	}
	return out
}
