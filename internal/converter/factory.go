package converter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/rpggio/novx/internal/novx"
	"github.com/rpggio/novx/internal/odf"
)

// Reader produces a project model.
type Reader interface {
	Read() (*novel.Novel, error)
}

// Writer stores a project model.
type Writer interface {
	Write(n *novel.Novel) error
}

// ProjectFile is a project on disk.
type ProjectFile interface {
	Reader
	Writer
}

// Merger applies an edited document to its project and reports how many
// elements it updated.
type Merger interface {
	Merge(n *novel.Novel) (int, error)
}

var (
	exportSources = []format.Kind{format.Novx, format.NovxZip}
	exportTargets = []format.Kind{
		format.Manuscript,
		format.ChapterDesc,
		format.SectionDesc,
		format.BriefSynopsis,
		format.SectionList,
		format.CharacterList,
		format.LocationList,
		format.ItemList,
		format.PlotList,
		format.Data,
	}
	importSources = []format.Kind{
		format.Manuscript,
		format.ChapterDesc,
		format.SectionDesc,
		format.SectionList,
		format.CharacterList,
		format.LocationList,
		format.ItemList,
	}
	importTargets = []format.Kind{format.Novx}
)

// ExportSourceFactory selects the project file an export reads.
type ExportSourceFactory struct {
	Backup bool
	Logger *slog.Logger
}

func (f ExportSourceFactory) Make(path string) (format.Kind, ProjectFile, error) {
	k, err := format.Select(exportSources, path)
	if err != nil {
		return 0, nil, err
	}
	if k == format.NovxZip {
		z := novx.NewZipFile(path, f.Logger)
		z.Backup = f.Backup
		return k, z, nil
	}
	file := novx.NewFile(path, f.Logger)
	file.Backup = f.Backup
	return k, file, nil
}

// ExportTargetFactory selects the document writer for an export suffix.
type ExportTargetFactory struct {
	Filter     format.Filter
	StylesPath string
}

// Make returns the kind, path and writer of the document exported from
// the project at projectPath.
func (f ExportTargetFactory) Make(projectPath, suffix string) (format.Kind, string, Writer, error) {
	named, err := format.ParseKind(suffix)
	if err != nil {
		return 0, "", nil, err
	}
	path := named.Path(projectPath)
	k, err := format.Select(exportTargets, path)
	if err != nil {
		return 0, "", nil, err
	}
	w, err := writerFor(k, path, f.Filter, f.StylesPath)
	if err != nil {
		return 0, "", nil, err
	}
	return k, path, w, nil
}

// writerFor is the strategy table from kind to document writer.
func writerFor(k format.Kind, path string, filter format.Filter, stylesPath string) (Writer, error) {
	switch k.Descriptor().Extension {
	case ".odt":
		return &odf.TextWriter{Path: path, Kind: k, Filter: filter, StylesPath: stylesPath}, nil
	case ".ods":
		return &odf.SheetWriter{Path: path, Kind: k, Filter: filter}, nil
	case ".xml":
		return &odf.DataWriter{Path: path}, nil
	}
	return nil, fmt.Errorf("writing %s: %w", k, format.ErrUnsupportedType)
}

// document is an edited export read back into its project.
type document struct {
	path string
	kind format.Kind
}

func (d document) Merge(n *novel.Novel) (int, error) {
	return odf.Merge(d.path, d.kind, n)
}

// ImportSourceFactory selects the reader of an edited export document.
type ImportSourceFactory struct{}

func (ImportSourceFactory) Make(path string) (format.Kind, Merger, error) {
	k, err := format.Select(importSources, path)
	if err != nil {
		return 0, nil, err
	}
	return k, document{path: path, kind: k}, nil
}

// ImportTargetFactory selects the project an edited document of kind
// source belongs to. Without a novx file next to the document, a zipped
// project of the same name is used.
type ImportTargetFactory struct {
	Backup bool
	Logger *slog.Logger
}

func (f ImportTargetFactory) Make(docPath string, source format.Kind) (string, ProjectFile, error) {
	path := source.ProjectPath(docPath)
	if _, err := format.Select(importTargets, path); err != nil {
		return "", nil, err
	}
	zipped := strings.TrimSuffix(path, filepath.Ext(path)) + format.NovxZip.Descriptor().Extension
	if !exists(path) && exists(zipped) {
		z := novx.NewZipFile(zipped, f.Logger)
		z.Backup = f.Backup
		return zipped, z, nil
	}
	file := novx.NewFile(path, f.Logger)
	file.Backup = f.Backup
	return path, file, nil
}

// readerFunc adapts a function to Reader.
type readerFunc func() (*novel.Novel, error)

func (f readerFunc) Read() (*novel.Novel, error) { return f() }

// NewProjectFactory selects the reader that builds a new project from a
// bare document. Outlines are told apart from drafts by their content
// before any name matching, since neither carries a suffix.
type NewProjectFactory struct{}

func (NewProjectFactory) Make(path string) (format.Kind, Reader, error) {
	candidates := []format.Kind{format.DocumentImport}
	if strings.EqualFold(filepath.Ext(path), format.OutlineImport.Descriptor().Extension) {
		outline, err := odf.IsOutline(path)
		if err != nil {
			return 0, nil, err
		}
		if outline {
			candidates = []format.Kind{format.OutlineImport, format.DocumentImport}
		}
	}
	k, err := format.Select(candidates, path)
	if err != nil {
		return 0, nil, err
	}
	if k == format.OutlineImport {
		return k, readerFunc(func() (*novel.Novel, error) { return odf.ReadOutline(path) }), nil
	}
	return k, readerFunc(func() (*novel.Novel, error) { return odf.ReadDocument(path) }), nil
}
