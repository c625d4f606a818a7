package novx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/novx/internal/domain/novel"
)

// File is a novx project file on disk.
type File struct {
	Path string
	// Backup keeps the previous file as <path>.bak when overwriting.
	Backup bool
	logger *slog.Logger
}

// NewFile creates a handle for the project at path.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &File{Path: path, logger: logger}
}

// Read decodes the project and resolves its links against the project
// directory.
func (f *File) Read() (*novel.Novel, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	n, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	resolveLinks(n, filepath.Dir(f.Path), f.logger)
	f.logger.Debug("project read", "path", f.Path, "chapters", len(n.Chapters()), "sections", len(n.Sections()))
	return n, nil
}

// Write checks the project and replaces the file in a single write.
func (f *File) Write(n *novel.Novel) error {
	data, err := render(n)
	if err != nil {
		return err
	}
	if err := f.replace(f.Path, data); err != nil {
		return err
	}
	n.SetModified(false)
	f.logger.Debug("project written", "path", f.Path, "bytes", len(data))
	return nil
}

// replace writes data to a temporary file next to path and renames it over
// path, so a failed write leaves the previous file in place.
func (f *File) replace(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if f.Backup {
		if err := backup(path); err != nil {
			return fmt.Errorf("backing up %s: %w", path, err)
		}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// backup copies path to path.bak, replacing an older backup. A missing
// file needs no backup.
func backup(path string) error {
	old, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path+".bak", old, 0o644)
}

func render(n *novel.Novel) ([]byte, error) {
	if err := n.Check(); err != nil {
		return nil, fmt.Errorf("project integrity: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ZipFile is a project stored as the single novx member of a zip archive.
type ZipFile struct {
	File
}

// NewZipFile creates a handle for the zipped project at path.
func NewZipFile(path string, logger *slog.Logger) *ZipFile {
	return &ZipFile{File: *NewFile(path, logger)}
}

// Read decodes the archive's only novx member.
func (z *ZipFile) Read() (*novel.Novel, error) {
	r, err := zip.OpenReader(z.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", z.Path, err)
	}
	defer r.Close()

	var member *zip.File
	for _, zf := range r.File {
		if !strings.EqualFold(filepath.Ext(zf.Name), Extension) {
			continue
		}
		if member != nil {
			return nil, fmt.Errorf("%s: %w", z.Path, ErrZipMember)
		}
		member = zf
	}
	if member == nil {
		return nil, fmt.Errorf("%s: %w", z.Path, ErrZipMember)
	}

	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s in %s: %w", member.Name, z.Path, err)
	}
	defer rc.Close()
	n, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", z.Path, err)
	}
	resolveLinks(n, filepath.Dir(z.Path), z.logger)
	return n, nil
}

// Write stores the project as <name>.novx inside the archive.
func (z *ZipFile) Write(n *novel.Novel) error {
	data, err := render(n)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(z.Path), filepath.Ext(z.Path)) + Extension

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing %s: %w", z.Path, err)
	}
	if err := z.replace(z.Path, buf.Bytes()); err != nil {
		return err
	}
	n.SetModified(false)
	return nil
}
