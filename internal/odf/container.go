// Package odf writes and reads the OpenDocument text and spreadsheet files
// projects are exported to for editing in an office suite.
package odf

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	mimeText        = "application/vnd.oasis.opendocument.text"
	mimeSpreadsheet = "application/vnd.oasis.opendocument.spreadsheet"
)

// ErrMissingPart indicates an archive without the requested member.
var ErrMissingPart = errors.New("document part not found")

const manifestTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:media-type="${Mime}" manifest:full-path="/"/>
 <manifest:file-entry manifest:media-type="text/xml" manifest:full-path="content.xml"/>
 <manifest:file-entry manifest:media-type="text/xml" manifest:full-path="styles.xml"/>
 <manifest:file-entry manifest:media-type="text/xml" manifest:full-path="meta.xml"/>
</manifest:manifest>
`

const metaTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0" xmlns:dc="http://purl.org/dc/elements/1.1/" office:version="1.2">
 <office:meta>
  <meta:generator>novx</meta:generator>
  <dc:title>${Title}</dc:title>
  <dc:description>${Description}</dc:description>
  <dc:creator>${AuthorName}</dc:creator>
 </office:meta>
</office:document-meta>
`

const stylesTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" office:version="1.2">
 <office:styles>
  <style:style style:name="Standard" style:family="paragraph"/>
  <style:style style:name="Text_20_body" style:display-name="Text body" style:family="paragraph" style:parent-style-name="Standard">
   <style:paragraph-properties fo:margin-bottom="0cm" fo:text-indent="0.5cm"/>
  </style:style>
  <style:style style:name="Title" style:family="paragraph" style:parent-style-name="Standard">
   <style:text-properties fo:font-size="200%" fo:font-weight="bold"/>
  </style:style>
  <style:style style:name="Subtitle" style:family="paragraph" style:parent-style-name="Standard">
   <style:text-properties fo:font-size="140%"/>
  </style:style>
  <style:style style:name="Heading_20_1" style:display-name="Heading 1" style:family="paragraph" style:default-outline-level="1">
   <style:text-properties fo:font-size="160%" fo:font-weight="bold"/>
  </style:style>
  <style:style style:name="Heading_20_2" style:display-name="Heading 2" style:family="paragraph" style:default-outline-level="2">
   <style:text-properties fo:font-size="130%" fo:font-weight="bold"/>
  </style:style>
  <style:style style:name="Section_20_title" style:display-name="Section title" style:family="paragraph" style:parent-style-name="Standard">
   <style:text-properties fo:font-style="italic"/>
  </style:style>
  <style:style style:name="Section_20_mark" style:display-name="Section mark" style:family="paragraph" style:parent-style-name="Standard">
   <style:paragraph-properties fo:text-align="center"/>
  </style:style>
  <style:style style:name="Emphasis" style:family="text">
   <style:text-properties fo:font-style="italic"/>
  </style:style>
  <style:style style:name="Strong_20_Emphasis" style:display-name="Strong Emphasis" style:family="text">
   <style:text-properties fo:font-weight="bold"/>
  </style:style>
 </office:styles>
</office:document-styles>
`

// Document is the set of parts an ODF package is built from.
type Document struct {
	Mimetype string
	Content  string
	Styles   string
	Meta     string
}

// Bytes assembles the package in memory. The mimetype member comes first
// and is stored uncompressed.
func (d Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, d.Mimetype); err != nil {
		return nil, err
	}

	parts := []struct{ name, data string }{
		{"META-INF/manifest.xml", Render(manifestTemplate, map[string]string{"Mime": d.Mimetype})},
		{"content.xml", d.Content},
		{"styles.xml", d.Styles},
		{"meta.xml", d.Meta},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile stores the package at path with a single write.
func (d Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return fmt.Errorf("building %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadPart returns a member of the ODF package at path.
func ReadPart(path, name string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in %s: %w", name, path, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s in %s: %w", name, path, ErrMissingPart)
}

// styles returns the user styles file when one is configured, otherwise
// the built-in styles.
func styles(path string) (string, error) {
	if path == "" {
		return stylesTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading styles %s: %w", path, err)
	}
	return string(data), nil
}

// LockPath returns the path of the lock file an office suite creates while
// the document at path is open.
func LockPath(path string) string {
	return filepath.Join(filepath.Dir(path), ".~lock."+filepath.Base(path)+"#")
}

// IsOpen reports whether the document at path is open in an office suite.
func IsOpen(path string) bool {
	_, err := os.Stat(LockPath(path))
	return err == nil
}

// IsOutline reports whether the bare text document at path is an outline,
// recognized by the heading style used for sections.
func IsOutline(path string) (bool, error) {
	content, err := ReadPart(path, "content.xml")
	if err != nil {
		return false, err
	}
	return strings.Contains(string(content), "Heading_20_3"), nil
}
