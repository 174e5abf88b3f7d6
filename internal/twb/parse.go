// Package twb reads workbook definition files (.twb XML, or .twbx zip
// archives containing one) and pulls out the names that are useful as
// search metadata: dashboards, worksheets, visible text objects and
// calculated fields.
package twb

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Metadata is what a workbook definition contributes to the catalog.
type Metadata struct {
	Dashboards       []string `json:"dashboards"`
	Worksheets       []string `json:"worksheets"`
	TextObjects      []string `json:"text_objects"`
	CalculatedFields []string `json:"calculated_fields"`
}

// ParseFile parses a .twb or .twbx file by extension.
func ParseFile(path string) (Metadata, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".twb":
		f, err := os.Open(path)
		if err != nil {
			return Metadata{}, err
		}
		defer f.Close()
		return Parse(f)
	case ".twbx":
		return parseTwbx(path)
	default:
		return Metadata{}, fmt.Errorf("unsupported workbook file %s", path)
	}
}

// parseTwbx opens the archive and parses the first .twb entry.
func parseTwbx(path string) (Metadata, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open twbx %s: %w", path, err)
	}
	defer z.Close()

	for _, f := range z.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".twb") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Metadata{}, fmt.Errorf("open twb entry %s: %w", f.Name, err)
		}
		meta, err := Parse(rc)
		rc.Close()
		return meta, err
	}
	return Metadata{}, fmt.Errorf("no .twb file found inside %s", path)
}

// Parse streams the workbook XML and collects metadata. Element nesting is
// ignored on purpose: names are matched anywhere in the document, the way
// the files actually vary across product versions.
func Parse(r io.Reader) (Metadata, error) {
	meta := Metadata{
		Dashboards:       []string{},
		Worksheets:       []string{},
		TextObjects:      []string{},
		CalculatedFields: []string{},
	}
	dec := xml.NewDecoder(r)
	var inText int
	var textBuf strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Metadata{}, fmt.Errorf("parse workbook xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "dashboard":
				if name := attr(t, "name"); name != "" {
					meta.Dashboards = append(meta.Dashboards, name)
				}
			case "worksheet":
				if name := attr(t, "name"); name != "" {
					meta.Worksheets = append(meta.Worksheets, name)
				}
			case "column":
				if name := attr(t, "name"); name != "" && hasAttr(t, "calculation") {
					meta.CalculatedFields = append(meta.CalculatedFields, name)
				}
			case "text":
				inText++
				textBuf.Reset()
			}
		case xml.CharData:
			if inText > 0 {
				textBuf.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "text" && inText > 0 {
				inText--
				if s := strings.TrimSpace(textBuf.String()); s != "" {
					meta.TextObjects = append(meta.TextObjects, s)
				}
			}
		}
	}
	return meta, nil
}

// Tags flattens the structural names into lowercase tag candidates:
// dashboard and worksheet names, deduplicated in order.
func (m Metadata) Tags() []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, name := range append(append([]string{}, m.Dashboards...), m.Worksheets...) {
		tag := strings.ToLower(strings.TrimSpace(name))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

func attr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func hasAttr(e xml.StartElement, name string) bool {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}
