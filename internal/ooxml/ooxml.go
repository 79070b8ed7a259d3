// Package ooxml holds the small amount of OPC plumbing the PPTX extractor
// needs: relationship files and part lookup inside the zip container.
package ooxml

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// Relationships parses a .rels part into a map keyed by relationship ID.
// A missing part yields an empty map, not an error: parts without
// relationships are legal.
func Relationships(zr *zip.Reader, relsPath string) (map[string]Relationship, error) {
	for _, f := range zr.File {
		if f.Name != relsPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		var rels relationships
		if err := xml.NewDecoder(rc).Decode(&rels); err != nil {
			return nil, fmt.Errorf("decode relationships: %w", err)
		}
		out := make(map[string]Relationship, len(rels.Relationships))
		for _, rel := range rels.Relationships {
			out[rel.ID] = rel
		}
		return out, nil
	}
	return make(map[string]Relationship), nil
}

// ReadFile reads one part from the container.
func ReadFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("part %q not found", name)
}

// RelsPathFor returns the .rels path for a part.
func RelsPathFor(partPath string) string {
	dir := path.Dir(partPath)
	base := path.Base(partPath)
	if dir == "." {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// ResolveTarget resolves a relationship target against the part that
// declared it.
func ResolveTarget(basePath, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(basePath), target)
}
