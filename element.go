// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package deckdown

import (
	"fmt"
	"strings"
)

// Span is a run of text sharing one font identifier and size.
// Spans are immutable once produced by an extractor.
type Span struct {
	Text string
	Font string
	Size float64
}

// Bold reports whether the span's font identifier indicates bold weight.
func (s Span) Bold() bool { return strings.Contains(s.Font, "Bold") }

// Italic reports whether the span's font identifier indicates italic style.
func (s Span) Italic() bool { return strings.Contains(s.Font, "Italic") }

// ElementKind discriminates the Element variants.
type ElementKind int

const (
	KindTitle ElementKind = iota
	KindBullet
	KindEquation
	KindCode
	KindLabel
	KindBody
	KindImage
	KindRender
	KindTable
)

func (k ElementKind) String() string {
	switch k {
	case KindTitle:
		return "Title"
	case KindBullet:
		return "Bullet"
	case KindEquation:
		return "Equation"
	case KindCode:
		return "Code"
	case KindLabel:
		return "Label"
	case KindBody:
		return "Body"
	case KindImage:
		return "Image"
	case KindRender:
		return "Render"
	case KindTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Element is one classified structural unit of a page. The variant set is
// closed: renderers type-switch over the pointer types below.
type Element interface {
	Kind() ElementKind
}

// Title is the single heading line of a page.
type Title struct {
	Spans     []Span
	PageIndex int
}

// Bullet is one list item. Level 0 is top-level, 1 is nested; deeper
// nesting is clamped to 1 by the classifier.
type Bullet struct {
	Spans []Span
	Level int
}

// Equation is a line composed entirely of math-indicating spans.
type Equation struct {
	Spans []Span
}

// Code is a block of plain code lines. It is only ever produced by the
// post-processor, never by raw classification.
type Code struct {
	Lines []string
}

// Label is small-font text such as a caption or footnote.
type Label struct {
	Spans []Span
}

// Body is a plain paragraph.
type Body struct {
	Spans []Span
}

// Image is an embedded raster graphic extracted from a page.
type Image struct {
	Data []byte
	Ext  string
	Alt  string
}

// Render is a whole-page rasterization. When attached it is always the
// last element of its page.
type Render struct {
	PNG []byte
	Alt string
}

// Table holds cell text by row; the first row is the header.
type Table struct {
	Rows [][]string
}

func (*Title) Kind() ElementKind    { return KindTitle }
func (*Bullet) Kind() ElementKind   { return KindBullet }
func (*Equation) Kind() ElementKind { return KindEquation }
func (*Code) Kind() ElementKind     { return KindCode }
func (*Label) Kind() ElementKind    { return KindLabel }
func (*Body) Kind() ElementKind     { return KindBody }
func (*Image) Kind() ElementKind    { return KindImage }
func (*Render) Kind() ElementKind   { return KindRender }
func (*Table) Kind() ElementKind    { return KindTable }

// Page is the ordered element sequence of one source page plus the detected
// title, if any. Pages are never mutated after post-processing.
type Page struct {
	Elements []Element
	Title    string
}

// Deck is one extracted source document.
type Deck struct {
	Name    string
	Pages   []Page
	Profile *FontProfile // nil for formats that carry explicit structure
}

// TOCEntry is one table-of-contents line: page number and title (or the
// generated fallback).
type TOCEntry struct {
	Number int
	Title  string
}

// TOC returns one entry per page, in page order, substituting "Slide N"
// for pages without a detected title.
func (d *Deck) TOC() []TOCEntry {
	entries := make([]TOCEntry, len(d.Pages))
	for i, p := range d.Pages {
		title := p.Title
		if title == "" {
			title = fmt.Sprintf("Slide %d", i+1)
		}
		entries[i] = TOCEntry{Number: i + 1, Title: title}
	}
	return entries
}

// Rendered counts pages that carry a full-page render.
func (d *Deck) Rendered() int {
	n := 0
	for _, p := range d.Pages {
		for _, e := range p.Elements {
			if e.Kind() == KindRender {
				n++
				break
			}
		}
	}
	return n
}

// plainText concatenates span text and trims surrounding whitespace.
func plainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return strings.TrimSpace(b.String())
}
