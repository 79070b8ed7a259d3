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
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nicholasgasior/deckdown-go/internal/ooxml"
)

// pptxSpanSize is the synthetic size assigned to presentation runs. PPTX
// already carries semantic structure (placeholders, paragraph levels,
// style flags), so slides bypass the font-profile classifier and only need
// a nominal size on their spans.
const pptxSpanSize = 24

// PPTXExtractor handles PPTX presentations.
type PPTXExtractor struct {
	deckdown *Deckdown
}

func newPPTXExtractor(d *Deckdown) *PPTXExtractor {
	return &PPTXExtractor{deckdown: d}
}

func (e *PPTXExtractor) Accepts(info StreamInfo) bool {
	if info.Extension == ".pptx" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.presentationml")
}

func (e *PPTXExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*Deck, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read PPTX: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PPTX ZIP: %w", err)
	}

	slidePaths, err := slideOrder(zr)
	if err != nil {
		return nil, fmt.Errorf("get slide order: %w", err)
	}

	deck := &Deck{Name: deckName(info)}
	for sn, slidePath := range slidePaths {
		page := e.extractSlide(zr, slidePath, sn)
		page.Elements = postProcess(page.Elements)
		deck.Pages = append(deck.Pages, page)
	}
	return deck, nil
}

// slideOrder returns slide part paths in presentation order, falling back
// to a filename sort when presentation.xml gives no usable ordering.
func slideOrder(zr *zip.Reader) ([]string, error) {
	presData, err := ooxml.ReadFile(zr, "ppt/presentation.xml")
	if err != nil {
		return nil, err
	}

	rels, _ := ooxml.Relationships(zr, "ppt/_rels/presentation.xml.rels")

	decoder := xml.NewDecoder(bytes.NewReader(presData))
	var slideRIDs []string
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" && strings.Contains(attr.Name.Space, "relationships") {
				slideRIDs = append(slideRIDs, attr.Value)
			}
		}
	}

	var slidePaths []string
	for _, rid := range slideRIDs {
		if rel, ok := rels[rid]; ok {
			slidePaths = append(slidePaths, ooxml.ResolveTarget("ppt/presentation.xml", rel.Target))
		}
	}

	if len(slidePaths) == 0 {
		for _, f := range zr.File {
			if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
				slidePaths = append(slidePaths, f.Name)
			}
		}
		sort.Strings(slidePaths)
	}
	return slidePaths, nil
}

// pptxShape is one positioned shape: a text frame, a table or a picture.
type pptxShape struct {
	top, left  int64
	isTitle    bool
	paragraphs []pptxParagraph
	table      [][]string
	picture    *Image
}

type pptxParagraph struct {
	spans []Span
	level int
	text  string
}

// extractSlide turns one slide part into a Page. Per-shape failures skip
// the shape; the slide continues without it.
func (e *PPTXExtractor) extractSlide(zr *zip.Reader, slidePath string, pageIndex int) Page {
	var page Page

	slideData, err := ooxml.ReadFile(zr, slidePath)
	if err != nil {
		return page
	}
	rels, _ := ooxml.Relationships(zr, ooxml.RelsPathFor(slidePath))

	var root xmlNode
	if err := xml.Unmarshal(slideData, &root); err != nil {
		return page
	}

	var shapes []pptxShape
	e.walkShapes(&root, zr, rels, slidePath, pageIndex, &shapes)

	sort.SliceStable(shapes, func(i, j int) bool {
		if shapes[i].top != shapes[j].top {
			return shapes[i].top < shapes[j].top
		}
		return shapes[i].left < shapes[j].left
	})

	for _, shape := range shapes {
		switch {
		case shape.picture != nil:
			page.Elements = append(page.Elements, shape.picture)

		case len(shape.table) > 0:
			page.Elements = append(page.Elements, &Table{Rows: shape.table})

		default:
			isTitle := shape.isTitle
			for _, para := range shape.paragraphs {
				switch {
				case isTitle && page.Title == "":
					page.Title = para.text
					page.Elements = append(page.Elements, &Title{Spans: para.spans, PageIndex: pageIndex})
					isTitle = false
				case para.level > 0:
					level := para.level
					if level > 1 {
						level = 1
					}
					page.Elements = append(page.Elements, &Bullet{Spans: para.spans, Level: level})
				default:
					page.Elements = append(page.Elements, &Body{Spans: para.spans})
				}
			}
		}
	}

	for _, note := range e.slideNotes(zr, slidePath, rels) {
		page.Elements = append(page.Elements, &Label{Spans: []Span{{Text: note, Font: "Normal", Size: 12}}})
	}

	return page
}

// walkShapes walks the slide XML, descending through group shapes.
func (e *PPTXExtractor) walkShapes(node *xmlNode, zr *zip.Reader, rels map[string]ooxml.Relationship, slidePath string, pageIndex int, shapes *[]pptxShape) {
	switch node.XMLName.Local {
	case "sp":
		if shape := extractTextShape(node); shape != nil {
			*shapes = append(*shapes, *shape)
		}
	case "pic":
		if shape := e.extractPicture(node, zr, rels, slidePath, pageIndex); shape != nil {
			*shapes = append(*shapes, *shape)
		}
	case "graphicFrame":
		if shape := extractTableShape(node); shape != nil {
			*shapes = append(*shapes, *shape)
		}
	default:
		for i := range node.Children {
			e.walkShapes(&node.Children[i], zr, rels, slidePath, pageIndex, shapes)
		}
	}
}

// extractTextShape extracts a text frame, flagging title placeholders
// (type title/ctrTitle, or placeholder index 0/1).
func extractTextShape(node *xmlNode) *pptxShape {
	shape := &pptxShape{}

	if nvSpPr := node.findChild("nvSpPr"); nvSpPr != nil {
		if nvPr := nvSpPr.findChild("nvPr"); nvPr != nil {
			if ph := nvPr.findChild("ph"); ph != nil {
				switch ph.getAttr("type") {
				case "title", "ctrTitle":
					shape.isTitle = true
				}
				switch ph.getAttr("idx") {
				case "0", "1":
					shape.isTitle = true
				}
			}
		}
	}

	extractPosition(node, shape)

	txBody := node.findChild("txBody")
	if txBody == nil {
		return nil
	}
	for _, p := range txBody.findAll("p") {
		para := extractParagraph(p)
		if para.text != "" {
			shape.paragraphs = append(shape.paragraphs, para)
		}
	}
	if len(shape.paragraphs) == 0 {
		return nil
	}
	return shape
}

// extractParagraph builds synthetic spans from a paragraph's runs. Bold
// and italic come from explicit run-property flags rather than font names,
// so the span font id encodes them directly.
func extractParagraph(p *xmlNode) pptxParagraph {
	var para pptxParagraph

	if pPr := p.findChild("pPr"); pPr != nil {
		if lvl := pPr.getAttr("lvl"); lvl != "" {
			if v, err := strconv.Atoi(lvl); err == nil {
				para.level = v
			}
		}
	}

	for _, r := range p.findAll("r") {
		t := r.findChild("t")
		if t == nil || t.allText() == "" {
			continue
		}
		font := "Normal"
		if rPr := r.findChild("rPr"); rPr != nil {
			bold := rPr.getAttr("b") == "1"
			italic := rPr.getAttr("i") == "1"
			switch {
			case bold && italic:
				font = "BoldItalic"
			case bold:
				font = "Bold"
			case italic:
				font = "Italic"
			}
		}
		para.spans = append(para.spans, Span{Text: t.allText(), Font: font, Size: pptxSpanSize})
	}

	if len(para.spans) == 0 {
		// Field or fallback text without runs.
		var parts []string
		for _, t := range p.findAllDeep("t") {
			if txt := t.allText(); txt != "" {
				parts = append(parts, txt)
			}
		}
		if text := strings.Join(parts, ""); strings.TrimSpace(text) != "" {
			para.spans = []Span{{Text: text, Font: "Normal", Size: pptxSpanSize}}
		}
	}

	para.text = plainText(para.spans)
	return para
}

// extractPicture resolves the picture's blip relationship to its media
// part and captures the blob. Any failure drops the picture silently.
func (e *PPTXExtractor) extractPicture(node *xmlNode, zr *zip.Reader, rels map[string]ooxml.Relationship, slidePath string, pageIndex int) *pptxShape {
	shape := &pptxShape{}
	extractPosition(node, shape)

	blip := node.findDeep("blip")
	if blip == nil {
		return nil
	}
	rid := blip.getAttr("embed")
	if rid == "" {
		return nil
	}
	rel, ok := rels[rid]
	if !ok {
		return nil
	}
	target := ooxml.ResolveTarget(slidePath, rel.Target)
	blob, err := ooxml.ReadFile(zr, target)
	if err != nil || len(blob) == 0 {
		return nil
	}

	ext := strings.TrimPrefix(path.Ext(target), ".")
	if ext == "" {
		ext = strings.TrimPrefix(mimetype.Detect(blob).Extension(), ".")
	}

	alt := ""
	if nvPicPr := node.findChild("nvPicPr"); nvPicPr != nil {
		if cNvPr := nvPicPr.findChild("cNvPr"); cNvPr != nil {
			alt = cNvPr.getAttr("descr")
		}
	}
	if alt == "" {
		alt = fmt.Sprintf("Slide %d Image", pageIndex+1)
	}

	shape.picture = &Image{Data: blob, Ext: ext, Alt: alt}
	return shape
}

// extractTableShape extracts a graphic frame holding a table.
func extractTableShape(node *xmlNode) *pptxShape {
	shape := &pptxShape{}
	extractPosition(node, shape)

	tbl := node.findDeep("tbl")
	if tbl == nil {
		return nil
	}
	for _, tr := range tbl.findAll("tr") {
		var row []string
		for _, tc := range tr.findAll("tc") {
			var cell []string
			for _, t := range tc.findAllDeep("t") {
				if txt := t.allText(); txt != "" {
					cell = append(cell, txt)
				}
			}
			row = append(row, strings.TrimSpace(strings.Join(cell, "")))
		}
		shape.table = append(shape.table, row)
	}
	if len(shape.table) == 0 {
		return nil
	}
	return shape
}

// extractPosition reads the shape offset from spPr/xfrm/off, or from a
// direct xfrm child for shapes like graphicFrame that carry their
// transform outside spPr. Shapes without an offset keep (0, 0) and sort
// first.
func extractPosition(node *xmlNode, shape *pptxShape) {
	var xfrm *xmlNode
	if spPr := node.findChild("spPr"); spPr != nil {
		xfrm = spPr.findChild("xfrm")
	}
	if xfrm == nil {
		xfrm = node.findChild("xfrm")
	}
	if xfrm == nil {
		return
	}
	off := xfrm.findChild("off")
	if off == nil {
		return
	}
	if x := off.getAttr("x"); x != "" {
		if v, err := strconv.ParseInt(x, 10, 64); err == nil {
			shape.left = v
		}
	}
	if y := off.getAttr("y"); y != "" {
		if v, err := strconv.ParseInt(y, 10, 64); err == nil {
			shape.top = v
		}
	}
}

// slideNotes returns the text paragraphs of the slide's notes part, if any.
func (e *PPTXExtractor) slideNotes(zr *zip.Reader, slidePath string, rels map[string]ooxml.Relationship) []string {
	var notesPath string
	for _, rel := range rels {
		if strings.Contains(rel.Type, "notesSlide") {
			notesPath = ooxml.ResolveTarget(slidePath, rel.Target)
			break
		}
	}
	if notesPath == "" {
		return nil
	}
	data, err := ooxml.ReadFile(zr, notesPath)
	if err != nil {
		return nil
	}
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil
	}

	var notes []string
	for _, txBody := range root.findAllDeep("txBody") {
		for _, p := range txBody.findAll("p") {
			var parts []string
			for _, t := range p.findAllDeep("t") {
				if txt := t.allText(); txt != "" {
					parts = append(parts, txt)
				}
			}
			if text := strings.TrimSpace(strings.Join(parts, "")); text != "" {
				notes = append(notes, text)
			}
		}
	}
	return notes
}

// xmlNode is a generic XML tree node.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Content  string     `xml:",chardata"`
}

func (n *xmlNode) getAttr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) findChild(local string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *xmlNode) findAll(local string) []*xmlNode {
	var result []*xmlNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			result = append(result, &n.Children[i])
		}
	}
	return result
}

func (n *xmlNode) findDeep(local string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
		if found := n.Children[i].findDeep(local); found != nil {
			return found
		}
	}
	return nil
}

func (n *xmlNode) findAllDeep(local string) []*xmlNode {
	var result []*xmlNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			result = append(result, &n.Children[i])
		}
		result = append(result, n.Children[i].findAllDeep(local)...)
	}
	return result
}

func (n *xmlNode) allText() string {
	if n.Content != "" {
		return n.Content
	}
	var parts []string
	for i := range n.Children {
		if t := n.Children[i].allText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "")
}
