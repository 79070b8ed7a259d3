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

//go:build !nopdfium

package deckdown

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/responses"
	"github.com/klippa-app/go-pdfium/webassembly"
)

var (
	pdfiumPool     pdfium.Pool
	pdfiumPoolOnce sync.Once
	pdfiumPoolErr  error
)

func initPdfiumPool() {
	pdfiumPool, pdfiumPoolErr = webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
}

// PDFExtractor handles PDF files using the PDFium library via WebAssembly.
// It is the full-capability document access path: structured text with font
// metadata, embedded image payloads, vector-drawing counts, and whole-page
// rasterization.
type PDFExtractor struct {
	deckdown *Deckdown
}

func newPDFExtractor(d *Deckdown) *PDFExtractor {
	return &PDFExtractor{deckdown: d}
}

func (e *PDFExtractor) Accepts(info StreamInfo) bool {
	if info.Extension == ".pdf" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), "application/pdf")
}

func (e *PDFExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*Deck, error) {
	pdfiumPoolOnce.Do(initPdfiumPool)
	if pdfiumPoolErr != nil {
		return nil, fmt.Errorf("init pdfium: %w", pdfiumPoolErr)
	}

	instance, err := pdfiumPool.GetInstance(30 * time.Second)
	if err != nil {
		return nil, fmt.Errorf("get pdfium instance: %w", err)
	}
	defer instance.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}

	doc, err := instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCountResp, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, fmt.Errorf("get page count: %w", err)
	}
	pageCount := pageCountResp.PageCount

	// First pass: every page's positioned lines, feeding the font profile.
	type rawPage struct {
		lines  []Line
		height float64
	}
	raw := make([]rawPage, pageCount)
	var allSpans []Span
	for i := 0; i < pageCount; i++ {
		height := e.pageHeight(instance, doc, i)
		lines := e.pageLines(instance, doc, i, height)
		for _, line := range lines {
			allSpans = append(allSpans, line.Spans...)
		}
		raw[i] = rawPage{lines: lines, height: height}
	}

	cfg := e.deckdown.cfg
	profile := AnalyzeFonts(allSpans, cfg)

	deck := &Deck{Name: deckName(info), Profile: &profile}
	for i := 0; i < pageCount; i++ {
		elements, title := classifyPage(cfg, profile, i, raw[i].height, raw[i].lines)
		elements = append(elements, e.pageImages(instance, doc, i)...)
		elements = postProcess(elements)

		hasMath := linesHaveMath(raw[i].lines, cfg)
		if e.deckdown.renderMode.ShouldRender(e.countDrawings(instance, doc, i), hasMath, cfg) {
			if data, err := e.renderPage(instance, doc, i); err == nil {
				elements = append(elements, &Render{
					PNG: data,
					Alt: fmt.Sprintf("Slide %d", i+1),
				})
			}
		}

		deck.Pages = append(deck.Pages, Page{Elements: elements, Title: title})
	}

	return deck, nil
}

func pageRef(doc *responses.OpenDocument, index int) requests.Page {
	return requests.Page{
		ByIndex: &requests.PageByIndex{
			Document: doc.Document,
			Index:    index,
		},
	}
}

func (e *PDFExtractor) pageHeight(instance pdfium.Pdfium, doc *responses.OpenDocument, index int) float64 {
	size, err := instance.GetPageSize(&requests.GetPageSize{Page: pageRef(doc, index)})
	if err != nil || size.Height <= 0 {
		// US Letter height keeps the page-number zone meaningful.
		return 792
	}
	return size.Height
}

// pdfRect is one structured text rect with font metadata.
type pdfRect struct {
	text     string
	left     float64
	top      float64
	fontSize float64
	fontName string
}

// pageLines extracts the page's text rects and groups them into lines by
// vertical position, top to bottom, left to right within a line. Line Y is
// converted to top-down distance so the classifier's bottom-zone test works
// directly against the page height.
func (e *PDFExtractor) pageLines(instance pdfium.Pdfium, doc *responses.OpenDocument, index int, height float64) []Line {
	structured, err := instance.GetPageTextStructured(&requests.GetPageTextStructured{
		Page:                   pageRef(doc, index),
		Mode:                   requests.GetPageTextStructuredModeRects,
		CollectFontInformation: true,
	})
	if err != nil || len(structured.Rects) == 0 {
		return nil
	}

	var rects []pdfRect
	for _, r := range structured.Rects {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		pr := pdfRect{
			text: r.Text,
			left: r.PointPosition.Left,
			top:  r.PointPosition.Top,
		}
		if r.FontInformation != nil {
			pr.fontSize = r.FontInformation.Size
			pr.fontName = r.FontInformation.Name
		}
		rects = append(rects, pr)
	}
	if len(rects) == 0 {
		return nil
	}

	// PDF coordinates grow upward, so higher top = higher on the page.
	sort.Slice(rects, func(i, j int) bool {
		if math.Abs(rects[i].top-rects[j].top) < 2 {
			return rects[i].left < rects[j].left
		}
		return rects[i].top > rects[j].top
	})

	type lineGroup struct {
		top   float64
		rects []pdfRect
	}
	var groups []lineGroup
	for _, r := range rects {
		merged := false
		for i := range groups {
			if math.Abs(groups[i].top-r.top) < 3 {
				groups[i].rects = append(groups[i].rects, r)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, lineGroup{top: r.top, rects: []pdfRect{r}})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].top > groups[j].top
	})

	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g.rects, func(a, b int) bool {
			return g.rects[a].left < g.rects[b].left
		})
		spans := make([]Span, 0, len(g.rects))
		for _, r := range g.rects {
			spans = append(spans, Span{Text: r.text, Font: r.fontName, Size: r.fontSize})
		}
		lines = append(lines, Line{Spans: spans, Y: height - g.top})
	}
	return lines
}

// pageImages extracts the page's embedded raster images in enumeration
// order. A failure on one image skips it; the page continues.
func (e *PDFExtractor) pageImages(instance pdfium.Pdfium, doc *responses.OpenDocument, index int) []Element {
	countResp, err := instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: pageRef(doc, index),
	})
	if err != nil {
		return nil
	}

	var images []Element
	figure := 0
	for i := 0; i < countResp.Count; i++ {
		objResp, err := instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page:  pageRef(doc, index),
			Index: i,
		})
		if err != nil {
			continue
		}
		typeResp, err := instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
			PageObject: objResp.PageObject,
		})
		if err != nil || typeResp.Type != enums.FPDF_PAGEOBJ_IMAGE {
			continue
		}
		figure++

		rawResp, err := instance.FPDFImageObj_GetImageDataRaw(&requests.FPDFImageObj_GetImageDataRaw{
			ImageObject: objResp.PageObject,
		})
		if err != nil || len(rawResp.Data) == 0 {
			continue
		}
		// The raw stream is only usable when it is a self-contained
		// raster format (JPEG, JP2, PNG); filter-encoded payloads are
		// skipped rather than failing the page.
		mtype := mimetype.Detect(rawResp.Data)
		if !strings.HasPrefix(mtype.String(), "image/") {
			continue
		}
		images = append(images, &Image{
			Data: rawResp.Data,
			Ext:  strings.TrimPrefix(mtype.Extension(), "."),
			Alt:  fmt.Sprintf("Slide %d Figure %d", index+1, figure),
		})
	}
	return images
}

// countDrawings counts vector path objects, the diagram signal of the auto
// render policy.
func (e *PDFExtractor) countDrawings(instance pdfium.Pdfium, doc *responses.OpenDocument, index int) int {
	countResp, err := instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: pageRef(doc, index),
	})
	if err != nil {
		return 0
	}
	drawings := 0
	for i := 0; i < countResp.Count; i++ {
		objResp, err := instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page:  pageRef(doc, index),
			Index: i,
		})
		if err != nil {
			continue
		}
		typeResp, err := instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
			PageObject: objResp.PageObject,
		})
		if err == nil && typeResp.Type == enums.FPDF_PAGEOBJ_PATH {
			drawings++
		}
	}
	return drawings
}

// renderPage rasterizes the whole page to PNG bytes.
func (e *PDFExtractor) renderPage(instance pdfium.Pdfium, doc *responses.OpenDocument, index int) ([]byte, error) {
	rendered, err := instance.RenderPageInDPI(&requests.RenderPageInDPI{
		Page: pageRef(doc, index),
		DPI:  e.deckdown.dpi,
	})
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index+1, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rendered.Result.Image); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", index+1, err)
	}
	return buf.Bytes(), nil
}
