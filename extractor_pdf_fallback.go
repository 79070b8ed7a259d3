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

//go:build nopdfium

package deckdown

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files with the pure-Go pdf library. It is the
// reduced-capability path: positioned text with font name and size feeds
// the same classifier, but there is no image extraction, no vector-drawing
// signal, and no page rasterization, so pages never carry renders.
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
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := pdfReader.NumPage()

	type rawPage struct {
		lines  []Line
		height float64
	}
	raw := make([]rawPage, 0, numPages)
	var allSpans []Span
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			raw = append(raw, rawPage{height: 792})
			continue
		}
		height := pageHeightOf(page)
		lines := pageLinesOf(page, height)
		for _, line := range lines {
			allSpans = append(allSpans, line.Spans...)
		}
		raw = append(raw, rawPage{lines: lines, height: height})
	}

	cfg := e.deckdown.cfg
	profile := AnalyzeFonts(allSpans, cfg)

	deck := &Deck{Name: deckName(info), Profile: &profile}
	for i, rp := range raw {
		elements, title := classifyPage(cfg, profile, i, rp.height, rp.lines)
		elements = postProcess(elements)
		deck.Pages = append(deck.Pages, Page{Elements: elements, Title: title})
	}
	return deck, nil
}

func pageHeightOf(page pdf.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.Kind() == pdf.Array && box.Len() == 4 {
		h := box.Index(3).Float64() - box.Index(1).Float64()
		if h > 0 {
			return h
		}
	}
	return 792
}

// pageLinesOf groups the page's positioned characters into lines by Y
// proximity, preserving font name and size per run.
func pageLinesOf(page pdf.Page, height float64) []Line {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	type lineGroup struct {
		y     float64
		texts []pdf.Text
	}

	yTolerance := 3.0
	if content.Text[0].FontSize > 0 {
		yTolerance = content.Text[0].FontSize * 0.3
	}

	var groups []lineGroup
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		merged := false
		for i := range groups {
			if math.Abs(groups[i].y-t.Y) < yTolerance {
				groups[i].texts = append(groups[i].texts, t)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, lineGroup{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	// PDF Y grows upward; descending Y order reads top to bottom.
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].y > groups[j].y
	})

	lines := make([]Line, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.texts, func(a, b int) bool {
			return g.texts[a].X < g.texts[b].X
		})

		// Consecutive characters sharing font and size coalesce into
		// one span.
		var spans []Span
		for _, t := range g.texts {
			if n := len(spans); n > 0 && spans[n-1].Font == t.Font && spans[n-1].Size == t.FontSize {
				spans[n-1].Text += t.S
				continue
			}
			spans = append(spans, Span{Text: t.S, Font: t.Font, Size: t.FontSize})
		}
		lines = append(lines, Line{Spans: spans, Y: height - g.y})
	}
	return lines
}
