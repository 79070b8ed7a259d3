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
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is an ordered group of spans sharing one vertical position.
// Y is the distance from the top of the page.
type Line struct {
	Spans []Span
	Y     float64
}

// pageClassifier is the per-page state machine that turns positioned lines
// into typed elements. List state is local to one page: listDepth tracks
// the open nesting (0, 1 or 2) and openBullet is the bullet that body
// continuation lines append to.
type pageClassifier struct {
	cfg        Config
	profile    FontProfile
	pageIndex  int
	pageHeight float64

	elements     []Element
	listDepth    int
	openBullet   *Bullet
	titleEmitted bool
	title        string
}

// classifyPage runs the state machine over one page's lines in reading
// order and returns the raw element sequence plus the detected title.
func classifyPage(cfg Config, profile FontProfile, pageIndex int, pageHeight float64, lines []Line) ([]Element, string) {
	pc := &pageClassifier{
		cfg:        cfg,
		profile:    profile,
		pageIndex:  pageIndex,
		pageHeight: pageHeight,
	}
	for _, line := range lines {
		pc.processLine(line)
	}
	pc.closeLists()
	return pc.elements, pc.title
}

func (pc *pageClassifier) closeBullet() {
	pc.openBullet = nil
}

func (pc *pageClassifier) closeLists() {
	pc.closeBullet()
	pc.listDepth = 0
}

func (pc *pageClassifier) processLine(line Line) {
	spans := nonBlankSpans(line.Spans)
	if len(spans) == 0 {
		return
	}
	text := plainText(spans)
	if text == "" {
		return
	}

	maxSize := 0.0
	for _, s := range spans {
		if s.Size > maxSize {
			maxSize = s.Size
		}
	}
	allMath := true
	for _, s := range spans {
		if !pc.cfg.IsMathFont(s.Font) {
			allMath = false
			break
		}
	}

	// Page-number suppression: short numeric line near the page bottom.
	if maxSize < pc.cfg.PageNumberMaxSize &&
		line.Y > pc.pageHeight*pc.cfg.PageNumberZone &&
		isDigits(text) {
		return
	}

	// Title: at most one per page, within tolerance of the document
	// title size.
	if !pc.titleEmitted && maxSize >= pc.profile.TitleSize-pc.cfg.TitleTolerance {
		pc.closeLists()
		pc.title = text
		pc.elements = append(pc.elements, &Title{Spans: copySpans(spans), PageIndex: pc.pageIndex})
		pc.titleEmitted = true
		return
	}

	first, _ := firstRune(text)

	// Top-level bullet.
	if pc.cfg.isBulletGlyph(first) {
		pc.closeBullet()
		if pc.listDepth > 1 {
			pc.listDepth = 1
		}
		if pc.listDepth == 0 {
			pc.listDepth = 1
		}
		b := &Bullet{Spans: stripBulletGlyph(spans, pc.cfg), Level: 0}
		pc.openBullet = b
		pc.elements = append(pc.elements, b)
		return
	}

	// Sub-bullet (dash glyphs).
	if pc.cfg.isSubBulletGlyph(first) {
		pc.closeBullet()
		if pc.listDepth < 1 {
			pc.listDepth = 1
		}
		pc.listDepth = 2
		b := &Bullet{Spans: stripBulletGlyph(spans, pc.cfg), Level: 1}
		pc.openBullet = b
		pc.elements = append(pc.elements, b)
		return
	}

	// Equation: every span on the line is math-indicating.
	if allMath {
		pc.closeBullet()
		pc.elements = append(pc.elements, &Equation{Spans: copySpans(spans)})
		return
	}

	// Label: small relative to BOTH reference sizes, so a modestly sized
	// body line in a huge-titled document is not misclassified.
	if maxSize < pc.profile.BodySize-pc.cfg.LabelBodyGap &&
		maxSize < pc.profile.TitleSize-pc.cfg.LabelTitleGap {
		pc.closeLists()
		pc.elements = append(pc.elements, &Label{Spans: copySpans(spans)})
		return
	}

	// Body or continuation.
	switch {
	case pc.openBullet != nil:
		// Multi-line bullet: the continuation joins the open item.
		pc.openBullet.Spans = append(pc.openBullet.Spans, spans...)
	case pc.listDepth > 0:
		b := &Bullet{Spans: copySpans(spans), Level: pc.listDepth - 1}
		pc.openBullet = b
		pc.elements = append(pc.elements, b)
	default:
		pc.elements = append(pc.elements, &Body{Spans: copySpans(spans)})
	}
}

// stripBulletGlyph returns the spans with the leading bullet or dash glyph
// and the whitespace after it removed. If stripping would leave nothing,
// the original spans are returned unchanged.
func stripBulletGlyph(spans []Span, cfg Config) []Span {
	var out []Span
	stripped := false
	for _, s := range spans {
		if stripped {
			out = append(out, s)
			continue
		}
		t := strings.TrimLeftFunc(s.Text, unicode.IsSpace)
		if t == "" {
			continue
		}
		r, size := firstRune(t)
		if cfg.isStrippableGlyph(r) {
			t = strings.TrimLeftFunc(t[size:], unicode.IsSpace)
			if t != "" {
				s.Text = t
				out = append(out, s)
			}
			stripped = true
			continue
		}
		out = append(out, s)
		stripped = true
	}
	if len(out) == 0 {
		return spans
	}
	return out
}

func nonBlankSpans(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if strings.TrimSpace(s.Text) != "" {
			out = append(out, s)
		}
	}
	return out
}

func copySpans(spans []Span) []Span {
	return append([]Span(nil), spans...)
}

func firstRune(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
