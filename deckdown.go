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

// Package deckdown converts paginated source documents (PDF slide decks,
// PPTX presentations) into a single self-contained HTML or Markdown
// document with every image embedded inline as base64. Structure that the
// source encodes only typographically (font size, font family, glyph
// position) is recovered with adaptive per-document thresholds: titles,
// bullet hierarchy, equations, code blocks, labels and tables.
package deckdown

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// PrioritySpecific is for format-specific extractors (PDF, PPTX).
	PrioritySpecific = 0.0
	// PriorityGeneric is for fallback extractors registered by callers.
	PriorityGeneric = 10.0
)

type registeredExtractor struct {
	extractor DeckExtractor
	priority  float64
	name      string
}

// Deckdown is the main deck-to-document conversion engine. Conversion is
// strictly sequential: one document is fully extracted and rendered before
// the next begins, and pages are processed in order.
type Deckdown struct {
	extractors []registeredExtractor
	cfg        Config
	renderMode RenderMode
	dpi        int
}

// New creates a Deckdown instance with the given options.
func New(opts ...Option) *Deckdown {
	d := &Deckdown{
		cfg:        DefaultConfig(),
		renderMode: RenderAuto,
		dpi:        120,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.enableBuiltins()
	return d
}

// RegisterExtractor adds a custom extractor with the given priority.
// Lower priority values are tried first.
func (d *Deckdown) RegisterExtractor(name string, e DeckExtractor, priority float64) {
	d.extractors = append(d.extractors, registeredExtractor{
		extractor: e,
		priority:  priority,
		name:      name,
	})
	sort.SliceStable(d.extractors, func(i, j int) bool {
		return d.extractors[i].priority < d.extractors[j].priority
	})
}

func (d *Deckdown) enableBuiltins() {
	d.RegisterExtractor("pdf", newPDFExtractor(d), PrioritySpecific)
	d.RegisterExtractor("pptx", newPPTXExtractor(d), PrioritySpecific)
}

// ExtractFile extracts a local file into a Deck.
func (d *Deckdown) ExtractFile(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info := StreamInfo{
		Extension: strings.ToLower(filepath.Ext(path)),
		Filename:  filepath.Base(path),
		LocalPath: path,
	}
	info.MIMEType = detectMIMEType(f, info.Extension)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	return d.ExtractReader(f, info)
}

// ExtractReader extracts a stream into a Deck using the provided StreamInfo.
func (d *Deckdown) ExtractReader(r io.ReadSeeker, info StreamInfo) (*Deck, error) {
	var failed []FailedExtractAttempt

	for _, re := range d.extractors {
		if !re.extractor.Accepts(info) {
			continue
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
		deck, err := re.extractor.Extract(r, info)
		if err != nil {
			failed = append(failed, FailedExtractAttempt{Extractor: re.name, Err: err})
			continue
		}
		return deck, nil
	}

	if len(failed) > 0 {
		return nil, &ExtractionError{Attempts: failed}
	}
	return nil, &UnsupportedFormatError{
		Extension: info.Extension,
		MIMEType:  info.MIMEType,
	}
}

// ConvertFile extracts one file and renders it in the given format.
func (d *Deckdown) ConvertFile(path string, format Format) (*Result, error) {
	deck, err := d.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return d.RenderDecks([]*Deck{deck}, format), nil
}

// ConvertFiles extracts several files in order and merges them into one
// combined output document.
func (d *Deckdown) ConvertFiles(paths []string, format Format) (*Result, error) {
	decks := make([]*Deck, 0, len(paths))
	for _, path := range paths {
		deck, err := d.ExtractFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		decks = append(decks, deck)
	}
	return d.RenderDecks(decks, format), nil
}

// RenderDecks renders one deck to a standalone document, or several decks
// to a combined document with a visual separator between them.
func (d *Deckdown) RenderDecks(decks []*Deck, format Format) *Result {
	result := &Result{}
	for _, deck := range decks {
		result.Pages += len(deck.Pages)
		result.Rendered += deck.Rendered()
	}

	if len(decks) == 1 {
		deck := decks[0]
		result.Title = deck.Name
		if format == FormatMarkdown {
			result.Content = renderDeckMarkdown(deck, d.cfg)
		} else {
			result.Content = renderDeckHTML(deck, d.cfg)
		}
		return result
	}

	names := make([]string, len(decks))
	for i, deck := range decks {
		names[i] = deck.Name
	}
	result.Title = "Combined: " + strings.Join(names, ", ")
	if format == FormatMarkdown {
		result.Content = combineMarkdown(decks, d.cfg)
	} else {
		result.Content = combineHTML(result.Title, decks, d.cfg)
	}
	return result
}

// detectMIMEType detects the MIME type from content and extension.
func detectMIMEType(r io.ReadSeeker, ext string) string {
	mtype, err := mimetype.DetectReader(r)
	if err == nil && mtype.String() != "application/octet-stream" {
		return mtype.String()
	}
	return mimeFromExtension(ext)
}

// mimeFromExtension returns a MIME type for the supported extensions.
func mimeFromExtension(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}
	return "application/octet-stream"
}
