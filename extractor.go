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
	"io"
	"path/filepath"
	"strings"
)

// StreamInfo holds metadata about the input being extracted.
type StreamInfo struct {
	MIMEType  string
	Extension string
	Filename  string
	LocalPath string
}

// DeckExtractor turns one source document stream into a Deck.
type DeckExtractor interface {
	// Accepts returns true if this extractor can handle the given input.
	// It MUST NOT change the read position of the stream.
	Accepts(info StreamInfo) bool

	// Extract reads the whole document and produces its pages.
	Extract(reader io.ReadSeeker, info StreamInfo) (*Deck, error)
}

// Format selects the output markup.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// Result is the final assembled output of one conversion run.
type Result struct {
	Content  string
	Title    string
	Pages    int
	Rendered int
}

// deckName derives a display name from the stream metadata.
func deckName(info StreamInfo) string {
	name := info.Filename
	if name == "" && info.LocalPath != "" {
		name = filepath.Base(info.LocalPath)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		return "document"
	}
	return name
}
