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
	"math"
	"strings"
)

// FontProfile holds the adaptive per-document size thresholds. It is
// computed once per document and read-only across all its pages.
type FontProfile struct {
	TitleSize float64
	BodySize  float64
}

// AnalyzeFonts derives a profile from every span of one document.
//
// The histogram is weighted by character mass rather than occurrence count:
// a short heading in a huge font must not outweigh the visually dominant
// body text, so the size covering the most characters wins the body
// designation. The title size is simply the largest rounded size observed.
// Ties on body mass break toward the larger size so the result is a pure
// function of the input.
func AnalyzeFonts(spans []Span, cfg Config) FontProfile {
	mass := make(map[int]int)
	for _, s := range spans {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		mass[int(math.Round(s.Size))] += len([]rune(text))
	}

	if len(mass) == 0 {
		// No extractable text anywhere; an image-only document still
		// needs thresholds to classify against.
		return FontProfile{TitleSize: cfg.DefaultTitleSize, BodySize: cfg.DefaultBodySize}
	}

	var title, body, best int
	for size, m := range mass {
		if size > title {
			title = size
		}
		if m > best || (m == best && size > body) {
			best = m
			body = size
		}
	}
	return FontProfile{TitleSize: float64(title), BodySize: float64(body)}
}
