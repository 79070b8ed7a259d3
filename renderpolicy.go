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

import "fmt"

// RenderMode governs whether pages get a whole-page image fallback.
type RenderMode string

const (
	// RenderAuto attaches a render only to pages whose content would
	// degrade as text: math-font glyphs often come out as mismatched
	// Unicode, and vector diagrams have no textual form at all.
	RenderAuto RenderMode = "auto"
	// RenderAll attaches a render to every page.
	RenderAll RenderMode = "all"
	// RenderNone never attaches renders.
	RenderNone RenderMode = "none"
)

// ParseRenderMode validates a mode string.
func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(s) {
	case RenderAuto, RenderAll, RenderNone:
		return RenderMode(s), nil
	}
	return "", fmt.Errorf("unknown render mode %q", s)
}

// ShouldRender decides whether a page with the given vector-drawing count
// and math presence gets a full-page render.
func (m RenderMode) ShouldRender(drawings int, hasMath bool, cfg Config) bool {
	switch m {
	case RenderAll:
		return true
	case RenderNone:
		return false
	default:
		return drawings > cfg.RenderDrawingThreshold || hasMath
	}
}

// linesHaveMath reports whether any non-blank span on the page uses a
// math-indicating font.
func linesHaveMath(lines []Line, cfg Config) bool {
	for _, line := range lines {
		for _, s := range nonBlankSpans(line.Spans) {
			if cfg.IsMathFont(s.Font) {
				return true
			}
		}
	}
	return false
}
