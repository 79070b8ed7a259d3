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
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds the recognized-set and threshold knobs of the classifier and
// the render policy. Source documents use glyphs and fonts outside any fixed
// standard, so the sets are data, not constants.
type Config struct {
	// MathFonts are font-identifier substrings that mark a span as math.
	MathFonts []string `yaml:"math_fonts"`

	// BulletGlyphs are the runes that open a top-level bullet line.
	BulletGlyphs string `yaml:"bullet_glyphs"`

	// SubBulletGlyphs are the runes that open a nested bullet line.
	SubBulletGlyphs string `yaml:"sub_bullet_glyphs"`

	// RenderDrawingThreshold is the vector-drawing count above which the
	// auto render policy attaches a full-page image.
	RenderDrawingThreshold int `yaml:"render_drawing_threshold"`

	// DefaultTitleSize and DefaultBodySize are the font-profile fallbacks
	// for documents with no extractable text.
	DefaultTitleSize float64 `yaml:"default_title_size"`
	DefaultBodySize  float64 `yaml:"default_body_size"`

	// TitleTolerance is how far below the document title size a line may
	// be and still classify as a page title.
	TitleTolerance float64 `yaml:"title_tolerance"`

	// LabelBodyGap and LabelTitleGap: a line is a label only when smaller
	// than body size by the first gap AND smaller than title size by the
	// second.
	LabelBodyGap  float64 `yaml:"label_body_gap"`
	LabelTitleGap float64 `yaml:"label_title_gap"`

	// PageNumberMaxSize and PageNumberZone control page-number
	// suppression: purely numeric lines below the size, positioned in the
	// bottom (1-zone) fraction of the page, are dropped.
	PageNumberMaxSize float64 `yaml:"page_number_max_size"`
	PageNumberZone    float64 `yaml:"page_number_zone"`
}

// DefaultConfig returns the built-in recognized sets and thresholds.
func DefaultConfig() Config {
	return Config{
		MathFonts:              []string{"CambriaMath", "Cambria Math", "MT-Extra", "Symbol"},
		BulletGlyphs:           "•‣●○",
		SubBulletGlyphs:        "–—‒",
		RenderDrawingThreshold: 4,
		DefaultTitleSize:       40,
		DefaultBodySize:        24,
		TitleTolerance:         2,
		LabelBodyGap:           6,
		LabelTitleGap:          10,
		PageNumberMaxSize:      15,
		PageNumberZone:         0.80,
	}
}

// LoadConfig reads a YAML config file. Fields absent from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// IsMathFont reports whether the font identifier matches a recognized math
// font substring.
func (c Config) IsMathFont(font string) bool {
	for _, m := range c.MathFonts {
		if strings.Contains(font, m) {
			return true
		}
	}
	return false
}

func (c Config) isBulletGlyph(r rune) bool {
	return strings.ContainsRune(c.BulletGlyphs, r)
}

func (c Config) isSubBulletGlyph(r rune) bool {
	return strings.ContainsRune(c.SubBulletGlyphs, r)
}

// isStrippableGlyph covers both glyph sets; used when removing the leading
// marker from a bullet line.
func (c Config) isStrippableGlyph(r rune) bool {
	return c.isBulletGlyph(r) || c.isSubBulletGlyph(r)
}
