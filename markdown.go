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
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	tableplugin "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// markdownSpecials are the characters that must be backslash-escaped in
// plain text so literal glyphs survive rendering. The backslash itself is
// escaped first.
const markdownSpecials = "*_`[]()#>"

// escapeMarkdown escapes plain text for Markdown output.
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	for _, ch := range markdownSpecials {
		s := string(ch)
		text = strings.ReplaceAll(text, s, `\`+s)
	}
	return text
}

// renderSpansMarkdown renders a span run with inline Markdown formatting.
// Math spans pass through unescaped so their Unicode renders verbatim;
// escaping is never applied to the markers this renderer inserts.
func renderSpansMarkdown(spans []Span, cfg Config) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		switch {
		case cfg.IsMathFont(s.Font):
			b.WriteString(s.Text)
		case s.Bold() && s.Italic():
			b.WriteString("***" + escapeMarkdown(s.Text) + "***")
		case s.Bold():
			b.WriteString("**" + escapeMarkdown(s.Text) + "**")
		case s.Italic():
			b.WriteString("*" + escapeMarkdown(s.Text) + "*")
		default:
			b.WriteString(escapeMarkdown(s.Text))
		}
	}
	return b.String()
}

// renderElementsMarkdown renders one page's elements. Bullet nesting is
// expressed with two-space indents, so unlike the HTML renderer no
// open-list state is needed.
func renderElementsMarkdown(elements []Element, cfg Config) string {
	var lines []string

	for _, e := range elements {
		switch e := e.(type) {
		case *Title:
			lines = append(lines, "## "+renderSpansMarkdown(e.Spans, cfg), "")

		case *Bullet:
			indent := strings.Repeat("  ", e.Level)
			lines = append(lines, indent+"- "+renderSpansMarkdown(e.Spans, cfg))

		case *Equation:
			lines = append(lines, "", "> "+plainText(e.Spans), "")

		case *Code:
			lines = append(lines, "", "```")
			lines = append(lines, e.Lines...)
			lines = append(lines, "```", "")

		case *Label:
			lines = append(lines, "*"+renderSpansMarkdown(e.Spans, cfg)+"*")

		case *Body:
			lines = append(lines, "", renderSpansMarkdown(e.Spans, cfg), "")

		case *Image:
			lines = append(lines, "", fmt.Sprintf("![%s](data:image/%s;base64,%s)",
				e.Alt, e.Ext, base64.StdEncoding.EncodeToString(e.Data)), "")

		case *Render:
			lines = append(lines, "", fmt.Sprintf("![%s](data:image/png;base64,%s)",
				e.Alt, base64.StdEncoding.EncodeToString(e.PNG)), "")

		case *Table:
			lines = append(lines, "", renderTableMarkdown(e.Rows), "")
		}
	}

	return strings.Join(lines, "\n")
}

// renderTableMarkdown converts rows to a Markdown pipe table by rendering
// an HTML table and converting it through html-to-markdown. The hand-built
// pipe table is the error fallback.
func renderTableMarkdown(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<table>")
	for i, row := range rows {
		b.WriteString("<tr>")
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		for _, cell := range row {
			b.WriteString("<" + tag + ">" + html.EscapeString(cell) + "</" + tag + ">")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			tableplugin.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(b.String())
	if err != nil {
		return pipeTable(rows)
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return pipeTable(rows)
	}
	return md
}

// pipeTable builds a pipe table directly: header row, a --- separator row
// matching the header's column count, then data rows.
func pipeTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	header := rows[0]
	var lines []string
	lines = append(lines, "| "+strings.Join(header, " | ")+" |")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
	for _, row := range rows[1:] {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// renderDeckMarkdown renders one deck as a standalone Markdown document.
func renderDeckMarkdown(deck *Deck, cfg Config) string {
	lines := []string{"# " + deck.Name, ""}

	lines = append(lines, "## Table of Contents", "")
	for _, entry := range deck.TOC() {
		lines = append(lines, fmt.Sprintf("%d. [%s](#slide-%d)", entry.Number, entry.Title, entry.Number))
	}
	lines = append(lines, "", "---", "")

	for _, page := range deck.Pages {
		lines = append(lines, renderElementsMarkdown(page.Elements, cfg), "")
	}

	return normalizeMarkdown(strings.Join(lines, "\n"))
}

// combineMarkdown merges several decks, prefixing each with a level-1
// heading naming it and separating them with horizontal rules.
func combineMarkdown(decks []*Deck, cfg Config) string {
	parts := make([]string, len(decks))
	for i, deck := range decks {
		parts[i] = renderDeckMarkdown(deck, cfg)
	}
	return normalizeMarkdown(strings.Join(parts, "\n\n---\n\n"))
}

var (
	reTrailingWhitespace = regexp.MustCompile(`[ \t]+\n`)
	reMultipleNewlines   = regexp.MustCompile(`\n{3,}`)
	reCRLF               = regexp.MustCompile(`\r\n?`)
)

// normalizeMarkdown cleans assembled Markdown output: line endings become
// LF, trailing whitespace is stripped per line, runs of 3+ newlines
// collapse to 2, control characters other than \n and \t are dropped, and
// the result is valid UTF-8 trimmed of surrounding whitespace.
func normalizeMarkdown(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	s = reCRLF.ReplaceAllString(s, "\n")

	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	s = reTrailingWhitespace.ReplaceAllString(s, "\n")
	s = reMultipleNewlines.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
