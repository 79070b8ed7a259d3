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
	"strings"
)

const documentCSS = `body { font-family: -apple-system, 'Segoe UI', Arial, sans-serif; max-width: 960px; margin: 40px auto; padding: 20px; line-height: 1.7; color: #1a1a1a; }
h1 { border-bottom: 2px solid #333; padding-bottom: 10px; margin-bottom: 10px; }
nav { margin-bottom: 30px; padding: 15px; background: #f8f9fa; border-radius: 6px; }
nav summary { font-weight: bold; cursor: pointer; }
nav ol { columns: 2; column-gap: 2em; margin: 10px 0 0 0; padding-left: 1.5em; }
nav li { margin: 2px 0; font-size: 0.92em; break-inside: avoid; }
nav a { color: #2471a3; text-decoration: none; }
nav a:hover { text-decoration: underline; }
.slide { margin-bottom: 2em; }
.slide-title { color: #1a5276; margin-top: 2em; padding: 4px 0; border-bottom: 1px solid #ddd; }
ul { margin: 0.3em 0; padding-left: 1.8em; }
li { margin: 0.2em 0; line-height: 1.6; }
.math { font-family: 'Cambria Math', 'STIX Two Math', 'Latin Modern Math', serif; }
.eq { display: block; margin: 0.6em 1.5em; padding: 6px 12px; background: #f0f4f8; border-left: 3px solid #2980b9; font-family: 'Cambria Math', serif; font-size: 1.05em; white-space: pre-wrap; }
img { max-width: 100%; height: auto; margin: 1em 0; display: block; }
.slide-img { max-width: 100%; border: 1px solid #ddd; border-radius: 4px; margin: 0.5em 0; }
.label { font-size: 0.88em; color: #555; margin: 0.3em 0; }
pre, code { background: #f5f5f5; font-family: Menlo, Consolas, monospace; font-size: 0.9em; }
pre { padding: 12px; border-radius: 4px; overflow-x: auto; }
code { padding: 2px 5px; border-radius: 3px; }
table { border-collapse: collapse; margin: 1em 0; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f0f0; font-weight: bold; }
details.render { margin: 0.5em 0; }
details.render summary { cursor: pointer; color: #888; font-size: 0.82em; }
`

// renderSpansHTML renders a span run with inline formatting. Math spans get
// a math-styled wrapper; bold+italic takes precedence over either alone.
// All text is escaped before wrapping.
func renderSpansHTML(spans []Span, cfg Config) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		escaped := html.EscapeString(s.Text)
		switch {
		case cfg.IsMathFont(s.Font):
			b.WriteString(`<span class="math">` + escaped + `</span>`)
		case s.Bold() && s.Italic():
			b.WriteString("<strong><em>" + escaped + "</em></strong>")
		case s.Bold():
			b.WriteString("<strong>" + escaped + "</strong>")
		case s.Italic():
			b.WriteString("<em>" + escaped + "</em>")
		default:
			b.WriteString(escaped)
		}
	}
	return b.String()
}

// htmlRenderer projects an element sequence into HTML. The only state is
// the open-list depth, which tracks how many <ul> wrappers are open.
// anchor prefixes slide ids so decks merged into one document keep their
// links distinct.
type htmlRenderer struct {
	cfg    Config
	anchor string
	parts  []string
	depth  int
}

// ensureList raises or lowers the open-list depth to level+1 so the next
// <li> lands at the right nesting.
func (r *htmlRenderer) ensureList(level int) {
	target := level + 1
	for r.depth < target {
		r.parts = append(r.parts, "<ul>")
		r.depth++
	}
	for r.depth > target {
		r.parts = append(r.parts, "</ul>")
		r.depth--
	}
}

func (r *htmlRenderer) closeList() {
	for r.depth > 0 {
		r.parts = append(r.parts, "</ul>")
		r.depth--
	}
}

func (r *htmlRenderer) renderElements(elements []Element) string {
	for _, e := range elements {
		switch e := e.(type) {
		case *Title:
			r.closeList()
			r.parts = append(r.parts, fmt.Sprintf(
				`<h2 class="slide-title" id="%sslide-%d">%s</h2>`,
				r.anchor, e.PageIndex+1, renderSpansHTML(e.Spans, r.cfg)))

		case *Bullet:
			r.ensureList(e.Level)
			r.parts = append(r.parts, "<li>"+renderSpansHTML(e.Spans, r.cfg)+"</li>")

		case *Equation:
			r.closeList()
			r.parts = append(r.parts, `<div class="eq">`+renderSpansHTML(e.Spans, r.cfg)+"</div>")

		case *Code:
			r.closeList()
			escaped := make([]string, len(e.Lines))
			for i, line := range e.Lines {
				escaped[i] = html.EscapeString(line)
			}
			r.parts = append(r.parts, "<pre><code>"+strings.Join(escaped, "\n")+"</code></pre>")

		case *Label:
			r.closeList()
			r.parts = append(r.parts, `<p class="label">`+renderSpansHTML(e.Spans, r.cfg)+"</p>")

		case *Body:
			r.closeList()
			r.parts = append(r.parts, "<p>"+renderSpansHTML(e.Spans, r.cfg)+"</p>")

		case *Image:
			r.closeList()
			r.parts = append(r.parts, fmt.Sprintf(
				`<img src="data:image/%s;base64,%s" alt="%s">`,
				e.Ext, base64.StdEncoding.EncodeToString(e.Data), html.EscapeString(e.Alt)))

		case *Render:
			r.closeList()
			r.parts = append(r.parts, fmt.Sprintf(
				`<img class="slide-img" src="data:image/png;base64,%s" alt="%s">`,
				base64.StdEncoding.EncodeToString(e.PNG), html.EscapeString(e.Alt)))

		case *Table:
			r.closeList()
			r.parts = append(r.parts, renderTableHTML(e.Rows))
		}
	}
	r.closeList()
	return strings.Join(r.parts, "\n")
}

func renderTableHTML(rows [][]string) string {
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
	return b.String()
}

// renderElementsHTML renders one page's elements.
func renderElementsHTML(elements []Element, cfg Config) string {
	r := &htmlRenderer{cfg: cfg}
	return r.renderElements(elements)
}

// deckBodyHTML renders the table of contents and every page section of one
// deck, without the document wrapper. anchor prefixes every slide id and
// TOC link.
func deckBodyHTML(deck *Deck, cfg Config, anchor string) string {
	var b strings.Builder
	b.WriteString("<nav><details open><summary>Table of Contents</summary><ol>")
	for _, entry := range deck.TOC() {
		fmt.Fprintf(&b, `<li><a href="#%sslide-%d">%s</a></li>`, anchor, entry.Number, html.EscapeString(entry.Title))
	}
	b.WriteString("</ol></details></nav>\n")

	for _, page := range deck.Pages {
		r := &htmlRenderer{cfg: cfg, anchor: anchor}
		b.WriteString("<section class=\"slide\">\n")
		b.WriteString(r.renderElements(page.Elements))
		b.WriteString("\n</section>\n")
	}
	return b.String()
}

// assembleHTML wraps body content into a full standalone document.
func assembleHTML(title, body string) string {
	return fmt.Sprintf("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n"+
		"<meta charset=\"UTF-8\">\n<title>%s</title>\n"+
		"<style>\n%s</style>\n</head>\n<body>\n"+
		"<h1>%s</h1>\n%s</body>\n</html>",
		html.EscapeString(title), documentCSS, html.EscapeString(title), body)
}

// renderDeckHTML renders one deck as a standalone HTML document.
func renderDeckHTML(deck *Deck, cfg Config) string {
	return assembleHTML(deck.Name, deckBodyHTML(deck, cfg, ""))
}

// combineHTML merges several decks into one document, separated by rules.
// Each deck gets its own anchor namespace so the per-deck TOCs stay
// navigable.
func combineHTML(title string, decks []*Deck, cfg Config) string {
	bodies := make([]string, len(decks))
	for i, deck := range decks {
		bodies[i] = deckBodyHTML(deck, cfg, fmt.Sprintf("deck%d-", i+1))
	}
	return assembleHTML(title, strings.Join(bodies, "\n<hr>\n"))
}
