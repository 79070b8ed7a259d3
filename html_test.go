package deckdown

import (
	"strings"
	"testing"
)

func TestRenderSpansHTML(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		spans []Span
		want  string
	}{
		{
			name:  "markup in source text is escaped",
			spans: []Span{span("<script>alert(1)</script>", "Arial", 24)},
			want:  "&lt;script&gt;alert(1)&lt;/script&gt;",
		},
		{
			name:  "bold font wraps in strong",
			spans: []Span{span("key point", "Arial-Bold", 24)},
			want:  "<strong>key point</strong>",
		},
		{
			name:  "italic font wraps in em",
			spans: []Span{span("aside", "Arial-Italic", 24)},
			want:  "<em>aside</em>",
		},
		{
			name:  "bold italic wins over either alone",
			spans: []Span{span("both", "Arial-BoldItalic", 24)},
			want:  "<strong><em>both</em></strong>",
		},
		{
			name:  "math font wraps in math span",
			spans: []Span{span("∑x", "CambriaMath", 24)},
			want:  `<span class="math">∑x</span>`,
		},
		{
			name: "adjacent spans keep their own formatting",
			spans: []Span{
				span("plain ", "Arial", 24),
				span("bold", "Arial-Bold", 24),
			},
			want: "plain <strong>bold</strong>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderSpansHTML(tt.spans, cfg); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderElementsHTML(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("list nesting opens and closes correctly", func(t *testing.T) {
		got := renderElementsHTML([]Element{
			&Bullet{Spans: []Span{span("A", "Arial", 24)}, Level: 0},
			&Bullet{Spans: []Span{span("B", "Arial", 24)}, Level: 1},
			&Bullet{Spans: []Span{span("C", "Arial", 24)}, Level: 0},
			&Body{Spans: []Span{span("D", "Arial", 24)}},
		}, cfg)
		want := "<ul>\n<li>A</li>\n<ul>\n<li>B</li>\n</ul>\n<li>C</li>\n</ul>\n<p>D</p>"
		if got != want {
			t.Errorf("got:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("list left open at page end is closed", func(t *testing.T) {
		got := renderElementsHTML([]Element{
			&Bullet{Spans: []Span{span("last item", "Arial", 24)}, Level: 0},
		}, cfg)
		if !strings.HasSuffix(got, "</ul>") {
			t.Errorf("output does not close the open list: %q", got)
		}
	})

	t.Run("title carries anchor id", func(t *testing.T) {
		got := renderElementsHTML([]Element{
			&Title{Spans: []Span{span("Intro", "Arial", 40)}, PageIndex: 2},
		}, cfg)
		want := `<h2 class="slide-title" id="slide-3">Intro</h2>`
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("code block escapes its lines", func(t *testing.T) {
		got := renderElementsHTML([]Element{
			&Code{Lines: []string{"if a < b {", "}"}},
		}, cfg)
		want := "<pre><code>if a &lt; b {\n}</code></pre>"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("equation renders as eq div", func(t *testing.T) {
		got := renderElementsHTML([]Element{
			&Equation{Spans: []Span{span("x = 1", "CambriaMath", 24)}},
		}, cfg)
		if !strings.Contains(got, `<div class="eq">`) {
			t.Errorf("missing eq div: %q", got)
		}
	})

	t.Run("image embeds as base64 data URI", func(t *testing.T) {
		got := renderElementsHTML([]Element{
			&Image{Data: []byte{1, 2, 3}, Ext: "png", Alt: "Slide 1 Figure 1"},
		}, cfg)
		if !strings.Contains(got, `src="data:image/png;base64,AQID"`) {
			t.Errorf("missing data URI: %q", got)
		}
		if !strings.Contains(got, `alt="Slide 1 Figure 1"`) {
			t.Errorf("missing alt text: %q", got)
		}
	})

	t.Run("render uses the slide-img class", func(t *testing.T) {
		got := renderElementsHTML([]Element{
			&Render{PNG: []byte{1}, Alt: "Slide 1"},
		}, cfg)
		if !strings.Contains(got, `<img class="slide-img"`) {
			t.Errorf("missing slide-img class: %q", got)
		}
	})
}

func TestRenderTableHTML(t *testing.T) {
	got := renderTableHTML([][]string{
		{"Region", "Growth"},
		{"Americas", "<12%>"},
	})
	if !strings.Contains(got, "<th>Region</th><th>Growth</th>") {
		t.Errorf("first row not rendered as header: %q", got)
	}
	if !strings.Contains(got, "<td>Americas</td><td>&lt;12%&gt;</td>") {
		t.Errorf("data row wrong or unescaped: %q", got)
	}
}

func TestRenderDeckHTML(t *testing.T) {
	cfg := DefaultConfig()
	deck := &Deck{
		Name: "lecture",
		Pages: []Page{
			{
				Title: "Intro",
				Elements: []Element{
					&Title{Spans: []Span{span("Intro", "Arial", 40)}, PageIndex: 0},
				},
			},
			{}, // untitled page
		},
	}

	got := renderDeckHTML(deck, cfg)

	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(got, "<style>") {
		t.Error("missing embedded stylesheet")
	}
	if !strings.Contains(got, "<h1>lecture</h1>") {
		t.Error("missing document heading")
	}
	if !strings.Contains(got, `<li><a href="#slide-1">Intro</a></li>`) {
		t.Error("missing TOC entry for titled page")
	}
	if !strings.Contains(got, `<li><a href="#slide-2">Slide 2</a></li>`) {
		t.Error("missing generated TOC entry for untitled page")
	}
	if got := strings.Count(got, `<section class="slide">`); got != 2 {
		t.Errorf("got %d slide sections, want 2", got)
	}
}

func TestCombineHTML(t *testing.T) {
	cfg := DefaultConfig()
	titledPage := func(title string) Page {
		return Page{
			Title: title,
			Elements: []Element{
				&Title{Spans: []Span{span(title, "Arial", 40)}, PageIndex: 0},
			},
		}
	}
	decks := []*Deck{
		{Name: "week1", Pages: []Page{titledPage("Basics")}},
		{Name: "week2", Pages: []Page{titledPage("Advanced")}},
	}

	got := combineHTML("Combined: week1, week2", decks, cfg)

	if !strings.Contains(got, "<h1>Combined: week1, week2</h1>") {
		t.Error("missing combined heading")
	}
	if strings.Count(got, "<hr>") != 1 {
		t.Errorf("got %d <hr> separators, want 1", strings.Count(got, "<hr>"))
	}
	if strings.Count(got, "<nav>") != 2 {
		t.Errorf("got %d TOC blocks, want one per deck", strings.Count(got, "<nav>"))
	}

	// Each deck gets its own anchor namespace so both TOCs stay navigable.
	if !strings.Contains(got, `<a href="#deck1-slide-1">Basics</a>`) {
		t.Error("first deck's TOC link not prefixed")
	}
	if !strings.Contains(got, `<a href="#deck2-slide-1">Advanced</a>`) {
		t.Error("second deck's TOC link not prefixed")
	}
	if !strings.Contains(got, `id="deck1-slide-1"`) || !strings.Contains(got, `id="deck2-slide-1"`) {
		t.Error("slide headings not in per-deck anchor namespaces")
	}
	if strings.Contains(got, `href="#slide-1"`) {
		t.Error("unprefixed anchor would collide across decks")
	}
}
