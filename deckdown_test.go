package deckdown

import (
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeExtractor struct {
	ext  string
	deck *Deck
	err  error
}

func (f *fakeExtractor) Accepts(info StreamInfo) bool {
	return info.Extension == f.ext
}

func (f *fakeExtractor) Extract(_ io.ReadSeeker, _ StreamInfo) (*Deck, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deck, nil
}

func TestExtractReader(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		d := New()
		_, err := d.ExtractReader(strings.NewReader("hello"), StreamInfo{
			Extension: ".txt",
			MIMEType:  "text/plain",
		})
		if !IsUnsupportedFormat(err) {
			t.Errorf("got %v, want UnsupportedFormatError", err)
		}
	})

	t.Run("registered extractor handles its extension", func(t *testing.T) {
		d := New()
		want := &Deck{Name: "custom"}
		d.RegisterExtractor("txt", &fakeExtractor{ext: ".txt", deck: want}, PriorityGeneric)

		deck, err := d.ExtractReader(strings.NewReader("hello"), StreamInfo{Extension: ".txt"})
		if err != nil {
			t.Fatalf("ExtractReader: %v", err)
		}
		if deck != want {
			t.Errorf("got deck %+v, want the registered extractor's result", deck)
		}
	})

	t.Run("failed attempts surface in the error", func(t *testing.T) {
		d := New()
		boom := errors.New("boom")
		d.RegisterExtractor("txt", &fakeExtractor{ext: ".txt", err: boom}, PriorityGeneric)

		_, err := d.ExtractReader(strings.NewReader("hello"), StreamInfo{Extension: ".txt"})
		var extErr *ExtractionError
		if !errors.As(err, &extErr) {
			t.Fatalf("got %v, want *ExtractionError", err)
		}
		if len(extErr.Attempts) != 1 || extErr.Attempts[0].Extractor != "txt" {
			t.Errorf("Attempts = %+v, want one attempt named txt", extErr.Attempts)
		}
		if !errors.Is(err, boom) {
			t.Error("wrapped cause lost")
		}
	})

	t.Run("lower priority wins", func(t *testing.T) {
		d := New()
		first := &Deck{Name: "first"}
		d.RegisterExtractor("late", &fakeExtractor{ext: ".txt", deck: &Deck{Name: "late"}}, PriorityGeneric)
		d.RegisterExtractor("early", &fakeExtractor{ext: ".txt", deck: first}, PrioritySpecific)

		deck, err := d.ExtractReader(strings.NewReader("x"), StreamInfo{Extension: ".txt"})
		if err != nil {
			t.Fatal(err)
		}
		if deck != first {
			t.Errorf("got %q, want the lower-priority extractor's deck", deck.Name)
		}
	})
}

// TestConversionPipeline runs real lines through classification and both
// renderers: a titled page with a bullet, then an equation-only page.
func TestConversionPipeline(t *testing.T) {
	cfg := DefaultConfig()
	profile := FontProfile{TitleSize: 40, BodySize: 24}

	page1Lines := []Line{
		{Spans: []Span{span("Intro", "Arial", 40)}, Y: 60},
		{Spans: []Span{span("• Point A", "Arial", 24)}, Y: 140},
	}
	page2Lines := []Line{
		{Spans: []Span{span("∑ xᵢ = 1", "CambriaMath", 24)}, Y: 200},
	}

	deck := &Deck{Name: "lecture", Profile: &profile}
	for i, lines := range [][]Line{page1Lines, page2Lines} {
		elements, title := classifyPage(cfg, profile, i, 792, lines)
		deck.Pages = append(deck.Pages, Page{Elements: postProcess(elements), Title: title})
	}

	d := New(WithRenderMode(RenderNone))

	t.Run("html", func(t *testing.T) {
		result := d.RenderDecks([]*Deck{deck}, FormatHTML)

		if result.Pages != 2 {
			t.Errorf("Pages = %d, want 2", result.Pages)
		}
		if result.Rendered != 0 {
			t.Errorf("Rendered = %d, want 0", result.Rendered)
		}
		html := result.Content

		if n := strings.Count(html, `<h2 class="slide-title" id="slide-1">Intro</h2>`); n != 1 {
			t.Errorf("got %d title headings, want 1", n)
		}
		if n := strings.Count(html, "<li>Point A</li>"); n != 1 {
			t.Errorf("got %d bullet items, want 1", n)
		}
		if n := strings.Count(html, `<div class="eq">`); n != 1 {
			t.Errorf("got %d equation divs, want 1", n)
		}
		if !strings.Contains(html, `href="#slide-1"`) || !strings.Contains(html, `href="#slide-2"`) {
			t.Error("missing TOC links")
		}
		if strings.Contains(html, `<img class="slide-img"`) {
			t.Error("render mode none must not attach page renders")
		}
		if strings.Contains(html, "•") {
			t.Error("bullet glyph leaked into output")
		}
	})

	t.Run("markdown", func(t *testing.T) {
		result := d.RenderDecks([]*Deck{deck}, FormatMarkdown)
		md := result.Content

		if !strings.Contains(md, "## Intro") {
			t.Error("missing page heading")
		}
		if !strings.Contains(md, "- Point A") {
			t.Error("missing bullet")
		}
		if !strings.Contains(md, "> ∑ xᵢ = 1") {
			t.Error("missing equation blockquote")
		}
		if !strings.Contains(md, "2. [Slide 2](#slide-2)") {
			t.Error("missing generated TOC entry for untitled page")
		}
	})
}

func TestRenderDecksCombined(t *testing.T) {
	d := New()
	decks := []*Deck{
		{Name: "week1", Pages: []Page{{}}},
		{Name: "week2", Pages: []Page{{}, {}}},
	}

	result := d.RenderDecks(decks, FormatHTML)

	if result.Title != "Combined: week1, week2" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Pages != 3 {
		t.Errorf("Pages = %d, want 3", result.Pages)
	}
	if !strings.Contains(result.Content, "<hr>") {
		t.Error("missing separator between decks")
	}
}

func TestDeckName(t *testing.T) {
	tests := []struct {
		name string
		info StreamInfo
		want string
	}{
		{"filename wins", StreamInfo{Filename: "lecture.pdf"}, "lecture"},
		{"local path fallback", StreamInfo{LocalPath: "/tmp/slides.pptx"}, "slides"},
		{"no metadata", StreamInfo{}, "document"},
		{"dotted name keeps inner dots", StreamInfo{Filename: "week.1.pdf"}, "week.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deckName(tt.info); got != tt.want {
				t.Errorf("deckName(%+v) = %q, want %q", tt.info, got, tt.want)
			}
		})
	}
}

func TestMimeFromExtension(t *testing.T) {
	if got := mimeFromExtension(".pdf"); got != "application/pdf" {
		t.Errorf("got %q", got)
	}
	if got := mimeFromExtension(".pptx"); !strings.Contains(got, "presentationml") {
		t.Errorf("got %q", got)
	}
	if got := mimeFromExtension(".xyz"); got != "application/octet-stream" {
		t.Errorf("got %q", got)
	}
}
