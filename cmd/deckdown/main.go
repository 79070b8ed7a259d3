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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	deckdown "github.com/nicholasgasior/deckdown-go"
)

var version = "dev"

func main() {
	var (
		output      string
		useMD       bool
		renderAll   bool
		renderNone  bool
		configPath  string
		showVersion bool
	)

	flag.StringVarP(&output, "output", "o", "", "Output file (.html or .md, format auto-detected from extension)")
	flag.BoolVar(&useMD, "md", false, "Output Markdown instead of HTML")
	flag.BoolVar(&renderAll, "render", false, "Render ALL pages as images (largest file)")
	flag.BoolVar(&renderNone, "no-render", false, "Text extraction only, no page renders (smallest file)")
	flag.StringVar(&configPath, "config", "", "YAML config file (math fonts, bullet glyphs, render thresholds)")
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deckdown [flags] <file1> [file2 ...]\n\n")
		fmt.Fprintf(os.Stderr, "Convert PDF or PPTX slide decks to self-contained HTML or Markdown.\n")
		fmt.Fprintf(os.Stderr, "Default: HTML with auto-rendered pages for diagrams and equations.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  deckdown lecture.pdf\n")
		fmt.Fprintf(os.Stderr, "  deckdown lecture.pdf --md\n")
		fmt.Fprintf(os.Stderr, "  deckdown lecture.pdf --render\n")
		fmt.Fprintf(os.Stderr, "  deckdown lecture.pdf -o notes.md\n")
		fmt.Fprintf(os.Stderr, "  deckdown week1.pdf week2.pptx -o combined.html\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("deckdown %s\n", version)
		os.Exit(0)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	for _, input := range inputs {
		if _, err := os.Stat(input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", input)
			os.Exit(1)
		}
	}

	if renderAll && renderNone {
		fmt.Fprintln(os.Stderr, "Error: --render and --no-render are mutually exclusive")
		os.Exit(2)
	}
	renderMode := deckdown.RenderAuto
	switch {
	case renderAll:
		renderMode = deckdown.RenderAll
	case renderNone:
		renderMode = deckdown.RenderNone
	}

	opts := []deckdown.Option{deckdown.WithRenderMode(renderMode)}
	if configPath != "" {
		cfg, err := deckdown.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, deckdown.WithConfig(cfg))
	}

	format := deckdown.FormatHTML
	if useMD {
		format = deckdown.FormatMarkdown
	}
	if output != "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".md", ".markdown":
			format = deckdown.FormatMarkdown
		case ".html", ".htm":
			format = deckdown.FormatHTML
		}
	}

	d := deckdown.New(opts...)

	decks := make([]*deckdown.Deck, 0, len(inputs))
	for _, input := range inputs {
		fmt.Fprintf(os.Stderr, "Converting: %s\n", filepath.Base(input))
		deck, err := d.ExtractFile(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if deck.Profile != nil {
			fmt.Fprintf(os.Stderr, "  %d pages | title=%.0fpt body=%.0fpt\n",
				len(deck.Pages), deck.Profile.TitleSize, deck.Profile.BodySize)
		} else {
			fmt.Fprintf(os.Stderr, "  %d slides\n", len(deck.Pages))
		}
		if rendered := deck.Rendered(); rendered > 0 {
			fmt.Fprintf(os.Stderr, "  %d/%d pages rendered as images\n", rendered, len(deck.Pages))
		}
		decks = append(decks, deck)
	}

	result := d.RenderDecks(decks, format)

	out := outputPath(output, inputs, format)
	if err := os.WriteFile(out, []byte(result.Content+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	if info, err := os.Stat(out); err == nil {
		fmt.Fprintf(os.Stderr, "\nDone: %s (%.1f MB)\n", out, float64(info.Size())/1024/1024)
	} else {
		fmt.Fprintf(os.Stderr, "\nDone: %s\n", out)
	}
}

// outputPath picks the output file: an explicit -o wins; a single input
// swaps its extension; multiple inputs combine.
func outputPath(output string, inputs []string, format deckdown.Format) string {
	if output != "" {
		return output
	}
	ext := ".html"
	if format == deckdown.FormatMarkdown {
		ext = ".md"
	}
	if len(inputs) == 1 {
		base := strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0]))
		return base + ext
	}
	return "combined" + ext
}
