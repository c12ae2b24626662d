// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/learnscout/internal/corpus"
	"github.com/jonathan/learnscout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to width runes, marking the cut with "...".
func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// PrintProgress writes one progress line.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) PrintProgress(event types.ProgressEvent) {
	fmt.Fprintf(p.out, "[%3d%%] %s\n", event.Percentage, event.Message)
}

// PrintCommunities outputs the communities chosen for the scoped search.
func (p *Printer) PrintCommunities(topic string, communities []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %s\n\n", topic))

	if len(communities) == 0 {
		sb.WriteString("No communities suggested; broad search only\n")
	} else {
		for _, c := range communities {
			sb.WriteString(fmt.Sprintf("  • r/%s\n", c))
		}
	}

	p.printBox("COMMUNITIES", sb.String())
}

// PrintCorpusSummary outputs the corpus statistics and the first few items.
func (p *Printer) PrintCorpusSummary(c corpus.Corpus) {
	stats := c.Stats()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Posts:          %d\n", stats.Items))
	sb.WriteString(fmt.Sprintf("Comments:       %d\n", stats.Comments))
	sb.WriteString(fmt.Sprintf("Context length: %d chars\n", stats.Bytes))
	if len(stats.Communities) > 0 {
		sb.WriteString(fmt.Sprintf("Communities:    %s\n", strings.Join(stats.Communities, ", ")))
	}

	if len(c.Results) > 0 {
		sb.WriteString("\n")
		count := min(len(c.Results), maxItemsToShow)
		for i := 0; i < count; i++ {
			r := c.Results[i]
			sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.Item.Title))
			sb.WriteString(fmt.Sprintf("    %s · score %d · %d comments\n", r.Item.Community, r.Item.Score, len(r.Comments)))
		}
		if len(c.Results) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n... and %d more posts", len(c.Results)-maxItemsToShow))
		}
	}

	p.printBox("CORPUS SUMMARY", sb.String())
}
