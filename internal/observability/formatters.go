// Package observability provides the process logger and formatted output
// utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/creative-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
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
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to the box interior, counting runes.
func truncate(line string) string {
	limit := boxWidth - 4
	if utf8.RuneCountInString(line) <= limit {
		return line
	}
	runes := []rune(line)
	return string(runes[:limit-3]) + "..."
}

// PrintBrandIdentity outputs the resolved brand identity.
func (p *Printer) PrintBrandIdentity(brand types.BrandIdentity) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", brand.Company))
	sb.WriteString(fmt.Sprintf("Source:     %s\n", brand.Source))
	if brand.WebsiteURL != "" {
		sb.WriteString(fmt.Sprintf("Website:    %s\n", brand.WebsiteURL))
	}
	sb.WriteString(fmt.Sprintf("Primary:    %s\n", brand.PrimaryColor))
	sb.WriteString(fmt.Sprintf("Secondary:  %s\n", brand.SecondaryColor))
	sb.WriteString(fmt.Sprintf("Accent:     %s\n", brand.AccentColor))
	sb.WriteString(fmt.Sprintf("Font:       %s (%s)\n", brand.Font.Family, brand.Font.Style))
	if brand.Logo != nil {
		sb.WriteString(fmt.Sprintf("Logo:       %s\n", brand.Logo.URL))
	} else {
		sb.WriteString("Logo:       none\n")
	}
	p.printBox("BRAND IDENTITY", sb.String())
}

// PrintColors outputs a ranked hex color list.
func (p *Printer) PrintColors(title string, hexes []string) {
	var sb strings.Builder
	for i, hex := range hexes {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, hex))
	}
	if len(hexes) == 0 {
		sb.WriteString("(none)\n")
	}
	p.printBox(title, sb.String())
}

// PrintCopyVariants outputs the generated copy batch.
func (p *Printer) PrintCopyVariants(variants []types.CopyVariant) {
	if len(variants) == 0 {
		return
	}

	var sb strings.Builder
	for i, v := range variants {
		if i > 0 {
			sb.WriteString("\n")
		}
		label := string(v.Style)
		if v.Fallback {
			label += " (default)"
		}
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, label))
		sb.WriteString(fmt.Sprintf("  Title:    %s\n", v.JobTitle))
		sb.WriteString(fmt.Sprintf("  Headline: %s\n", v.Headline))
		sb.WriteString(fmt.Sprintf("  Subline:  %s\n", v.Subline))
		for _, b := range v.Benefits {
			sb.WriteString(fmt.Sprintf("  • %s\n", b))
		}
		sb.WriteString(fmt.Sprintf("  CTA:      %s\n", v.CTA))
	}
	p.printBox("COPY VARIANTS", sb.String())
}

// PrintCampaignResult outputs counts and the per-creative outcomes.
func (p *Printer) PrintCampaignResult(result *types.CampaignResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Campaign:   %s\n", result.ID))
	sb.WriteString(fmt.Sprintf("Company:    %s\n", result.Company))
	sb.WriteString(fmt.Sprintf("Job:        %s\n", strings.Join(result.JobTitles, ", ")))
	sb.WriteString(fmt.Sprintf("Status:     %s\n", result.Status))
	sb.WriteString(fmt.Sprintf("Generated:  %d of %d (%d failed)\n", result.TotalGenerated, result.TotalRequested, result.TotalFailed))
	if result.Canceled {
		sb.WriteString("Canceled:   yes\n")
	}
	sb.WriteString(fmt.Sprintf("Duration:   %.1fs\n", result.GenerationTimeSeconds))
	sb.WriteString("\n")

	count := min(len(result.Creatives), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := result.Creatives[i]
		mark := "✓"
		if !c.Success {
			mark = "✗"
		}
		line := fmt.Sprintf("%s %s", mark, c.Combination.Key())
		if c.Error != "" {
			line += ": " + c.Error
		}
		sb.WriteString(line + "\n")
	}
	if len(result.Creatives) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Creatives)-maxItemsToShow))
	}
	p.printBox("CAMPAIGN RESULT", sb.String())
}
