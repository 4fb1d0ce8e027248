package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/creative-engine/internal/brand"
	"github.com/jonathan/creative-engine/internal/colors"
	"github.com/jonathan/creative-engine/internal/observability"
	"github.com/jonathan/creative-engine/internal/types"
)

var extractColorsCmd = &cobra.Command{
	Use:   "extract-colors",
	Short: "Extract ranked brand colors from a website or saved page",
	Long: `Fetches a company website (or reads a saved HTML file) and prints the ranked
brand colors and the brand identity derived from them.`,
	RunE: runExtractColors,
}

var (
	extractURL     string
	extractFile    string
	extractCompany string
	extractTop     int
	extractJSON    bool
)

func init() {
	extractColorsCmd.Flags().StringVarP(&extractURL, "url", "u", "", "Website URL to fetch")
	extractColorsCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Saved HTML file to read")
	extractColorsCmd.Flags().StringVar(&extractCompany, "company", "", "Company name for the brand identity")
	extractColorsCmd.Flags().IntVarP(&extractTop, "top", "k", 5, "Number of ranked colors to print")
	extractColorsCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the result as JSON")
	extractColorsCmd.MarkFlagsMutuallyExclusive("url", "file")

	rootCmd.AddCommand(extractColorsCmd)
}

// colorReport is the JSON shape of extract-colors output.
type colorReport struct {
	Source string              `json:"source"`
	Colors []string            `json:"colors"`
	Brand  types.BrandIdentity `json:"brand_identity"`
}

func runExtractColors(cmd *cobra.Command, _ []string) error {
	if extractURL == "" && extractFile == "" {
		return errors.New("one of --url or --file is required")
	}
	if extractTop <= 0 {
		return fmt.Errorf("--top must be positive, got %d", extractTop)
	}

	var markup, source string
	if extractFile != "" {
		data, err := os.ReadFile(extractFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", extractFile, err)
		}
		markup, source = string(data), extractFile
	} else {
		fetched, err := newFetcher(cfg, logger).Fetch(cmd.Context(), extractURL)
		if err != nil {
			return err
		}
		markup, source = fetched, extractURL
	}

	ranked := colors.ExtractTop(markup, extractTop)
	identity := brand.FromMarkup(extractCompany, extractURL, markup)

	out := cmd.OutOrStdout()
	if extractJSON {
		return writeJSON(out, colorReport{Source: source, Colors: ranked, Brand: identity})
	}
	printer := observability.NewPrinter(out)
	printer.PrintColors("Ranked colors: "+source, ranked)
	printer.PrintBrandIdentity(identity)
	return nil
}
