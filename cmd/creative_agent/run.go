package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/creative-engine/internal/observability"
	"github.com/jonathan/creative-engine/internal/pipeline"
	"github.com/jonathan/creative-engine/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one campaign end-to-end",
	Long: `Resolves the company brand, writes copy variants, generates one base image per
designer type and composes the requested number of creatives.

Interrupting the run (Ctrl-C) keeps the creatives that already finished.`,
	RunE: runCampaignCmd,
}

var (
	runCompany     string
	runTitle       string
	runAltTitles   []string
	runLocation    string
	runWebsite     string
	runBenefits    []string
	runDescription string
	runCount       int
	runSeed        int64
	runJSON        bool
	runOutDir      string
	runPrimary     string
	runSecondary   string
	runAccent      string
	runFont        string
)

func init() {
	runCommand.Flags().StringVar(&runCompany, "company", "", "Hiring company name (required)")
	runCommand.Flags().StringVarP(&runTitle, "title", "t", "", "Job title (required)")
	runCommand.Flags().StringSliceVar(&runAltTitles, "alt-title", nil, "Alternative job title (repeatable)")
	runCommand.Flags().StringVarP(&runLocation, "location", "l", "", "Job location (required)")
	runCommand.Flags().StringVarP(&runWebsite, "website", "w", "", "Company website (optional, discovered if omitted)")
	runCommand.Flags().StringSliceVar(&runBenefits, "benefit", nil, "Benefit to advertise (repeatable)")
	runCommand.Flags().StringVar(&runDescription, "description", "", "Short job description")
	runCommand.Flags().IntVarP(&runCount, "count", "n", 0, "Number of creatives (defaults to default_variant_count)")
	runCommand.Flags().Int64Var(&runSeed, "seed", 0, "Seed for deterministic variant selection (0 means random)")
	runCommand.Flags().BoolVar(&runJSON, "json", false, "Print the campaign result as JSON")
	runCommand.Flags().StringVarP(&runOutDir, "out", "o", "", "Directory to write artifacts and campaign.json to")
	runCommand.Flags().StringVar(&runPrimary, "primary", "", "Brand primary color override (#RRGGBB)")
	runCommand.Flags().StringVar(&runSecondary, "secondary", "", "Brand secondary color override (#RRGGBB)")
	runCommand.Flags().StringVar(&runAccent, "accent", "", "Brand accent color override (#RRGGBB)")
	runCommand.Flags().StringVar(&runFont, "font", "", "Brand font family override (used with the color overrides)")
	runCommand.MarkFlagsRequiredTogether("primary", "secondary", "accent")

	for _, name := range []string{"company", "title", "location"} {
		if err := runCommand.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(runCommand)
}

// buildRequest assembles the campaign request from the run flags.
func buildRequest(defaultCount int) *types.CampaignRequest {
	req := &types.CampaignRequest{
		Company:             runCompany,
		JobTitle:            runTitle,
		AlternativeTitles:   runAltTitles,
		Location:            runLocation,
		Website:             runWebsite,
		Benefits:            runBenefits,
		Description:         runDescription,
		DesiredVariantCount: runCount,
	}
	if req.DesiredVariantCount <= 0 {
		req.DesiredVariantCount = defaultCount
	}
	if runSeed != 0 {
		seed := runSeed
		req.Seed = &seed
	}
	if runPrimary != "" {
		req.BrandOverride = &types.BrandOverride{
			PrimaryColor:   runPrimary,
			SecondaryColor: runSecondary,
			AccentColor:    runAccent,
			FontFamily:     runFont,
		}
	}
	return req
}

func runCampaignCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	req := buildRequest(cfg.DefaultVariantCount)
	result, err := a.coordinator.Run(ctx, req, func(e pipeline.ProgressEvent) {
		logger.Debug(e.Message, zap.String("step", string(e.Step)), zap.String("category", e.Category))
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runJSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		printer := observability.NewPrinter(out)
		printer.PrintBrandIdentity(result.Brand)
		printer.PrintCopyVariants(result.CopyVariants)
		printer.PrintCampaignResult(result)
	}

	if runOutDir != "" {
		written, err := writeArtifacts(runOutDir, result)
		if err != nil {
			return err
		}
		logger.Info("artifacts written", zap.String("dir", runOutDir), zap.Int("files", written))
	}

	if result.Canceled {
		logger.Warn("campaign interrupted, keeping finished creatives",
			zap.String("campaign_id", result.ID),
			zap.Int("kept", len(result.Successful())),
			zap.Int("requested", result.TotalRequested))
	}

	if !result.Status.Succeeded() {
		return fmt.Errorf("campaign %s produced no creatives", result.ID)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeArtifacts stores every rendered creative plus campaign.json in dir and
// returns the number of artifact files written.
func writeArtifacts(dir string, result *types.CampaignResult) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	written := 0
	var errs []error
	for i, c := range result.Creatives {
		if !c.Success || c.Artifact == nil || len(c.Artifact.Data) == 0 {
			continue
		}
		name := fmt.Sprintf("%03d_%s_%s%s", i+1, c.Combination.Designer, c.Combination.Layout, extensionFor(c.Artifact))
		if err := os.WriteFile(filepath.Join(dir, name), c.Artifact.Data, 0o644); err != nil {
			errs = append(errs, err)
			continue
		}
		written++
	}

	f, err := os.Create(filepath.Join(dir, "campaign.json"))
	if err != nil {
		return written, errors.Join(append(errs, err)...)
	}
	defer f.Close()
	if err := writeJSON(f, result); err != nil {
		errs = append(errs, err)
	}
	return written, errors.Join(errs...)
}

// extensionFor maps an artifact MIME type to a file extension, sniffing the
// bytes when the type is unknown.
func extensionFor(a *types.Artifact) string {
	if m := mimetype.Lookup(a.MIMEType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return mimetype.Detect(a.Data).Extension()
}
