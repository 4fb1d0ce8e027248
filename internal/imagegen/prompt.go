package imagegen

import (
	"fmt"
	"strings"

	"github.com/jonathan/creative-engine/internal/prompts"
)

// BuildPrompt renders the image prompt for a brief.
func BuildPrompt(brief Brief) (string, error) {
	strategy, err := prompts.Get("image.json", "designer-"+string(brief.Designer))
	if err != nil {
		return "", fmt.Errorf("failed to load designer prompt: %w", err)
	}
	return prompts.Render("image.json", "base", map[string]string{
		"Strategy": strategy,
		"JobTitle": brief.JobTitle,
		"Company":  brief.Company,
		"Location": brief.Location,
		"Style":    string(brief.Style),
		"Colors":   strings.Join(brief.Brand.Palette(), ", "),
	})
}
