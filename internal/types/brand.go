// Package types provides type definitions for structured data used throughout the creative engine.
package types

import "time"

// Default brand palette used whenever no usable colors could be scraped.
const (
	DefaultPrimaryColor   = "#2C5F8D"
	DefaultSecondaryColor = "#4A90A4"
	DefaultAccentColor    = "#F4A261"
	DefaultFontFamily     = "system-ui"
)

// BrandSource records where a BrandIdentity came from.
type BrandSource string

// Brand sources
const (
	BrandSourceScraped  BrandSource = "scraped"
	BrandSourceDefault  BrandSource = "default"
	BrandSourceOverride BrandSource = "override"
)

// FontStyle is a coarse classification of a font family.
type FontStyle string

// Font styles
const (
	FontStyleModernSans   FontStyle = "modern_sans_serif"
	FontStyleClassicSerif FontStyle = "classic_serif"
	FontStyleMonospace    FontStyle = "monospace"
	FontStyleDecorative   FontStyle = "decorative"
)

// Font describes the brand typeface.
type Font struct {
	Family string    `json:"family"`
	Style  FontStyle `json:"style"`
}

// Logo references a logo image discovered on the company website.
type Logo struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

// BrandIdentity is the resolved visual identity used to style a creative.
type BrandIdentity struct {
	Company        string      `json:"company"`
	PrimaryColor   string      `json:"primary_color"`
	SecondaryColor string      `json:"secondary_color"`
	AccentColor    string      `json:"accent_color"`
	Font           Font        `json:"font"`
	Logo           *Logo       `json:"logo,omitempty"`
	Source         BrandSource `json:"source"`
	WebsiteURL     string      `json:"website_url,omitempty"`
	ResolvedAt     time.Time   `json:"resolved_at"`
}

// Palette returns the three brand colors in primary, secondary, accent order.
func (b BrandIdentity) Palette() []string {
	return []string{b.PrimaryColor, b.SecondaryColor, b.AccentColor}
}

// IsDefault reports whether the identity fell back to the built-in palette.
func (b BrandIdentity) IsDefault() bool {
	return b.Source == BrandSourceDefault
}

// DefaultFont returns the fallback typeface.
func DefaultFont() Font {
	return Font{Family: DefaultFontFamily, Style: FontStyleModernSans}
}

// DefaultBrandIdentity returns the built-in identity for a company whose site
// could not be resolved.
func DefaultBrandIdentity(company string) BrandIdentity {
	return BrandIdentity{
		Company:        company,
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		AccentColor:    DefaultAccentColor,
		Font:           DefaultFont(),
		Source:         BrandSourceDefault,
		ResolvedAt:     time.Now().UTC(),
	}
}
