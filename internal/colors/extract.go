// Package colors extracts and ranks brand colors from website markup.
package colors

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/creative-engine/internal/types"
)

// DefaultTopK is the number of colors Extract returns.
const DefaultTopK = 5

var (
	hexPattern = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
	// cssRulePattern matches innermost "selector { body }" pairs, which also
	// reaches rules nested in @media blocks.
	cssRulePattern = regexp.MustCompile(`([^{}]+)\{([^{}]*)\}`)
	// customPropertyPattern matches "--name: value" declarations.
	customPropertyPattern = regexp.MustCompile(`--([\w-]+)\s*:\s*([^;}]+)`)
	cssCommentPattern     = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// brandTerms mark CSS custom properties that carry brand colors.
var brandTerms = []string{
	"primary", "brand", "accent", "main", "theme",
	"highlight", "corporate", "logo", "button",
}

// Extract returns up to DefaultTopK brand colors from markup, best first.
// Markup without any usable color yields the default palette.
func Extract(markup string) []string {
	return ExtractTop(markup, DefaultTopK)
}

// ExtractTop returns up to k brand colors from markup, best first.
func ExtractTop(markup string, k int) []string {
	ranked := Rank(markup)
	if len(ranked) == 0 {
		return DefaultPalette()
	}
	if k <= 0 {
		k = DefaultTopK
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Hex
	}
	return out
}

// DefaultPalette returns the built-in fallback colors.
func DefaultPalette() []string {
	return []string{types.DefaultPrimaryColor, types.DefaultSecondaryColor, types.DefaultAccentColor}
}

// Rank collects every color candidate in markup and orders them by score.
// Greys are dropped unless nothing else is present. Malformed markup never
// fails; it simply yields fewer candidates.
func Rank(markup string) []Candidate {
	c := newCollector()
	c.scan(markup)

	candidates := c.candidates()
	colored := candidates[:0:0]
	for _, cand := range candidates {
		if !cand.Grey() {
			colored = append(colored, cand)
		}
	}
	if len(colored) > 0 {
		candidates = colored
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.firstSeen < b.firstSeen
	})
	return candidates
}

// collector aggregates hex occurrences per color.
type collector struct {
	byHex map[string]*Candidate
	seen  int
}

func newCollector() *collector {
	return &collector{byHex: make(map[string]*Candidate)}
}

func (c *collector) add(hex string, ctx Context) {
	hex = strings.ToUpper(hex)
	cand, ok := c.byHex[hex]
	if !ok {
		cand = &Candidate{
			Hex:        hex,
			Contexts:   make(map[Context]bool),
			Saturation: Saturation(hex),
			firstSeen:  c.seen,
		}
		c.byHex[hex] = cand
	}
	c.seen++
	cand.Frequency++
	cand.Contexts[ctx] = true
}

func (c *collector) candidates() []Candidate {
	out := make([]Candidate, 0, len(c.byHex))
	for _, cand := range c.byHex {
		cand.Score = score(cand)
		out = append(out, *cand)
	}
	return out
}

func (c *collector) scan(markup string) {
	if strings.TrimSpace(markup) == "" {
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// Unparseable markup still gets a plain token scan.
		c.declarations(markup, ContextGeneric)
		return
	}

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		c.stylesheet(s.Text())
	})

	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		c.declarations(style, elementContext(s))
	})
}

// stylesheet tags each rule's colors with the context its selector implies.
func (c *collector) stylesheet(css string) {
	css = cssCommentPattern.ReplaceAllString(css, "")
	for _, m := range cssRulePattern.FindAllStringSubmatch(css, -1) {
		c.declarations(m[2], selectorContext(m[1]))
	}
}

// declarations records the hex colors of a declaration block. Custom
// properties named after brand terms are promoted to the css-variable context.
func (c *collector) declarations(block string, ctx Context) {
	varSpans := customPropertyPattern.FindAllStringSubmatchIndex(block, -1)
	covered := make([][2]int, 0, len(varSpans))
	for _, span := range varSpans {
		name := strings.ToLower(block[span[2]:span[3]])
		value := block[span[4]:span[5]]
		varCtx := ctx
		if isBrandVariable(name) {
			varCtx = ContextCSSVariable
		}
		for _, hex := range hexPattern.FindAllString(value, -1) {
			c.add(hex, varCtx)
		}
		covered = append(covered, [2]int{span[0], span[1]})
	}

	for _, loc := range hexPattern.FindAllStringIndex(block, -1) {
		if insideAny(loc[0], covered) {
			continue
		}
		c.add(block[loc[0]:loc[1]], ctx)
	}
}

func insideAny(pos int, spans [][2]int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

func isBrandVariable(name string) bool {
	for _, term := range brandTerms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// selectorContext classifies a CSS selector list by its strongest hint.
func selectorContext(selector string) Context {
	sel := strings.ToLower(selector)
	best := ContextGeneric
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		var ctx Context
		switch {
		case strings.Contains(part, "logo"):
			ctx = ContextLogo
		case strings.Contains(part, "header"), strings.Contains(part, "nav"):
			ctx = ContextHeader
		case strings.Contains(part, "btn"), strings.Contains(part, "button"), strings.Contains(part, "cta"),
			strings.Contains(part, "[type=submit]"), strings.Contains(part, "[type=\"submit\"]"):
			ctx = ContextButton
		case strings.Contains(part, "a:hover"), strings.Contains(part, "a:focus"):
			ctx = ContextLinkHover
		default:
			ctx = ContextGeneric
		}
		if ctx.Weight() > best.Weight() {
			best = ctx
		}
	}
	return best
}

// elementContext classifies an element with an inline style by the element
// itself and its ancestors.
func elementContext(s *goquery.Selection) Context {
	if hasHint(s, "logo") || s.ParentsFiltered("[class*=logo], [id*=logo]").Length() > 0 {
		return ContextLogo
	}
	if s.Is("header, nav") || hasHint(s, "header") || s.ParentsFiltered("header, nav, [class*=header], [id*=header]").Length() > 0 {
		return ContextHeader
	}
	if s.Is("button, input[type=submit]") || hasHint(s, "btn") || hasHint(s, "button") || hasHint(s, "cta") {
		return ContextButton
	}
	return ContextGeneric
}

func hasHint(s *goquery.Selection, hint string) bool {
	for _, attr := range []string{"class", "id"} {
		if v, ok := s.Attr(attr); ok && strings.Contains(strings.ToLower(v), hint) {
			return true
		}
	}
	return false
}
