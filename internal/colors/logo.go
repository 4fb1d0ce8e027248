package colors

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/creative-engine/internal/types"
)

// minLogoScore drops logo candidates whose format is too poor to composite.
const minLogoScore = 5

var logoFormatScores = map[string]int{
	"svg":  10,
	"png":  8,
	"webp": 6,
	"jpg":  4,
	"jpeg": 4,
}

const unknownFormatScore = 3

// ExtractLogo finds the most usable logo image in the markup. Relative URLs
// are resolved against baseURL. It returns nil when no acceptable logo exists.
func ExtractLogo(markup, baseURL string) *types.Logo {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var best *types.Logo
	bestScore := 0
	consider := func(s *goquery.Selection) {
		src := imageSource(s)
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		format := imageFormat(src)
		score, ok := logoFormatScores[format]
		if !ok {
			score = unknownFormatScore
		}
		if score > bestScore {
			best = &types.Logo{URL: resolveURL(baseURL, src), Format: format}
			bestScore = score
		}
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if isLogoImage(s) {
			consider(s)
		}
	})
	if best == nil {
		doc.Find("header img").Each(func(_ int, s *goquery.Selection) {
			consider(s)
		})
	}

	if bestScore < minLogoScore {
		return nil
	}
	return best
}

func isLogoImage(s *goquery.Selection) bool {
	for _, attr := range []string{"class", "id", "alt", "src"} {
		if v, ok := s.Attr(attr); ok && strings.Contains(strings.ToLower(v), "logo") {
			return true
		}
	}
	return s.ParentsFiltered("[class*=logo], [id*=logo]").Length() > 0
}

func imageSource(s *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func imageFormat(src string) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil || base == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
