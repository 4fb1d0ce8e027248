package brand

import (
	"regexp"
	"strings"
)

var (
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	slugPattern    = regexp.MustCompile(`[^a-z0-9\s-]+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// legalSuffixes are company legal forms stripped before guessing a domain.
var legalSuffixes = []string{
	"gmbh & co. kg", "gmbh & co kg", "ggmbh", "gmbh", "mbh", "ag", "kg", "ohg",
	"gbr", "ug", "se", "e.v.", "ev", "e.k.", "kgaa",
}

var transliterations = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// NormalizeName turns a company name into a case-insensitive cache key.
func NormalizeName(company string) string {
	key := nonWordPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(company)), "_")
	return strings.Trim(key, "_")
}

// GuessWebsite derives a likely German company homepage from its name,
// e.g. "Acme Care GmbH" becomes https://www.acme-care.de.
func GuessWebsite(company string) string {
	name := strings.ToLower(strings.TrimSpace(company))
	for stripped := true; stripped; {
		stripped = false
		for _, suffix := range legalSuffixes {
			if strings.HasSuffix(name, " "+suffix) {
				name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
				stripped = true
			}
		}
	}
	name = transliterations.Replace(name)
	name = strings.ReplaceAll(name, "&", " ")
	name = slugPattern.ReplaceAllString(name, "")
	name = spacePattern.ReplaceAllString(strings.TrimSpace(name), "-")
	if name == "" {
		return ""
	}
	return "https://www." + name + ".de"
}
