package research

import (
	"net/url"
	"strings"
	"unicode"
)

// thirdPartyDomains host job ads or profiles about a company rather than
// the company's own site.
var thirdPartyDomains = []string{
	"stepstone.de",
	"indeed.com",
	"indeed.de",
	"xing.com",
	"linkedin.com",
	"kununu.com",
	"glassdoor.com",
	"glassdoor.de",
	"monster.de",
	"jobware.de",
	"arbeitsagentur.de",
	"facebook.com",
	"instagram.com",
	"youtube.com",
	"wikipedia.org",
	"northdata.de",
	"gelbeseiten.de",
	"greenhouse.io",
	"lever.co",
	"personio.de",
}

// PickHomepage returns the root URL of the first result that is not a third
// party site, preferring hosts that contain a token of the company name.
func PickHomepage(company string, links []string) string {
	var first string
	tokens := nameTokens(company)
	for _, link := range links {
		if link == "" || IsThirdPartyURL(link) {
			continue
		}
		root := rootURL(link)
		if root == "" {
			continue
		}
		if first == "" {
			first = root
		}
		host := extractDomainFromURL(link)
		for _, tok := range tokens {
			if strings.Contains(host, tok) {
				return root
			}
		}
	}
	return first
}

// IsThirdPartyURL reports whether the URL belongs to a job board, social
// network or directory.
func IsThirdPartyURL(urlStr string) bool {
	host := extractDomainFromURL(urlStr)
	if host == "" {
		return false
	}
	return IsFromCompanyDomain(urlStr, thirdPartyDomains)
}

// IsFromCompanyDomain checks if a URL is on one of the domains or a subdomain.
func IsFromCompanyDomain(urlStr string, domains []string) bool {
	urlDomain := strings.ToLower(extractDomainFromURL(urlStr))
	if urlDomain == "" {
		return false
	}
	for _, d := range domains {
		d = strings.ToLower(d)
		if urlDomain == d || strings.HasSuffix(urlDomain, "."+d) {
			return true
		}
	}
	return false
}

// extractDomainFromURL returns the host without a leading www.
func extractDomainFromURL(urlStr string) string {
	if urlStr == "" {
		return ""
	}
	if !strings.Contains(urlStr, "://") {
		urlStr = "https://" + urlStr
	}
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

func rootURL(urlStr string) string {
	if !strings.Contains(urlStr, "://") {
		urlStr = "https://" + urlStr
	}
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// nameTokens lowercases the company name and keeps words of at least four
// letters, skipping legal forms.
func nameTokens(company string) []string {
	skip := map[string]bool{"gmbh": true, "mbh": true, "ggmbh": true, "kgaa": true}
	words := strings.FieldsFunc(strings.ToLower(company), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, w := range words {
		if len([]rune(w)) >= 4 && !skip[w] {
			out = append(out, w)
		}
	}
	return out
}
