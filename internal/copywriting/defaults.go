package copywriting

import (
	"strings"

	"github.com/jonathan/creative-engine/internal/types"
)

var defaultBenefits = []string{
	"Unbefristete Festanstellung",
	"Faire Bezahlung",
	"Ein herzliches Team",
}

type defaultTexts struct {
	headline string
	subline  string
	cta      string
}

// Placeholders: {title}, {company}, {location}, {benefit}.
var defaultCopy = map[types.CopyStyle]defaultTexts{
	types.CopyProfessional: {
		headline: "Ihre Zukunft als {title}",
		subline:  "Verstärken Sie unser Team bei {company} in {location}.",
		cta:      "Jetzt bewerben",
	},
	types.CopyEmotional: {
		headline: "Arbeit, die wirklich zählt",
		subline:  "Bei {company} in {location} machst du jeden Tag einen Unterschied.",
		cta:      "Jetzt Teil werden",
	},
	types.CopyProvocative: {
		headline: "Dein Job kann mehr",
		subline:  "Wechsle zu {company} und arbeite dort, wo man dich wertschätzt.",
		cta:      "Jetzt wechseln",
	},
	types.CopyQuestionBased: {
		headline: "Lust auf einen Neustart?",
		subline:  "{company} sucht dich als {title} in {location}.",
		cta:      "Jetzt bewerben",
	},
	types.CopyBenefitFocused: {
		headline: "{benefit}",
		subline:  "Als {title} bei {company} bekommst du mehr als ein Gehalt.",
		cta:      "Mehr erfahren",
	},
}

// DefaultVariant builds a deterministic variant from the brief alone. It is
// used when the text provider fails for the brief's style.
func DefaultVariant(brief Brief) types.CopyVariant {
	texts, ok := defaultCopy[brief.Style]
	if !ok {
		texts = defaultCopy[types.CopyProfessional]
	}

	benefits := Clean(types.CopyVariant{Benefits: brief.Job.Benefits}).Benefits
	if len(benefits) == 0 {
		benefits = append([]string(nil), defaultBenefits...)
	}

	location := brief.Job.Location
	if location == "" {
		location = "Ihrer Region"
	}
	company := brief.Company
	if company == "" {
		company = "uns"
	}
	title := brief.JobTitle
	if title == "" {
		title = "Fachkraft"
	}
	r := strings.NewReplacer(
		"{title}", title,
		"{company}", company,
		"{location}", location,
		"{benefit}", benefits[0],
	)

	return types.CopyVariant{
		Style:    brief.Style,
		JobTitle: brief.JobTitle,
		Headline: r.Replace(texts.headline),
		Subline:  r.Replace(texts.subline),
		Benefits: benefits,
		CTA:      texts.cta,
		Location: brief.Job.Location,
		Fallback: true,
	}
}
