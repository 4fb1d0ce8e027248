package types

// CopyStyle is the tonal tag of a copy variant. Tags are distinct within one batch.
type CopyStyle string

// Copy styles
const (
	CopyProfessional   CopyStyle = "professional"
	CopyEmotional      CopyStyle = "emotional"
	CopyProvocative    CopyStyle = "provocative"
	CopyQuestionBased  CopyStyle = "question_based"
	CopyBenefitFocused CopyStyle = "benefit_focused"
)

// AllCopyStyles lists every copy style in generation order.
var AllCopyStyles = []CopyStyle{
	CopyProfessional,
	CopyEmotional,
	CopyProvocative,
	CopyQuestionBased,
	CopyBenefitFocused,
}

// MaxBenefits is the number of benefit bullets a creative can carry.
const MaxBenefits = 3

// CopyVariant is one generated set of advertising texts.
type CopyVariant struct {
	Style    CopyStyle `json:"style"`
	JobTitle string    `json:"job_title"`
	Headline string    `json:"headline"`
	Subline  string    `json:"subline"`
	Benefits []string  `json:"benefits"`
	CTA      string    `json:"cta"`
	Location string    `json:"location,omitempty"`
	// Fallback is set when the variant was produced without the text provider.
	Fallback bool `json:"fallback,omitempty"`
}
