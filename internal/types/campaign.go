package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxVariantCount bounds a single campaign request.
const MaxVariantCount = 200

// CampaignRequest is the external request contract for one campaign run.
type CampaignRequest struct {
	Company             string         `json:"company" validate:"required,min=1,max=200"`
	JobTitle            string         `json:"job_title" validate:"required,min=1,max=200"`
	AlternativeTitles   []string       `json:"alternative_titles,omitempty" validate:"max=10,dive,required"`
	Location            string         `json:"location" validate:"required,min=1,max=200"`
	Website             string         `json:"website,omitempty" validate:"omitempty,url"`
	Benefits            []string       `json:"benefits,omitempty" validate:"max=10"`
	Description         string         `json:"description,omitempty" validate:"max=5000"`
	DesiredVariantCount int            `json:"desired_variant_count" validate:"required,min=1,max=200"`
	Seed                *int64         `json:"seed,omitempty"`
	BrandOverride       *BrandOverride `json:"brand_override,omitempty"`
}

// BrandOverride lets a caller pin brand colors instead of scraping them.
type BrandOverride struct {
	PrimaryColor   string `json:"primary_color" validate:"required,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"required,hexcolor"`
	AccentColor    string `json:"accent_color" validate:"required,hexcolor"`
	FontFamily     string `json:"font_family,omitempty"`
}

// Validate validates the CampaignRequest using the validator.
func (r *CampaignRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// JobFacts returns the job-side facts of the request.
func (r *CampaignRequest) JobFacts() JobFacts {
	titles := append([]string{r.JobTitle}, r.AlternativeTitles...)
	return JobFacts{
		Titles:      titles,
		Location:    r.Location,
		Benefits:    r.Benefits,
		Description: r.Description,
	}
}

// CompanyFacts returns the company-side facts of the request.
func (r *CampaignRequest) CompanyFacts() CompanyFacts {
	return CompanyFacts{
		Name:          r.Company,
		Website:       r.Website,
		BrandOverride: r.BrandOverride,
	}
}

// JobFacts describes the posting the creatives advertise.
type JobFacts struct {
	Titles      []string `json:"titles" validate:"required,min=1,dive,required"`
	Location    string   `json:"location" validate:"required"`
	Benefits    []string `json:"benefits,omitempty"`
	Description string   `json:"description,omitempty"`
}

// PrimaryTitle returns the first job title.
func (j JobFacts) PrimaryTitle() string {
	if len(j.Titles) == 0 {
		return ""
	}
	return j.Titles[0]
}

// CompanyFacts describes the hiring company.
type CompanyFacts struct {
	Name          string         `json:"name" validate:"required"`
	Website       string         `json:"website,omitempty" validate:"omitempty,url"`
	BrandOverride *BrandOverride `json:"brand_override,omitempty"`
}

// BaseImage is a generated background image for one designer type.
type BaseImage struct {
	Designer DesignerType `json:"designer_type"`
	MIMEType string       `json:"mime_type"`
	Prompt   string       `json:"prompt,omitempty"`
	Data     []byte       `json:"-"`
}

// Ref returns a short reference for logs and results.
func (b BaseImage) Ref() string {
	if b.Designer == "" {
		return ""
	}
	return "base/" + string(b.Designer)
}

// Artifact is the rendered output of one creative.
type Artifact struct {
	MIMEType string `json:"mime_type"`
	Size     int    `json:"size"`
	Data     []byte `json:"-"`
}

// CreativeResult is the write-once outcome of one attempted combination.
type CreativeResult struct {
	ID          string             `json:"id"`
	Combination VariantCombination `json:"combination"`
	CopyVariant CopyVariant        `json:"copy_variant"`
	ImageRef    string             `json:"image_ref,omitempty"`
	Layout      *LayoutStrategy    `json:"layout,omitempty"`
	Artifact    *Artifact          `json:"artifact,omitempty"`
	Success     bool               `json:"success"`
	Error       string             `json:"error,omitempty"`
	Duration    time.Duration      `json:"duration_ns"`
}

// CampaignStatus is the overall outcome of a campaign run.
type CampaignStatus string

// Campaign statuses. Partial and success both count as overall success;
// failed means zero creatives succeeded and the caller should retry or alert.
const (
	CampaignSuccess CampaignStatus = "success"
	CampaignPartial CampaignStatus = "partial"
	CampaignFailed  CampaignStatus = "failed"
)

// Succeeded reports whether at least one creative was produced.
func (s CampaignStatus) Succeeded() bool {
	return s == CampaignSuccess || s == CampaignPartial
}

// CampaignResult aggregates every creative of one run.
type CampaignResult struct {
	ID                    string           `json:"id"`
	Company               string           `json:"company"`
	JobTitles             []string         `json:"job_titles"`
	Brand                 BrandIdentity    `json:"brand_identity"`
	CopyVariants          []CopyVariant    `json:"copy_variants"`
	Creatives             []CreativeResult `json:"creatives"`
	Status                CampaignStatus   `json:"status"`
	TotalRequested        int              `json:"total_requested"`
	TotalGenerated        int              `json:"total_generated"`
	TotalFailed           int              `json:"total_failed"`
	Canceled              bool             `json:"canceled,omitempty"`
	GenerationTimeSeconds float64          `json:"generation_time_seconds"`
	StartedAt             time.Time        `json:"started_at"`
	CompletedAt           time.Time        `json:"completed_at"`
}

// Successful returns only the creatives that were produced.
func (r *CampaignResult) Successful() []CreativeResult {
	var out []CreativeResult
	for _, c := range r.Creatives {
		if c.Success {
			out = append(out, c)
		}
	}
	return out
}

// ValidateFacts rejects job or company facts that cannot seed a campaign.
func ValidateFacts(job JobFacts, company CompanyFacts) error {
	validate := validator.New()
	if err := validate.Struct(job); err != nil {
		return err
	}
	return validate.Struct(company)
}
