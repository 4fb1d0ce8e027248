package pipeline

import "sync"

// State is a step of the campaign state machine.
type State string

// Campaign states in the order a run passes through them
const (
	StateFetchingContext         State = "FETCHING_CONTEXT"
	StateGeneratingTextAndImages State = "GENERATING_TEXT_AND_IMAGES"
	StateComposingVariants       State = "COMPOSING_VARIANTS"
	StateAggregating             State = "AGGREGATING"
	StateDone                    State = "DONE"
)

// States lists every campaign state in transition order.
var States = []State{
	StateFetchingContext,
	StateGeneratingTextAndImages,
	StateComposingVariants,
	StateAggregating,
	StateDone,
}

// Progress categories
const (
	CategoryLifecycle = "lifecycle"
	CategoryBrand     = "brand"
	CategoryCopy      = "copy"
	CategoryImage     = "image"
	CategoryCreative  = "creative"
)

// ProgressEvent represents a progress update during a campaign run
type ProgressEvent struct {
	Step       State  `json:"step"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	CampaignID string `json:"campaign_id,omitempty"`
	Content    any    `json:"content,omitempty"`
}

// ProgressCallback is called when campaign progress occurs
type ProgressCallback func(event ProgressEvent)

// progress serializes callback invocations from concurrent units.
type progress struct {
	mu         sync.Mutex
	campaignID string
	step       State
	callback   ProgressCallback
}

func newProgress(campaignID string, callback ProgressCallback) *progress {
	return &progress{campaignID: campaignID, callback: callback}
}

// enter moves to step and emits a lifecycle event.
func (p *progress) enter(step State, message string) {
	p.mu.Lock()
	p.step = step
	p.mu.Unlock()
	p.emit(CategoryLifecycle, message, nil)
}

// emit calls the progress callback if configured
func (p *progress) emit(category, message string, content any) {
	if p.callback == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callback(ProgressEvent{
		Step:       p.step,
		Category:   category,
		Message:    message,
		CampaignID: p.campaignID,
		Content:    content,
	})
}
