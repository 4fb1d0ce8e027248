// Package metrics records campaign pipeline metrics. Components receive a
// Recorder and default to NoopRecorder when metrics are not configured.
package metrics

import "time"

// ResultLabel enumerates per-item result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultDegraded ResultLabel = "degraded"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for campaign runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveCampaignDuration(d time.Duration)
	IncCampaignStatus(status string) // success|partial|failed
	IncCreativeResult(designer string, result ResultLabel)
	IncStageResult(stage string, result ResultLabel)
	IncProviderError(provider, kind string)
	AddInFlight(delta int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveCampaignDuration(time.Duration)      {}
func (NoopRecorder) IncCampaignStatus(string)                   {}
func (NoopRecorder) IncCreativeResult(string, ResultLabel)      {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncProviderError(string, string)            {}
func (NoopRecorder) AddInFlight(int)                            {}
