package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "creative_engine"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration    *prom.HistogramVec
	campaignDuration prom.Histogram
	campaignStatus   *prom.CounterVec
	creativeResults  *prom.CounterVec
	stageResults     *prom.CounterVec
	providerErrors   *prom.CounterVec
	inFlight         prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg. A
// nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of campaign pipeline stages",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		campaignDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "campaign_duration_seconds",
			Help:      "Total campaign duration",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		campaignStatus: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "campaigns_total",
			Help:      "Campaigns by final status",
		}, []string{"status"}),
		creativeResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "creatives_total",
			Help:      "Creative results by designer type and outcome",
		}, []string{"designer", "result"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		providerErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "External provider failures by provider and kind",
		}, []string{"provider", "kind"}),
		inFlight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "creatives_in_flight",
			Help:      "Creatives currently being composed and rendered",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.campaignDuration, pr.campaignStatus,
		pr.creativeResults, pr.stageResults, pr.providerErrors, pr.inFlight)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveCampaignDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.campaignDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCampaignStatus(status string) {
	if p == nil {
		return
	}
	p.campaignStatus.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncCreativeResult(designer string, result ResultLabel) {
	if p == nil {
		return
	}
	p.creativeResults.WithLabelValues(designer, string(result)).Inc()
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncProviderError(provider, kind string) {
	if p == nil {
		return
	}
	p.providerErrors.WithLabelValues(provider, kind).Inc()
}

func (p *PrometheusRecorder) AddInFlight(delta int) {
	if p == nil {
		return
	}
	p.inFlight.Add(float64(delta))
}

// HTTPHandler returns an http.Handler that serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
