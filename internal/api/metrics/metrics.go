package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics exposes pipeline outcomes to Prometheus.
type PipelineMetrics struct {
	runsTotal     *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	runDuration   prometheus.Histogram
	cacheHits     prometheus.Counter
}

// NewPipelineMetrics registers the pipeline collectors on a registerer;
// pass prometheus.DefaultRegisterer in production.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recap_pipeline_runs_total",
			Help: "Pipeline runs by terminal status.",
		}, []string{"status"}),
		stageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recap_pipeline_stage_failures_total",
			Help: "Pipeline failures by stage and kind.",
		}, []string{"stage", "kind"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "recap_pipeline_run_duration_seconds",
			Help:    "Wall clock duration of pipeline runs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "recap_result_cache_hits_total",
			Help: "Uploads answered from the result cache.",
		}),
	}
}

func (m *PipelineMetrics) ObserveRun(d time.Duration) {
	m.runsTotal.WithLabelValues("complete").Inc()
	m.runDuration.Observe(d.Seconds())
}

func (m *PipelineMetrics) ObserveFailure(stage, kind string, d time.Duration) {
	m.runsTotal.WithLabelValues("failed").Inc()
	m.stageFailures.WithLabelValues(stage, kind).Inc()
	m.runDuration.Observe(d.Seconds())
}

func (m *PipelineMetrics) ObserveCacheHit() {
	m.cacheHits.Inc()
}
