package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// Recorder collects generator metrics for one CLI run
type Recorder struct {
	Registry *prometheus.Registry

	runs        *prometheus.CounterVec
	attempts    *prometheus.CounterVec
	accepted    *prometheus.CounterVec
	bestEffort  *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	scores      *prometheus.HistogramVec
	understaff  *prometheus.GaugeVec
	genDuration *prometheus.HistogramVec
}

// NewRecorder registers the generator metrics on a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		Registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_roster_generate_runs_total",
			Help: "Total number of generator runs",
		}, []string{"category"}),
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_roster_generate_attempts_total",
			Help: "Total number of greedy passes attempted",
		}, []string{"category"}),
		accepted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_roster_generate_accepted_total",
			Help: "Total number of distinct rosters meeting the satisfaction threshold",
		}, []string{"category"}),
		bestEffort: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_roster_generate_best_effort_total",
			Help: "Total number of runs that fell back to best-effort rosters",
		}, []string{"category"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shift_roster_candidate_cache_hits_total",
			Help: "Total number of generator runs served from the candidate cache",
		}, []string{"category"}),
		scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shift_roster_candidate_score",
			Help:    "Composite score of returned candidates",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"category"}),
		understaff: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shift_roster_best_candidate_understaffed_slots",
			Help: "Understaffed slots in the best returned candidate",
		}, []string{"category"}),
		genDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "shift_roster_generate_duration_seconds",
			Help: "Duration of generator runs in seconds",
		}, []string{"category"}),
	}
}

// ObserveGenerate records one generator run and its candidates. A nil
// Recorder ignores the call.
func (r *Recorder) ObserveGenerate(category roster.Category, stats roster.GenerateStats, candidates []*roster.Assignment, elapsed time.Duration) {
	if r == nil {
		return
	}
	label := string(category)

	r.runs.WithLabelValues(label).Inc()
	r.attempts.WithLabelValues(label).Add(float64(stats.Attempts))
	r.accepted.WithLabelValues(label).Add(float64(stats.Accepted))
	if stats.BestEffort {
		r.bestEffort.WithLabelValues(label).Inc()
	}
	for _, c := range candidates {
		r.scores.WithLabelValues(label).Observe(c.Score)
	}
	if len(candidates) > 0 {
		r.understaff.WithLabelValues(label).Set(float64(len(candidates[0].Understaffed())))
	}
	r.genDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// ObserveCacheHit records a run served from the candidate cache
func (r *Recorder) ObserveCacheHit(category roster.Category) {
	if r == nil {
		return
	}
	r.cacheHits.WithLabelValues(string(category)).Inc()
}

// WriteToTextfile writes the registry in the node exporter textfile format
func (r *Recorder) WriteToTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
