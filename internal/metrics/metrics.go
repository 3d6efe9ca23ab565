// Package metrics exposes reconcile, scheduler and source metrics for Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ad_tracker/internal/domain"
)

const namespace = "ad_tracker"

// Collector records tracker metrics on a Prometheus registry.
type Collector struct {
	adsDiscovered      prometheus.Counter
	adsDeactivated     prometheus.Counter
	adsReactivated     prometheus.Counter
	reconciles         *prometheus.CounterVec
	reconcileDuration  prometheus.Histogram
	orderingViolations prometheus.Counter
	publishFailures    *prometheus.CounterVec
	sourceRequests     *prometheus.CounterVec
	sourceLatency      prometheus.Histogram
	cycleDuration      prometheus.Histogram
	cyclePagesFailed   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		adsDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_discovered_total",
			Help:      "Ads inserted for the first time.",
		}),
		adsDeactivated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_deactivated_total",
			Help:      "Ads that dropped out of the active snapshot.",
		}),
		adsReactivated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_reactivated_total",
			Help:      "Inactive ads that reappeared in the active snapshot.",
		}),
		reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciles_total",
			Help:      "Page reconciliations by result.",
		}, []string{"result"}),
		reconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of successful page reconciliations.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		orderingViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ordering_violations_total",
			Help:      "Source pages that were not ordered newest first.",
		}),
		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Ad events that could not be published.",
		}, []string{"type"}),
		sourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Ad library API requests by status class.",
		}, []string{"status"}),
		sourceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_request_duration_seconds",
			Help:      "Ad library API request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a full scheduler cycle.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		cyclePagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_pages_failed_total",
			Help:      "Pages that failed inside scheduler cycles.",
		}),
	}

	reg.MustRegister(
		c.adsDiscovered,
		c.adsDeactivated,
		c.adsReactivated,
		c.reconciles,
		c.reconcileDuration,
		c.orderingViolations,
		c.publishFailures,
		c.sourceRequests,
		c.sourceLatency,
		c.cycleDuration,
		c.cyclePagesFailed,
	)

	return c
}

func (c *Collector) RecordReconcile(summary *domain.Summary) {
	c.reconciles.WithLabelValues("success").Inc()
	c.reconcileDuration.Observe(summary.Duration.Seconds())
	c.adsDiscovered.Add(float64(summary.New))
	c.adsDeactivated.Add(float64(summary.BecameInactive))
	c.adsReactivated.Add(float64(summary.Reactivated))
}

// RecordReconcileFailure counts a failed reconciliation, labelled by failure kind.
func (c *Collector) RecordReconcileFailure(_ string, err error) {
	c.reconciles.WithLabelValues(failureKind(err)).Inc()
}

func (c *Collector) RecordOrderingViolation(_ string) {
	c.orderingViolations.Inc()
}

func (c *Collector) RecordPublishFailure(eventType domain.EventType) {
	c.publishFailures.WithLabelValues(string(eventType)).Inc()
}

func (c *Collector) ObserveSourceRequest(statusClass string, duration time.Duration) {
	c.sourceRequests.WithLabelValues(statusClass).Inc()
	c.sourceLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordCycle(duration time.Duration, _ int, failed int) {
	c.cycleDuration.Observe(duration.Seconds())
	c.cyclePagesFailed.Add(float64(failed))
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "source_error"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_error"
	default:
		return "error"
	}
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
