package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters for compatibility and matching traffic
type Metrics struct {
	registry          *prometheus.Registry
	CompatChecks      prometheus.Counter
	EligibilityChecks *prometheus.CounterVec
	MatchScans        prometheus.Counter
	MatchesFound      prometheus.Counter
	InvalidArguments  prometheus.Counter
}

// New creates the counters on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CompatChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloodclub_compatibility_checks_total",
			Help: "Donor/recipient compatibility lookups",
		}),
		EligibilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodclub_eligibility_checks_total",
			Help: "Eligibility evaluations by donation type and outcome",
		}, []string{"donation_type", "status"}),
		MatchScans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloodclub_match_scans_total",
			Help: "Donor pool scans for a blood request",
		}),
		MatchesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloodclub_matches_found_total",
			Help: "Compatible donors returned by match scans",
		}),
		InvalidArguments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloodclub_invalid_arguments_total",
			Help: "Requests rejected for an invalid blood group, date or donation type",
		}),
	}
	m.registry.MustRegister(m.CompatChecks, m.EligibilityChecks, m.MatchScans, m.MatchesFound, m.InvalidArguments)
	return m
}

// RecordMatchScan counts one scan and the matches it produced
func (m *Metrics) RecordMatchScan(found int) {
	m.MatchScans.Inc()
	m.MatchesFound.Add(float64(found))
}

// RecordEligibility counts one eligibility evaluation
func (m *Metrics) RecordEligibility(donationType, status string) {
	m.EligibilityChecks.WithLabelValues(donationType, status).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
