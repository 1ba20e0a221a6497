package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ContactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_contact_submissions_total",
		Help: "Contact form submissions by outcome (sent, failed, skipped, rejected)",
	}, []string{"outcome"})
	RelaySendSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_relay_send_seconds",
		Help:    "Duration of outbound email relay calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_sessions_active",
		Help: "Visitor sessions currently held in memory",
	})
	PageViews = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_page_views_total",
		Help: "Tracked page views by route",
	}, []string{"path"})
)

func init() {
	prometheus.MustRegister(ContactSubmissions)
	prometheus.MustRegister(RelaySendSeconds)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(PageViews)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
