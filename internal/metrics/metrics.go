// Package metrics holds the Prometheus collectors of the site backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site"

type Metrics struct {
	SitemapRequests        *prometheus.CounterVec
	SitemapEntries         *prometheus.GaugeVec
	CMSFetchDuration       *prometheus.HistogramVec
	NewsletterSubscription *prometheus.CounterVec
}

// New creates and registers the collectors.
// Uses the default registerer if reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		SitemapRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sitemap_requests_total",
				Help:      "Total number of sitemap requests by variant and outcome",
			},
			[]string{"variant", "status"},
		),
		SitemapEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sitemap_entries",
				Help:      "Number of entries in the last generated sitemap",
			},
			[]string{"variant"},
		),
		CMSFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cms_fetch_duration_seconds",
				Help:      "Duration of content fetches from the CMS",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"collection", "status"},
		),
		NewsletterSubscription: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "newsletter_subscriptions_total",
				Help:      "Total number of newsletter subscription attempts by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveFetch records how long a CMS fetch took
func (m *Metrics) ObserveFetch(collection string, start time.Time, err error) {
	m.CMSFetchDuration.
		WithLabelValues(collection, status(err)).
		Observe(time.Since(start).Seconds())
}

// ObserveSitemap records a served or failed sitemap
func (m *Metrics) ObserveSitemap(variant string, entries int, err error) {
	m.SitemapRequests.WithLabelValues(variant, status(err)).Inc()
	if err == nil {
		m.SitemapEntries.WithLabelValues(variant).Set(float64(entries))
	}
}

// ObserveSubscription records the result of a subscription attempt
func (m *Metrics) ObserveSubscription(result string) {
	m.NewsletterSubscription.WithLabelValues(result).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
