package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSitemap(t *testing.T) {

	m := New(prometheus.NewRegistry())

	m.ObserveSitemap("events", 12, nil)
	m.ObserveSitemap("events", 0, errors.New("boom"))

	if got := testutil.ToFloat64(m.SitemapRequests.WithLabelValues("events", "ok")); got != 1 {
		t.Errorf("got %v ok requests, want 1", got)
	}

	if got := testutil.ToFloat64(m.SitemapRequests.WithLabelValues("events", "error")); got != 1 {
		t.Errorf("got %v failed requests, want 1", got)
	}

	// A failed request doesn't reset the entries gauge
	if got := testutil.ToFloat64(m.SitemapEntries.WithLabelValues("events")); got != 12 {
		t.Errorf("got %v entries, want 12", got)
	}
}

func TestObserveFetch(t *testing.T) {

	m := New(prometheus.NewRegistry())

	m.ObserveFetch("past_events", time.Now(), nil)
	m.ObserveFetch("past_events", time.Now(), errors.New("boom"))

	if got := testutil.CollectAndCount(m.CMSFetchDuration); got != 2 {
		t.Errorf("got %d series, want 2", got)
	}
}

func TestObserveSubscription(t *testing.T) {

	m := New(prometheus.NewRegistry())

	m.ObserveSubscription("created")
	m.ObserveSubscription("created")
	m.ObserveSubscription("rate_limited")

	if got := testutil.ToFloat64(m.NewsletterSubscription.WithLabelValues("created")); got != 2 {
		t.Errorf("got %v created, want 2", got)
	}
}
