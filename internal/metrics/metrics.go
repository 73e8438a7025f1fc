// Package metrics exposes the checkout counters scraped at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcomes.
const (
	ScanAdded     = "added"
	ScanDuplicate = "duplicate"
	ScanNotFound  = "not_found"
	ScanIgnored   = "ignored"
	ScanFailed    = "failed"
)

// Purchase outcomes.
const (
	PurchaseAccepted = "accepted"
	PurchaseRejected = "rejected"
	PurchaseInvalid  = "invalid"
	PurchaseFailed   = "failed"
)

var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "scans_total",
		Help:      "Scans handled by the checkout screen, by outcome.",
	}, []string{"kind", "outcome"})

	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "checkout",
		Name:      "purchases_total",
		Help:      "Purchase submissions, by outcome.",
	}, []string{"outcome"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pos",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to the POS backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "result"})
)
