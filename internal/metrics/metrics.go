// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the prometheus collectors of the metadata sync
// layer. All methods are safe on a nil *Metrics, which disables collection.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quote_keeper"

// Toggle kinds used as the "kind" label.
const (
	ToggleLike = "like"
	ToggleSave = "save"
)

// Metrics groups the collectors registered by [New].
type Metrics struct {
	activeSubscriptions prometheus.Gauge
	toggles             *prometheus.CounterVec
	txRetries           prometheus.Counter
	comments            *prometheus.CounterVec
	reconciled          prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		activeSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_subscriptions",
			Help:      "Number of live quote metadata subscriptions held by the coordinator.",
		}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toggles_total",
			Help:      "Like and save toggles by kind and result.",
		}, []string{"kind", "result"}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_transaction_retries_total",
			Help:      "Metadata transactions re-run after a retryable failure.",
		}),
		comments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_total",
			Help:      "Comment appends by result.",
		}, []string{"result"}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comment_counts_reconciled_total",
			Help:      "Comment counters raised to match persisted comments.",
		}),
	}

	reg.MustRegister(m.activeSubscriptions, m.toggles, m.txRetries, m.comments, m.reconciled)
	return m
}

// Handler exposes the collectors of g in the prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) SubscriptionOpened() {
	if m == nil {
		return
	}
	m.activeSubscriptions.Inc()
}

func (m *Metrics) SubscriptionClosed() {
	if m == nil {
		return
	}
	m.activeSubscriptions.Dec()
}

// ObserveToggle counts a toggle of kind with its outcome.
func (m *Metrics) ObserveToggle(kind string, err error) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(kind, result(err)).Inc()
}

func (m *Metrics) TransactionRetried() {
	if m == nil {
		return
	}
	m.txRetries.Inc()
}

// ObserveComment counts a comment append with its outcome.
func (m *Metrics) ObserveComment(err error) {
	if m == nil {
		return
	}
	m.comments.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) CommentCountReconciled() {
	if m == nil {
		return
	}
	m.reconciled.Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
