/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	RegisterCollector(c prometheus.Collector)
	Handler() http.Handler

	// Collection
	IncClientConnection()
	IncRequests(cmd string)
	ObserveResponseNS(cmd string, t int64)
	IncQueries(kind, outcome string)
}

type metricsStore struct {
	registry          *prometheus.Registry
	ClientConnections prometheus.Counter
	Requests          *prometheus.CounterVec
	ResponseNS        *prometheus.HistogramVec
	Queries           *prometheus.CounterVec
}

var (
	CommandLabel = "cmd"
	KindLabel    = "kind"
	OutcomeLabel = "outcome"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(2*i*int(time.Millisecond)))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		ClientConnections: factory.NewCounter(prometheus.CounterOpts{
			Name: "tally_client_connections",
			Help: "The total number of client connections",
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_requests",
			Help: "Request counts for the tally commands",
		}, []string{CommandLabel}),
		ResponseNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tally_response_ns",
			Help:    "Response times of tally commands",
			Buckets: buckets,
		}, []string{CommandLabel}),
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_queries",
			Help: "Queries answered, by expression kind and outcome",
		}, []string{KindLabel, OutcomeLabel}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) RegisterCollector(c prometheus.Collector) {
	ms.registry.MustRegister(c)
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncClientConnection() {
	ms.ClientConnections.Inc()
}

func (ms *metricsStore) IncRequests(cmd string) {
	ms.Requests.With(prometheus.Labels{CommandLabel: cmd}).Inc()
}

func (ms *metricsStore) ObserveResponseNS(cmd string, t int64) {
	ms.ResponseNS.
		With(prometheus.Labels{CommandLabel: cmd}).
		Observe(float64(t))
}

func (ms *metricsStore) IncQueries(kind, outcome string) {
	ms.Queries.With(prometheus.Labels{KindLabel: kind, OutcomeLabel: outcome}).Inc()
}
