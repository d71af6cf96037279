// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	stderrors "errors"
	"time"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "lfx_metrics_service"

// Request outcomes
const (
	outcomeSuccess       = "success"
	outcomeInvalid       = "invalid"
	outcomeBackendError  = "backend_error"
	outcomeDecodingError = "decoding_error"
)

// Metrics holds the Prometheus collectors of the metrics service
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec
	AggregationsTotal      *prometheus.CounterVec
	BackendRequestDuration prometheus.Histogram
}

// NewMetrics registers the service collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "aggregation_requests_total",
				Help:      "Total number of aggregation requests by outcome",
			},
			[]string{"outcome"},
		),
		AggregationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "aggregations_decoded_total",
				Help:      "Total number of decoded aggregations by type",
			},
			[]string{"type"},
		),
		BackendRequestDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Latency of search backend requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) observeBackend(start time.Time) {
	if m == nil {
		return
	}
	m.BackendRequestDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeOutcome(err error) {
	if m == nil {
		return
	}

	outcome := outcomeSuccess
	var (
		validation errors.Validation
		decoding   errors.Decoding
	)
	switch {
	case err == nil:
	case stderrors.As(err, &validation):
		outcome = outcomeInvalid
	case stderrors.As(err, &decoding):
		outcome = outcomeDecodingError
	default:
		outcome = outcomeBackendError
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDecoded(specs []model.AggregationSpec) {
	if m == nil {
		return
	}
	for _, spec := range specs {
		m.AggregationsTotal.WithLabelValues(string(spec.Type)).Inc()
	}
}
