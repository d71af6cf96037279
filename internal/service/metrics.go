// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/decoder"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
)

// MetricsServiceProvider defines the metrics operations exposed to the
// transport layer
type MetricsServiceProvider interface {
	// GetAggsResults runs the aggregations against index and returns the
	// decoded rows, in spec order
	GetAggsResults(ctx context.Context, index string, specs []model.AggregationSpec) ([]model.LabeledResult, error)

	// SaveMetric persists a visualization definition
	SaveMetric(ctx context.Context, visualization model.Visualization) error

	// IsReady checks if the backend and the visualization store are ready
	IsReady(ctx context.Context) error
}

// MetricsService issues one backend request per call and decodes the
// combined response against every spec
type MetricsService struct {
	searcher port.MetricsSearcher
	store    port.VisualizationStore
	metrics  *Metrics
}

// Option configures a MetricsService
type Option func(*MetricsService)

// WithMetrics records request outcomes and backend latency on m
func WithMetrics(m *Metrics) Option {
	return func(s *MetricsService) {
		s.metrics = m
	}
}

// GetAggsResults implements MetricsServiceProvider
func (s *MetricsService) GetAggsResults(ctx context.Context, index string, specs []model.AggregationSpec) (results []model.LabeledResult, err error) {
	defer func() {
		s.metrics.observeOutcome(err)
	}()

	slog.DebugContext(ctx, "starting aggregation request",
		"index", index,
		"aggregations", len(specs),
	)

	if err := validate(index, specs); err != nil {
		slog.DebugContext(ctx, "rejected aggregation request", "error", err)
		return nil, err
	}

	start := time.Now()
	envelope, err := s.searcher.Request(ctx, index, specs)
	s.metrics.observeBackend(start)
	if err != nil {
		slog.ErrorContext(ctx, "search operation failed while requesting aggregations",
			"index", index,
			"error", err,
		)
		return nil, err
	}

	results, err = decoder.DecodeAll(envelope, specs)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode aggregation results",
			"index", index,
			"error", err,
		)
		return nil, err
	}

	s.metrics.observeDecoded(specs)

	slog.DebugContext(ctx, "aggregation request completed",
		"rows", len(results),
	)
	return results, nil
}

// SaveMetric implements MetricsServiceProvider
func (s *MetricsService) SaveMetric(ctx context.Context, visualization model.Visualization) error {
	return s.store.SaveVisualization(ctx, visualization)
}

// IsReady implements MetricsServiceProvider
func (s *MetricsService) IsReady(ctx context.Context) error {
	if err := s.searcher.IsReady(ctx); err != nil {
		return err
	}

	if err := s.store.IsReady(ctx); err != nil {
		return err
	}

	return nil
}

// validate rejects requests that cannot be turned into a backend query
func validate(index string, specs []model.AggregationSpec) error {
	if index == "" {
		return errors.NewValidation("index is required")
	}

	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		if !spec.Type.IsKnown() {
			return errors.NewValidation(fmt.Sprintf("aggregation %d has unsupported type %q", i, spec.Type))
		}
		if !spec.Type.RequiresID() {
			continue
		}
		if spec.ID == "" {
			return errors.NewValidation(fmt.Sprintf("aggregation %d of type %q requires an id", i, spec.Type))
		}
		if _, dup := seen[spec.ID]; dup {
			return errors.NewValidation(fmt.Sprintf("duplicate aggregation id %q", spec.ID))
		}
		seen[spec.ID] = struct{}{}
		if spec.Params.Field == "" {
			return errors.NewValidation(fmt.Sprintf("aggregation %q of type %q requires a field", spec.ID, spec.Type))
		}
	}

	return nil
}

// NewMetricsService creates a new MetricsService instance
func NewMetricsService(searcher port.MetricsSearcher, store port.VisualizationStore, opts ...Option) MetricsServiceProvider {
	s := &MetricsService{
		searcher: searcher,
		store:    store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
