// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/port"
	usecase "github.com/linuxfoundation/lfx-v2-metrics-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/log"

	"github.com/google/uuid"
)

// MetricsSvc is the metrics-svc service implementation using clean architecture.
type MetricsSvc struct {
	metricsService usecase.MetricsServiceProvider
}

// GetAggsResults computes the requested aggregations over index and returns
// one labeled row per decoded value.
func (s *MetricsSvc) GetAggsResults(ctx context.Context, index string, p *GetAggsResultsPayload) (*GetAggsResultsResult, error) {

	if p == nil || p.Aggregations == nil {
		return nil, wrapError(ctx, errors.NewValidation("aggregations are required"))
	}

	ctx = log.AppendCtx(ctx, slog.String("index", index))
	slog.DebugContext(ctx, "metricsSvc.get-aggs-results",
		"aggregations", len(p.Aggregations),
	)

	specs, errSpecs := payloadToSpecs(p.Aggregations)
	if errSpecs != nil {
		return nil, wrapError(ctx, errSpecs)
	}

	results, errResults := s.metricsService.GetAggsResults(ctx, index, specs)
	if errResults != nil {
		return nil, wrapError(ctx, errResults)
	}

	return domainResultsToResponse(results), nil
}

// SaveMetric stores a visualization definition, assigning an id when the
// payload carries none.
func (s *MetricsSvc) SaveMetric(ctx context.Context, p *SaveMetricPayload) (*SaveMetricResult, error) {

	if p == nil {
		return nil, wrapError(ctx, errors.NewValidation("visualization is required"))
	}

	visualization, errVisualization := payloadToVisualization(p)
	if errVisualization != nil {
		return nil, wrapError(ctx, errVisualization)
	}
	if visualization.ID == "" {
		visualization.ID = uuid.NewString()
	}

	slog.DebugContext(ctx, "metricsSvc.save-metric",
		"id", visualization.ID,
		"index", visualization.Index,
	)

	if err := s.metricsService.SaveMetric(ctx, visualization); err != nil {
		return nil, wrapError(ctx, err)
	}

	return &SaveMetricResult{ID: visualization.ID}, nil
}

// Readyz checks if the search backend and the visualization store are ready.
func (s *MetricsSvc) Readyz(ctx context.Context) ([]byte, error) {
	if err := s.metricsService.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "metricsSvc.readyz failed", "error", err)
		return nil, wrapError(ctx, errors.NewServiceUnavailable("service not ready", err))
	}

	return []byte(constants.LivenessResponse), nil
}

// Livez checks if the service is alive.
func (s *MetricsSvc) Livez(ctx context.Context) ([]byte, error) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	return []byte(constants.LivenessResponse), nil
}

// NewMetricsSvc returns the metrics-svc service implementation.
func NewMetricsSvc(searcher port.MetricsSearcher, store port.VisualizationStore, opts ...usecase.Option) *MetricsSvc {
	return &MetricsSvc{
		metricsService: usecase.NewMetricsService(searcher, store, opts...),
	}
}
