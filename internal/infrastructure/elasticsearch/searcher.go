// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/infrastructure/query"
)

// ElasticsearchSearcher implements the MetricsSearcher interface for Elasticsearch
type ElasticsearchSearcher struct {
	client ElasticsearchClient
}

// Request implements the MetricsSearcher interface
func (es *ElasticsearchSearcher) Request(ctx context.Context, index string, specs []model.AggregationSpec) (*model.SearchEnvelope, error) {
	slog.DebugContext(ctx, "executing elasticsearch aggregation query",
		"index", index,
		"aggregations", len(specs),
	)

	body, err := query.Render(ctx, specs)
	if err != nil {
		return nil, fmt.Errorf("failed to render query: %w", err)
	}

	response, err := es.client.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	envelope := &model.SearchEnvelope{
		Total: response.Hits.Total.Value,
	}
	if len(response.Aggregations) > 0 {
		if err := json.Unmarshal(response.Aggregations, &envelope.Aggregations); err != nil {
			slog.ErrorContext(ctx, "failed to unmarshal aggregations", "error", err)
			return nil, fmt.Errorf("failed to convert search response: %w", err)
		}
	}

	slog.DebugContext(ctx, "elasticsearch aggregation query completed",
		"total_hits", envelope.Total,
		"aggregations_returned", len(envelope.Aggregations),
	)
	return envelope, nil
}

// IsReady implements the MetricsSearcher interface
func (es *ElasticsearchSearcher) IsReady(ctx context.Context) error {
	return es.client.IsHealthy(ctx)
}

// NewElasticsearchSearcher creates a new Elasticsearch searcher
func NewElasticsearchSearcher(client ElasticsearchClient) port.MetricsSearcher {
	return &ElasticsearchSearcher{
		client: client,
	}
}

// NewElasticsearchSearcherFromConfig creates a new Elasticsearch searcher from configuration
func NewElasticsearchSearcherFromConfig(config Config) (port.MetricsSearcher, error) {
	client, err := NewHTTPClient(config)
	if err != nil {
		return nil, err
	}
	return NewElasticsearchSearcher(client), nil
}
