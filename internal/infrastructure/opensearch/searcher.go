// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/infrastructure/query"
)

// OpenSearchSearcher implements the MetricsSearcher interface for OpenSearch
type OpenSearchSearcher struct {
	client OpenSearchClientRetriever
}

// Request implements the MetricsSearcher interface
func (os *OpenSearchSearcher) Request(ctx context.Context, index string, specs []model.AggregationSpec) (*model.SearchEnvelope, error) {
	slog.DebugContext(ctx, "executing opensearch aggregation query",
		"index", index,
		"aggregations", len(specs),
	)

	body, err := query.Render(ctx, specs)
	if err != nil {
		return nil, fmt.Errorf("failed to render query: %w", err)
	}

	response, err := os.client.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("opensearch search failed: %w", err)
	}

	envelope, err := os.convertResponse(ctx, response)
	if err != nil {
		return nil, fmt.Errorf("failed to convert search response: %w", err)
	}

	slog.DebugContext(ctx, "opensearch aggregation query completed",
		"total_hits", envelope.Total,
		"aggregations_returned", len(envelope.Aggregations),
	)
	return envelope, nil
}

// IsReady implements the MetricsSearcher interface
func (os *OpenSearchSearcher) IsReady(ctx context.Context) error {
	return os.client.IsReady(ctx)
}

// convertResponse converts OpenSearch response to the search envelope
func (os *OpenSearchSearcher) convertResponse(ctx context.Context, response *SearchResponse) (*model.SearchEnvelope, error) {
	if response == nil {
		return nil, fmt.Errorf("empty opensearch response")
	}

	envelope := &model.SearchEnvelope{
		Total: int64(response.Hits.Total.Value),
	}

	if len(response.Aggregations) == 0 {
		return envelope, nil
	}

	if err := json.Unmarshal(response.Aggregations, &envelope.Aggregations); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal aggregations", "error", err)
		return nil, fmt.Errorf("failed to unmarshal aggregations: %w", err)
	}

	return envelope, nil
}

// NewSearcher returns a new OpenSearchSearcher implementation
func NewSearcher(client OpenSearchClientRetriever) port.MetricsSearcher {
	return &OpenSearchSearcher{
		client: client,
	}
}
