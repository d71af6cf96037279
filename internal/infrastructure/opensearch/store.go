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
)

// VisualizationStore implements the VisualizationStore interface by
// indexing visualizations as OpenSearch documents
type VisualizationStore struct {
	client OpenSearchClientRetriever
	index  string
}

// SaveVisualization implements the VisualizationStore interface
func (s *VisualizationStore) SaveVisualization(ctx context.Context, visualization model.Visualization) error {
	document, err := json.Marshal(visualization)
	if err != nil {
		return fmt.Errorf("failed to marshal visualization: %w", err)
	}

	response, err := s.client.Index(ctx, s.index, visualization.ID, document)
	if err != nil {
		return fmt.Errorf("opensearch index failed: %w", err)
	}

	slog.DebugContext(ctx, "visualization indexed",
		"index", s.index,
		"id", response.ID,
		"result", response.Result,
	)
	return nil
}

// IsReady implements the VisualizationStore interface
func (s *VisualizationStore) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}

// NewVisualizationStore returns a VisualizationStore writing to config.VisualizationIndex
func NewVisualizationStore(ctx context.Context, client OpenSearchClientRetriever, config Config) (port.VisualizationStore, error) {
	if config.VisualizationIndex == "" {
		slog.ErrorContext(ctx, "opensearch visualization index is required")
		return nil, fmt.Errorf("opensearch visualization index is required")
	}

	return &VisualizationStore{
		client: client,
		index:  config.VisualizationIndex,
	}, nil
}
