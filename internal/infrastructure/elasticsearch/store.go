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
)

// VisualizationStore implements the VisualizationStore interface for Elasticsearch
type VisualizationStore struct {
	client ElasticsearchClient
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
		return fmt.Errorf("elasticsearch index failed: %w", err)
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
	return s.client.IsHealthy(ctx)
}

// NewVisualizationStore creates a visualization store writing to index
func NewVisualizationStore(client ElasticsearchClient, index string) (port.VisualizationStore, error) {
	if index == "" {
		return nil, fmt.Errorf("elasticsearch visualization index is required")
	}
	return &VisualizationStore{
		client: client,
		index:  index,
	}, nil
}

// NewVisualizationStoreFromConfig creates a visualization store from configuration
func NewVisualizationStoreFromConfig(config Config) (port.VisualizationStore, error) {
	client, err := NewHTTPClient(config)
	if err != nil {
		return nil, err
	}
	return NewVisualizationStore(client, config.VisualizationIndex)
}
