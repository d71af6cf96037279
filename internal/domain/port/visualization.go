// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
)

// VisualizationStore defines the behavior for persisting visualizations
type VisualizationStore interface {
	// SaveVisualization stores the visualization as is
	SaveVisualization(ctx context.Context, visualization model.Visualization) error

	// IsReady checks if the storage is ready
	IsReady(ctx context.Context) error
}
