// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
)

// MetricsSearcher defines the behavior for executing aggregation queries
// This abstraction allows different search implementations (OpenSearch, etc.)
// without the domain layer knowing about specific implementations
type MetricsSearcher interface {
	// Request runs a single search carrying every aggregation against the index
	Request(ctx context.Context, index string, specs []model.AggregationSpec) (*model.SearchEnvelope, error)

	// IsReady checks if the search service is ready
	IsReady(ctx context.Context) error
}
