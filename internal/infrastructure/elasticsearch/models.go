// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"encoding/json"
	"time"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
)

// Config represents Elasticsearch configuration
type Config struct {
	URL                string        `json:"url"`
	Username           string        `json:"username"`
	Password           string        `json:"password"`
	Timeout            time.Duration `json:"timeout"`
	MaxRetries         int           `json:"max_retries"`
	VisualizationIndex string        `json:"visualization_index"`
}

// SearchResponse represents the parts of an Elasticsearch search response
// the metrics service reads
type SearchResponse struct {
	Hits         Hits            `json:"hits"`
	Aggregations json.RawMessage `json:"aggregations,omitempty"`
}

// Hits holds the hit count; hits.total is a number on older clusters
type Hits struct {
	Total model.HitsTotal `json:"total"`
}

// IndexResponse represents an Elasticsearch index response
type IndexResponse struct {
	ID     string `json:"_id"`
	Result string `json:"result"`
}

// HealthResponse represents the cluster health response
type HealthResponse struct {
	Status string `json:"status"`
}
