// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import "encoding/json"

// Config represents OpenSearch configuration
type Config struct {
	URL string `json:"url"`
	// VisualizationIndex is where saved visualizations are indexed
	VisualizationIndex string `json:"visualization_index"`
}

// SearchResponse represents the parts of the OpenSearch search response
// used to build a search envelope
type SearchResponse struct {
	Hits         `json:"hits"`
	Aggregations json.RawMessage `json:"aggregations,omitempty"`
}

// Hits represents the hits in the search response
type Hits struct {
	Total `json:"total"`
}

// Total represents the total number of hits
type Total struct {
	Value int `json:"value"`
}

// IndexResponse represents the result of indexing a document
type IndexResponse struct {
	ID     string `json:"_id"`
	Result string `json:"result"`
}
