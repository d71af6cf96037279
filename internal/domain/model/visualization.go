// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Visualization is a saved metric visualization. The service does not
// interpret it beyond assigning an id.
type Visualization struct {
	// ID of the visualization document
	ID string `json:"id"`
	// Title shown to users
	Title string `json:"title"`
	// Index the aggregations are computed on
	Index string `json:"index"`
	// Aggregations requested by the visualization
	Aggregations []AggregationSpec `json:"aggregations"`
	// Options are presentation settings owned by the caller
	Options map[string]any `json:"options,omitempty"`
}
