// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "github.com/linuxfoundation/lfx-v2-metrics-service/pkg/constants"

// AggregationType identifies one of the supported aggregation kinds
type AggregationType string

const (
	AggregationCount           AggregationType = "count"
	AggregationAvg             AggregationType = "avg"
	AggregationSum             AggregationType = "sum"
	AggregationMin             AggregationType = "min"
	AggregationMax             AggregationType = "max"
	AggregationCardinality     AggregationType = "cardinality"
	AggregationMedian          AggregationType = "median"
	AggregationExtendedStats   AggregationType = "extended_stats"
	AggregationPercentiles     AggregationType = "percentiles"
	AggregationPercentileRanks AggregationType = "percentile_ranks"
	AggregationTopHits         AggregationType = "top_hits"
)

// AggregationTypes lists every supported aggregation type
var AggregationTypes = []AggregationType{
	AggregationCount,
	AggregationAvg,
	AggregationSum,
	AggregationMin,
	AggregationMax,
	AggregationCardinality,
	AggregationMedian,
	AggregationExtendedStats,
	AggregationPercentiles,
	AggregationPercentileRanks,
	AggregationTopHits,
}

// IsKnown reports whether t is one of AggregationTypes
func (t AggregationType) IsKnown() bool {
	for _, known := range AggregationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RequiresID reports whether the aggregation is looked up by id in the
// response. Count reads hits.total instead.
func (t AggregationType) RequiresID() bool {
	return t != AggregationCount
}

// TopHitsAggregate is the client-side reduction applied to top hits
type TopHitsAggregate string

const (
	TopHitsConcatenate TopHitsAggregate = "Concatenate"
	TopHitsSum         TopHitsAggregate = "Sum"
	TopHitsMax         TopHitsAggregate = "Max"
	TopHitsMin         TopHitsAggregate = "Min"
	TopHitsAverage     TopHitsAggregate = "Average"
)

// AggregationSpec is the caller's request for a single aggregation
type AggregationSpec struct {
	// ID is the key of the aggregation in the backend response
	ID string `json:"id"`
	// Type of the aggregation
	Type AggregationType `json:"type"`
	// Params depend on Type
	Params AggregationParams `json:"params"`
}

// AggregationParams holds the type-dependent aggregation parameters
type AggregationParams struct {
	// Field the aggregation is computed on; also used in labels
	Field string `json:"field,omitempty"`
	// Size is the number of top hits to fetch
	Size int `json:"size,omitempty"`
	// SortField orders top hits
	SortField string `json:"sortField,omitempty"`
	// SortOrder is "asc" or "desc"
	SortOrder string `json:"sortOrder,omitempty"`
	// Aggregate is the client-side reduction over top hits
	Aggregate TopHitsAggregate `json:"aggregate,omitempty"`
	// Percents requested by a percentiles aggregation
	Percents []float64 `json:"percents,omitempty"`
	// Values requested by a percentile ranks aggregation
	Values []float64 `json:"values,omitempty"`
}

// TopHitsSize returns the number of hits a top hits aggregation fetches
func (p AggregationParams) TopHitsSize() int {
	if p.Size <= 0 {
		return constants.DefaultTopHitsSize
	}
	return p.Size
}
