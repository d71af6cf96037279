// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (

	// MedianPercentileKey is the key under which the backend reports the
	// 50th percentile of a percentiles aggregation
	MedianPercentileKey = "50.0"

	// TopHitsSeparator joins hit values for the Concatenate reduction
	TopHitsSeparator = ", "

	// SortOrderAsc selects the "First" label of a top hits aggregation
	SortOrderAsc = "asc"

	// DefaultTopHitsSize is the number of hits fetched when a top hits
	// aggregation does not set a size
	DefaultTopHitsSize = 1
)
