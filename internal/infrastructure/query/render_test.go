// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package query

import (
	"context"
	"testing"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		specs    []model.AggregationSpec
		expected string
	}{
		{
			name:     "count only",
			specs:    []model.AggregationSpec{{Type: model.AggregationCount}},
			expected: `{"size": 0, "track_total_hits": true}`,
		},
		{
			name:     "no aggregations",
			specs:    nil,
			expected: `{"size": 0, "track_total_hits": true}`,
		},
		{
			name: "single value metrics",
			specs: []model.AggregationSpec{
				{ID: "1", Type: model.AggregationAvg, Params: model.AggregationParams{Field: "price"}},
				{Type: model.AggregationCount},
				{ID: "2", Type: model.AggregationCardinality, Params: model.AggregationParams{Field: "user.id"}},
				{ID: "3", Type: model.AggregationExtendedStats, Params: model.AggregationParams{Field: "cpu"}},
			},
			expected: `{
				"size": 0,
				"track_total_hits": true,
				"aggs": {
					"1": {"avg": {"field": "price"}},
					"2": {"cardinality": {"field": "user.id"}},
					"3": {"extended_stats": {"field": "cpu"}}
				}
			}`,
		},
		{
			name: "percentile family",
			specs: []model.AggregationSpec{
				{ID: "m", Type: model.AggregationMedian, Params: model.AggregationParams{Field: "load"}},
				{ID: "p", Type: model.AggregationPercentiles, Params: model.AggregationParams{Field: "latency", Percents: []float64{95, 99.9}}},
				{ID: "d", Type: model.AggregationPercentiles, Params: model.AggregationParams{Field: "latency"}},
				{ID: "r", Type: model.AggregationPercentileRanks, Params: model.AggregationParams{Field: "latency", Values: []float64{200, 500}}},
			},
			expected: `{
				"size": 0,
				"track_total_hits": true,
				"aggs": {
					"m": {"percentiles": {"field": "load", "percents": [50]}},
					"p": {"percentiles": {"field": "latency", "percents": [95, 99.9]}},
					"d": {"percentiles": {"field": "latency"}},
					"r": {"percentile_ranks": {"field": "latency", "values": [200, 500]}}
				}
			}`,
		},
		{
			name: "top hits",
			specs: []model.AggregationSpec{
				{ID: "t", Type: model.AggregationTopHits, Params: model.AggregationParams{
					Field: "host", Size: 3, SortField: "@timestamp", SortOrder: "asc", Aggregate: model.TopHitsConcatenate,
				}},
				{ID: "u", Type: model.AggregationTopHits, Params: model.AggregationParams{Field: "bytes"}},
			},
			expected: `{
				"size": 0,
				"track_total_hits": true,
				"aggs": {
					"t": {"top_hits": {"size": 3, "_source": {"includes": ["host"]}, "sort": [{"@timestamp": {"order": "asc"}}]}},
					"u": {"top_hits": {"size": 1, "_source": {"includes": ["bytes"]}}}
				}
			}`,
		},
		{
			name: "ids are escaped",
			specs: []model.AggregationSpec{
				{ID: `a"b`, Type: model.AggregationMax, Params: model.AggregationParams{Field: "x"}},
			},
			expected: `{"size": 0, "track_total_hits": true, "aggs": {"a\"b": {"max": {"field": "x"}}}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, err := Render(context.Background(), tc.specs)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(body))
		})
	}
}

func TestRenderRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		spec model.AggregationSpec
	}{
		{
			name: "missing field",
			spec: model.AggregationSpec{ID: "1", Type: model.AggregationAvg},
		},
		{
			name: "percentile ranks without values",
			spec: model.AggregationSpec{ID: "1", Type: model.AggregationPercentileRanks, Params: model.AggregationParams{Field: "x"}},
		},
		{
			name: "unknown type",
			spec: model.AggregationSpec{ID: "1", Type: "geo_bounds", Params: model.AggregationParams{Field: "x"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, err := Render(context.Background(), []model.AggregationSpec{tc.spec})
			assert.Nil(t, body)
			assert.IsType(t, errors.Validation{}, err)
		})
	}
}
