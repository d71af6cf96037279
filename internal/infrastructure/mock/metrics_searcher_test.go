// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/decoder"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockMetricsSearcherRequest(t *testing.T) {
	tests := []struct {
		name     string
		spec     model.AggregationSpec
		expected string
	}{
		{
			name:     "sum",
			spec:     model.AggregationSpec{ID: "1", Type: model.AggregationSum, Params: model.AggregationParams{Field: "bytes"}},
			expected: `{"value": 16128}`,
		},
		{
			name:     "max",
			spec:     model.AggregationSpec{ID: "1", Type: model.AggregationMax, Params: model.AggregationParams{Field: "status"}},
			expected: `{"value": 500}`,
		},
		{
			name:     "avg of a missing field is null",
			spec:     model.AggregationSpec{ID: "1", Type: model.AggregationAvg, Params: model.AggregationParams{Field: "missing"}},
			expected: `{"value": null}`,
		},
		{
			name:     "cardinality",
			spec:     model.AggregationSpec{ID: "1", Type: model.AggregationCardinality, Params: model.AggregationParams{Field: "host"}},
			expected: `{"value": 3}`,
		},
		{
			name:     "median",
			spec:     model.AggregationSpec{ID: "1", Type: model.AggregationMedian, Params: model.AggregationParams{Field: "latency"}},
			expected: `{"values": {"50.0": 120}}`,
		},
		{
			name: "percentiles",
			spec: model.AggregationSpec{ID: "1", Type: model.AggregationPercentiles, Params: model.AggregationParams{
				Field: "latency", Percents: []float64{75, 25},
			}},
			expected: `{"values": {"75.0": 210.25, "25.0": 80}}`,
		},
		{
			name: "percentile ranks",
			spec: model.AggregationSpec{ID: "1", Type: model.AggregationPercentileRanks, Params: model.AggregationParams{
				Field: "latency", Values: []float64{100, 1000},
			}},
			expected: `{"values": {"100.0": 40, "1000.0": 100}}`,
		},
		{
			name: "top hits sorted descending",
			spec: model.AggregationSpec{ID: "1", Type: model.AggregationTopHits, Params: model.AggregationParams{
				Field: "host", Size: 2, SortField: "latency", SortOrder: "desc",
			}},
			expected: `{"hits": {"total": {"value": 5, "relation": "eq"}, "hits": [
				{"_source": {"host": "web-1"}},
				{"_source": {"host": "web-2"}}
			]}}`,
		},
	}

	searcher := NewMockMetricsSearcher()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			envelope, err := searcher.Request(context.Background(), "requests", []model.AggregationSpec{tc.spec})
			require.NoError(t, err)
			assert.Equal(t, int64(5), envelope.Total)
			assert.JSONEq(t, tc.expected, string(envelope.Aggregations["1"]))
		})
	}
}

func TestMockMetricsSearcherKeepsPercentOrder(t *testing.T) {
	envelope, err := NewMockMetricsSearcher().Request(context.Background(), "requests", []model.AggregationSpec{
		{ID: "p", Type: model.AggregationPercentiles, Params: model.AggregationParams{Field: "latency", Percents: []float64{99, 1}}},
	})
	require.NoError(t, err)

	raw := envelope.Aggregations["p"]
	assert.Less(t, bytes.Index(raw, []byte(`"99.0"`)), bytes.Index(raw, []byte(`"1.0"`)))
}

func TestMockMetricsSearcherDecodesEndToEnd(t *testing.T) {
	specs := []model.AggregationSpec{
		{Type: model.AggregationCount},
		{ID: "m", Type: model.AggregationMedian, Params: model.AggregationParams{Field: "duration"}},
		{ID: "t", Type: model.AggregationTopHits, Params: model.AggregationParams{
			Field: "service", Size: 2, SortField: "@timestamp", SortOrder: "asc", Aggregate: model.TopHitsConcatenate,
		}},
		{ID: "e", Type: model.AggregationExtendedStats, Params: model.AggregationParams{Field: "duration"}},
	}

	envelope, err := NewMockMetricsSearcher().Request(context.Background(), "deployments", specs)
	require.NoError(t, err)

	results, err := decoder.DecodeAll(envelope, specs)
	require.NoError(t, err)
	assert.Equal(t, []model.LabeledResult{
		{Label: "Count", Result: int64(2)},
		{Label: "50th percentile of duration", Result: 69.5},
		{Label: "First 2 service", Result: "api, worker"},
		{Label: "Lower Standard Deviation of duration", Result: 14.5},
		{Label: "Upper Standard Deviation of duration", Result: 124.5},
	}, results)
}

func TestMockMetricsSearcherErrors(t *testing.T) {
	searcher := NewMockMetricsSearcher()

	_, err := searcher.Request(context.Background(), "unknown", nil)
	assert.IsType(t, errors.NotFound{}, err)

	_, err = searcher.Request(context.Background(), "requests", []model.AggregationSpec{{ID: "1", Type: model.AggregationAvg}})
	assert.IsType(t, errors.Validation{}, err)

	backendErr := stderrors.New("backend down")
	searcher.SetRequestError(backendErr)
	_, err = searcher.Request(context.Background(), "requests", nil)
	assert.ErrorIs(t, err, backendErr)

	assert.NoError(t, searcher.IsReady(context.Background()))
	searcher.SetIsReadyError(backendErr)
	assert.ErrorIs(t, searcher.IsReady(context.Background()), backendErr)
}

func TestMockMetricsSearcherAddDocuments(t *testing.T) {
	searcher := NewMockMetricsSearcher()
	searcher.AddDocuments("events", Document{"kind": "push"}, Document{"kind": "pull"})

	envelope, err := searcher.Request(context.Background(), "events", []model.AggregationSpec{{Type: model.AggregationCount}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), envelope.Total)
	assert.Empty(t, envelope.Aggregations)
}

func TestMockVisualizationStore(t *testing.T) {
	store := NewMockVisualizationStore()

	err := store.SaveVisualization(context.Background(), model.Visualization{ID: "v1", Title: "Latency"})
	require.NoError(t, err)

	saved, ok := store.Visualization("v1")
	assert.True(t, ok)
	assert.Equal(t, "Latency", saved.Title)

	saveErr := stderrors.New("disk full")
	store.SetSaveError(saveErr)
	assert.ErrorIs(t, store.SaveVisualization(context.Background(), model.Visualization{ID: "v2"}), saveErr)

	_, ok = store.Visualization("v2")
	assert.False(t, ok)
}
