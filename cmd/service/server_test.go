// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/infrastructure/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goahttp "goa.design/goa/v3/http"
)

// emptySearcher answers every request with no aggregations
type emptySearcher struct{}

func (emptySearcher) Request(ctx context.Context, index string, specs []model.AggregationSpec) (*model.SearchEnvelope, error) {
	return &model.SearchEnvelope{Total: 1}, nil
}

func (emptySearcher) IsReady(ctx context.Context) error {
	return nil
}

func newTestHandler(searcher port.MetricsSearcher, store port.VisualizationStore) http.Handler {
	mux := goahttp.NewMuxer()
	server := NewServer(
		NewMetricsSvc(searcher, store),
		mux,
		goahttp.RequestDecoder,
		goahttp.ResponseEncoder,
		func(context.Context, http.ResponseWriter, error) {},
	)
	Mount(mux, server)
	return mux
}

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerGetAggsResults(t *testing.T) {
	tests := []struct {
		name           string
		searcher       func() port.MetricsSearcher
		path           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "decodes every aggregation in order",
			searcher: func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:     "/metrics/requests/results",
			body: `{"aggregations": [
				{"type": "count"},
				{"id": "1", "type": "sum", "params": {"field": "bytes"}},
				{"id": "2", "type": "percentiles", "params": {"field": "latency", "percents": [75, 25]}},
				{"id": "3", "type": "top_hits", "params": {"field": "host", "size": 2, "sortField": "latency", "sortOrder": "desc", "aggregate": "Concatenate"}}
			]}`,
			expectedStatus: http.StatusOK,
			expectedBody: `{"results": [
				{"label": "Count", "result": 5},
				{"label": "Average bytes", "result": 16128},
				{"label": "75.0th percentile of latency", "result": 210.25},
				{"label": "25.0th percentile of latency", "result": 80},
				{"label": "Last 2 host", "result": "web-1, web-2"}
			]}`,
		},
		{
			name:           "no data is a null result",
			searcher:       func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:           "/metrics/requests/results",
			body:           `{"aggregations": [{"id": "1", "type": "avg", "params": {"field": "missing"}}]}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"results": [{"label": "Average missing", "result": null}]}`,
		},
		{
			name:           "empty aggregation list",
			searcher:       func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:           "/metrics/requests/results",
			body:           `{"aggregations": []}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"results": []}`,
		},
		{
			name:           "unknown index",
			searcher:       func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:           "/metrics/nowhere/results",
			body:           `{"aggregations": [{"type": "count"}]}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown aggregation type",
			searcher:       func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:           "/metrics/requests/results",
			body:           `{"aggregations": [{"id": "1", "type": "geo_bounds", "params": {"field": "location"}}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing aggregations",
			searcher:       func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:           "/metrics/requests/results",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message": "aggregations are required"}`,
		},
		{
			name:           "missing body",
			searcher:       func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:           "/metrics/requests/results",
			body:           "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message": "missing request body"}`,
		},
		{
			name:           "malformed body",
			searcher:       func() port.MetricsSearcher { return mock.NewMockMetricsSearcher() },
			path:           "/metrics/requests/results",
			body:           `{"aggregations": [`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "aggregation missing from the response",
			searcher:       func() port.MetricsSearcher { return emptySearcher{} },
			path:           "/metrics/requests/results",
			body:           `{"aggregations": [{"id": "1", "type": "max", "params": {"field": "bytes"}}]}`,
			expectedStatus: http.StatusBadGateway,
		},
		{
			name: "backend failure",
			searcher: func() port.MetricsSearcher {
				searcher := mock.NewMockMetricsSearcher()
				searcher.SetRequestError(stderrors.New("connection reset"))
				return searcher
			},
			path:           "/metrics/requests/results",
			body:           `{"aggregations": [{"type": "count"}]}`,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message": "connection reset"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestHandler(tc.searcher(), mock.NewMockVisualizationStore())

			rec := serve(handler, http.MethodPost, tc.path, tc.body)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestServerSaveMetric(t *testing.T) {
	t.Run("generates an id when absent", func(t *testing.T) {
		store := mock.NewMockVisualizationStore()
		handler := newTestHandler(mock.NewMockMetricsSearcher(), store)

		rec := serve(handler, http.MethodPost, "/visualizations", `{
			"title": "Latency",
			"index": "requests",
			"aggregations": [{"id": "1", "type": "median", "params": {"field": "latency"}}],
			"options": {"chart": "line"}
		}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var res SaveMetricResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		_, err := uuid.Parse(res.ID)
		assert.NoError(t, err)

		saved, ok := store.Visualization(res.ID)
		require.True(t, ok)
		assert.Equal(t, "Latency", saved.Title)
		assert.Equal(t, []model.AggregationSpec{
			{ID: "1", Type: model.AggregationMedian, Params: model.AggregationParams{Field: "latency"}},
		}, saved.Aggregations)
		assert.Equal(t, map[string]any{"chart": "line"}, saved.Options)
	})

	t.Run("keeps the given id", func(t *testing.T) {
		store := mock.NewMockVisualizationStore()
		handler := newTestHandler(mock.NewMockMetricsSearcher(), store)

		rec := serve(handler, http.MethodPost, "/visualizations", `{"id": "dashboard-1", "title": "Count", "index": "requests", "aggregations": [{"type": "count"}]}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id": "dashboard-1"}`, rec.Body.String())

		_, ok := store.Visualization("dashboard-1")
		assert.True(t, ok)
	})

	t.Run("index is required", func(t *testing.T) {
		handler := newTestHandler(mock.NewMockMetricsSearcher(), mock.NewMockVisualizationStore())

		rec := serve(handler, http.MethodPost, "/visualizations", `{"title": "Count"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store := mock.NewMockVisualizationStore()
		store.SetSaveError(stderrors.New("index is read-only"))
		handler := newTestHandler(mock.NewMockMetricsSearcher(), store)

		rec := serve(handler, http.MethodPost, "/visualizations", `{"title": "Count", "index": "requests"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message": "index is read-only"}`, rec.Body.String())
	})
}

func TestServerHealthChecks(t *testing.T) {
	searcher := mock.NewMockMetricsSearcher()
	store := mock.NewMockVisualizationStore()
	handler := newTestHandler(searcher, store)

	rec := serve(handler, http.MethodGet, "/livez", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = serve(handler, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	store.SetIsReadyError(stderrors.New("store offline"))
	rec = serve(handler, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message": "service not ready: store offline"}`, rec.Body.String())

	// liveness does not depend on the backends
	rec = serve(handler, http.MethodGet, "/livez", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerExposesPrometheusMetrics(t *testing.T) {
	handler := newTestHandler(mock.NewMockMetricsSearcher(), mock.NewMockVisualizationStore())

	rec := serve(handler, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewServerMounts(t *testing.T) {
	server := NewServer(NewMetricsSvc(mock.NewMockMetricsSearcher(), mock.NewMockVisualizationStore()),
		goahttp.NewMuxer(), goahttp.RequestDecoder, goahttp.ResponseEncoder, nil)

	patterns := make([]string, 0, len(server.Mounts))
	for _, m := range server.Mounts {
		patterns = append(patterns, m.Verb+" "+m.Pattern)
	}
	assert.Equal(t, []string{
		"POST /metrics/{index}/results",
		"POST /visualizations",
		"GET /readyz",
		"GET /livez",
		"GET /metrics",
	}, patterns)
}
