// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
)

// Document is one indexed record, keyed by literal field name
type Document map[string]any

// MockMetricsSearcher is a mock implementation of MetricsSearcher that
// computes aggregations over in-memory documents and answers with
// backend-shaped sub-results
type MockMetricsSearcher struct {
	mu           sync.RWMutex
	indices      map[string][]Document
	requestError error
	isReadyError error
}

// NewMockMetricsSearcher creates a new mock searcher with some sample data
func NewMockMetricsSearcher() *MockMetricsSearcher {
	return &MockMetricsSearcher{
		indices: map[string][]Document{
			"requests": {
				{"host": "web-1", "status": 200, "latency": 120.0, "bytes": 5120, "@timestamp": "2024-05-01T10:00:00Z"},
				{"host": "web-2", "status": 200, "latency": 80.0, "bytes": 2048, "@timestamp": "2024-05-01T10:01:00Z"},
				{"host": "web-1", "status": 500, "latency": 950.0, "bytes": 512, "@timestamp": "2024-05-01T10:02:00Z"},
				{"host": "web-3", "status": 404, "latency": 35.5, "bytes": 256, "@timestamp": "2024-05-01T10:03:00Z"},
				{"host": "web-2", "status": 200, "latency": 210.25, "bytes": 8192, "@timestamp": "2024-05-01T10:04:00Z"},
			},
			"deployments": {
				{"service": "api", "duration": 42.0, "success": true, "@timestamp": "2024-05-02T08:00:00Z"},
				{"service": "worker", "duration": 97.0, "success": false, "@timestamp": "2024-05-02T09:30:00Z"},
			},
		},
	}
}

// Request implements the MetricsSearcher interface with mock data
func (m *MockMetricsSearcher) Request(ctx context.Context, index string, specs []model.AggregationSpec) (*model.SearchEnvelope, error) {
	slog.DebugContext(ctx, "executing mock aggregation query",
		"index", index,
		"aggregations", len(specs),
	)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.requestError != nil {
		return nil, m.requestError
	}

	docs, ok := m.indices[index]
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("index %q not found", index))
	}

	envelope := &model.SearchEnvelope{
		Total:        int64(len(docs)),
		Aggregations: make(map[string]json.RawMessage, len(specs)),
	}

	for _, spec := range specs {
		if spec.Type == model.AggregationCount {
			continue
		}
		raw, err := aggregate(docs, spec)
		if err != nil {
			return nil, err
		}
		envelope.Aggregations[spec.ID] = raw
	}

	return envelope, nil
}

// IsReady implements the MetricsSearcher interface
func (m *MockMetricsSearcher) IsReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isReadyError
}

// AddDocuments appends documents to index, creating it when missing
func (m *MockMetricsSearcher) AddDocuments(index string, docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indices[index] = append(m.indices[index], docs...)
}

// SetRequestError makes every subsequent Request fail with err
func (m *MockMetricsSearcher) SetRequestError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestError = err
}

// SetIsReadyError sets the error returned by IsReady
func (m *MockMetricsSearcher) SetIsReadyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isReadyError = err
}
