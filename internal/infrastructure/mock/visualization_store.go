// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
)

// MockVisualizationStore keeps saved visualizations in memory
type MockVisualizationStore struct {
	mu             sync.RWMutex
	visualizations map[string]model.Visualization
	saveError      error
	isReadyError   error
}

// NewMockVisualizationStore creates an empty visualization store
func NewMockVisualizationStore() *MockVisualizationStore {
	return &MockVisualizationStore{
		visualizations: make(map[string]model.Visualization),
	}
}

// SaveVisualization implements the VisualizationStore interface
func (m *MockVisualizationStore) SaveVisualization(ctx context.Context, visualization model.Visualization) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveError != nil {
		return m.saveError
	}

	slog.DebugContext(ctx, "saving mock visualization", "id", visualization.ID)
	m.visualizations[visualization.ID] = visualization
	return nil
}

// IsReady implements the VisualizationStore interface
func (m *MockVisualizationStore) IsReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isReadyError
}

// Visualization returns a saved visualization by id
func (m *MockVisualizationStore) Visualization(id string) (model.Visualization, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	visualization, ok := m.visualizations[id]
	return visualization, ok
}

// SetSaveError makes every subsequent save fail with err
func (m *MockVisualizationStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetIsReadyError sets the error returned by IsReady
func (m *MockVisualizationStore) SetIsReadyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isReadyError = err
}
