// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
)

// AggregationPayload is one aggregation of a request body
type AggregationPayload struct {
	ID     string                    `json:"id"`
	Type   string                    `json:"type"`
	Params *AggregationParamsPayload `json:"params,omitempty"`
}

// AggregationParamsPayload carries the type specific parameters
type AggregationParamsPayload struct {
	Field     string    `json:"field,omitempty"`
	Size      int       `json:"size,omitempty"`
	SortOrder string    `json:"sortOrder,omitempty"`
	SortField string    `json:"sortField,omitempty"`
	Aggregate string    `json:"aggregate,omitempty"`
	Percents  []float64 `json:"percents,omitempty"`
	Values    []float64 `json:"values,omitempty"`
}

// GetAggsResultsPayload is the body of the aggregation results endpoint
type GetAggsResultsPayload struct {
	Aggregations []*AggregationPayload `json:"aggregations"`
}

// GetAggsResultsResult is the response of the aggregation results endpoint
type GetAggsResultsResult struct {
	Results []*LabeledResult `json:"results"`
}

// LabeledResult is one decoded row
type LabeledResult struct {
	Label  string `json:"label"`
	Result any    `json:"result"`
}

// SaveMetricPayload is the body of the visualization endpoint
type SaveMetricPayload struct {
	ID           string                `json:"id,omitempty"`
	Title        string                `json:"title"`
	Index        string                `json:"index"`
	Aggregations []*AggregationPayload `json:"aggregations"`
	Options      map[string]any        `json:"options,omitempty"`
}

// SaveMetricResult is the response of the visualization endpoint
type SaveMetricResult struct {
	ID string `json:"id"`
}

// payloadToSpecs converts the request aggregations to domain specs
func payloadToSpecs(aggregations []*AggregationPayload) ([]model.AggregationSpec, error) {
	specs := make([]model.AggregationSpec, 0, len(aggregations))
	for i, p := range aggregations {
		if p == nil {
			return nil, errors.NewValidation(fmt.Sprintf("aggregation %d is empty", i))
		}

		spec := model.AggregationSpec{
			ID:   p.ID,
			Type: model.AggregationType(strings.TrimSpace(p.Type)),
		}
		if p.Params != nil {
			spec.Params = model.AggregationParams{
				Field:     p.Params.Field,
				Size:      p.Params.Size,
				SortOrder: p.Params.SortOrder,
				SortField: p.Params.SortField,
				Aggregate: model.TopHitsAggregate(p.Params.Aggregate),
				Percents:  p.Params.Percents,
				Values:    p.Params.Values,
			}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// payloadToVisualization converts the request body to a domain visualization
func payloadToVisualization(p *SaveMetricPayload) (model.Visualization, error) {
	if p.Index == "" {
		return model.Visualization{}, errors.NewValidation("visualization index is required")
	}

	specs, err := payloadToSpecs(p.Aggregations)
	if err != nil {
		return model.Visualization{}, err
	}

	return model.Visualization{
		ID:           p.ID,
		Title:        p.Title,
		Index:        p.Index,
		Aggregations: specs,
		Options:      p.Options,
	}, nil
}

// domainResultsToResponse converts decoded rows to the response body
func domainResultsToResponse(results []model.LabeledResult) *GetAggsResultsResult {
	res := &GetAggsResultsResult{
		Results: make([]*LabeledResult, 0, len(results)),
	}
	for _, r := range results {
		res.Results = append(res.Results, &LabeledResult{
			Label:  r.Label,
			Result: r.Result,
		})
	}
	return res
}
