// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package query renders the search body shared by the OpenSearch and
// Elasticsearch searchers.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
)

var aggregationQueryTemplate = template.Must(
	template.New("aggregationQuery").
		Funcs(template.FuncMap{
			"json": toJSON,
		}).
		Parse(aggregationQuerySource))

// namedAggregation is one entry of the "aggs" object
type namedAggregation struct {
	ID   string
	Body map[string]any
}

type templateData struct {
	Aggregations []namedAggregation
}

// Render builds the search body for the given aggregations. Count needs no
// aggregation since it reads hits.total.
func Render(ctx context.Context, specs []model.AggregationSpec) ([]byte, error) {
	data := templateData{
		Aggregations: make([]namedAggregation, 0, len(specs)),
	}

	for _, spec := range specs {
		if spec.Type == model.AggregationCount {
			continue
		}
		body, err := aggregationBody(spec)
		if err != nil {
			slog.ErrorContext(ctx, "failed to build aggregation body",
				"aggregation_id", spec.ID,
				"aggregation_type", spec.Type,
				"error", err,
			)
			return nil, err
		}
		data.Aggregations = append(data.Aggregations, namedAggregation{ID: spec.ID, Body: body})
	}

	var buf bytes.Buffer
	if err := aggregationQueryTemplate.Execute(&buf, data); err != nil {
		slog.ErrorContext(ctx, "failed to render query template", "error", err)
		return nil, err
	}

	// compact also validates the rendered document
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, buf.Bytes()); err != nil {
		slog.ErrorContext(ctx, "rendered query is not valid JSON", "error", err, "query", buf.String())
		return nil, err
	}

	slog.DebugContext(ctx, "rendered aggregation query",
		"query", compacted.String(),
	)
	return compacted.Bytes(), nil
}

// aggregationBody maps a spec to the backend aggregation DSL
func aggregationBody(spec model.AggregationSpec) (map[string]any, error) {
	params := spec.Params
	if params.Field == "" {
		return nil, errors.NewValidation(fmt.Sprintf("aggregation %q of type %q requires a field", spec.ID, spec.Type))
	}

	switch spec.Type {
	case model.AggregationAvg,
		model.AggregationSum,
		model.AggregationMin,
		model.AggregationMax,
		model.AggregationCardinality,
		model.AggregationExtendedStats:
		return map[string]any{
			string(spec.Type): map[string]any{"field": params.Field},
		}, nil

	case model.AggregationMedian:
		return map[string]any{
			"percentiles": map[string]any{
				"field":    params.Field,
				"percents": []float64{50},
			},
		}, nil

	case model.AggregationPercentiles:
		body := map[string]any{"field": params.Field}
		if len(params.Percents) > 0 {
			body["percents"] = params.Percents
		}
		return map[string]any{"percentiles": body}, nil

	case model.AggregationPercentileRanks:
		if len(params.Values) == 0 {
			return nil, errors.NewValidation(fmt.Sprintf("aggregation %q of type %q requires values", spec.ID, spec.Type))
		}
		return map[string]any{
			"percentile_ranks": map[string]any{
				"field":  params.Field,
				"values": params.Values,
			},
		}, nil

	case model.AggregationTopHits:
		body := map[string]any{
			"size": params.TopHitsSize(),
			"_source": map[string]any{
				"includes": []string{params.Field},
			},
		}
		if params.SortField != "" {
			order := params.SortOrder
			if order == "" {
				order = "desc"
			}
			body["sort"] = []map[string]any{
				{params.SortField: map[string]any{"order": order}},
			}
		}
		return map[string]any{"top_hits": body}, nil

	default:
		return nil, errors.NewValidation(fmt.Sprintf("unsupported aggregation type %q for aggregation %q", spec.Type, spec.ID))
	}
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
