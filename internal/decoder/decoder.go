// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package decoder turns a backend search response into labeled rows, one
// decoding strategy per aggregation type.
package decoder

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"

	"github.com/buger/jsonparser"
)

// decodeFunc decodes the rows of a single aggregation
type decodeFunc func(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error)

var strategies = map[model.AggregationType]decodeFunc{
	model.AggregationCount:           decodeCount,
	model.AggregationAvg:             decodeSingleValue,
	model.AggregationSum:             decodeSingleValue,
	model.AggregationMin:             decodeSingleValue,
	model.AggregationMax:             decodeSingleValue,
	model.AggregationCardinality:     decodeSingleValue,
	model.AggregationMedian:          decodeMedian,
	model.AggregationExtendedStats:   decodeExtendedStats,
	model.AggregationPercentiles:     decodePercentiles,
	model.AggregationPercentileRanks: decodePercentileRanks,
	model.AggregationTopHits:         decodeTopHits,
}

// Supports reports whether the decoder has a strategy for the type.
func Supports(aggType model.AggregationType) bool {
	_, ok := strategies[aggType]
	return ok
}

// Decode returns the rows of one aggregation, in the order they are displayed.
func Decode(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error) {
	decode, ok := strategies[spec.Type]
	if !ok {
		return nil, errors.NewValidation(fmt.Sprintf("unsupported aggregation type %q for aggregation %q", spec.Type, spec.ID))
	}
	if envelope == nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "empty search response")
	}
	return decode(envelope, spec)
}

// DecodeAll concatenates the rows of every aggregation in spec order. The
// first aggregation that fails to decode fails the whole call.
func DecodeAll(envelope *model.SearchEnvelope, specs []model.AggregationSpec) ([]model.LabeledResult, error) {
	results := make([]model.LabeledResult, 0, len(specs))
	for _, spec := range specs {
		rows, err := Decode(envelope, spec)
		if err != nil {
			return nil, err
		}
		results = append(results, rows...)
	}
	return results, nil
}

func decodeCount(envelope *model.SearchEnvelope, _ model.AggregationSpec) ([]model.LabeledResult, error) {
	return []model.LabeledResult{
		{Label: "Count", Result: envelope.Total},
	}, nil
}

// decodeSingleValue serves avg, sum, min, max and cardinality. All five
// share the "Average" label.
func decodeSingleValue(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error) {
	raw, err := subResult(envelope, spec)
	if err != nil {
		return nil, err
	}

	value, err := numberOrNull(raw, "value")
	if err != nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "invalid value", err)
	}

	return []model.LabeledResult{
		{Label: "Average " + spec.Params.Field, Result: value},
	}, nil
}

func decodeMedian(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error) {
	raw, err := subResult(envelope, spec)
	if err != nil {
		return nil, err
	}

	value, err := numberOrNull(raw, "values", constants.MedianPercentileKey)
	if err != nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "invalid median", err)
	}

	return []model.LabeledResult{
		{Label: "50th percentile of " + spec.Params.Field, Result: value},
	}, nil
}

func decodeExtendedStats(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error) {
	raw, err := subResult(envelope, spec)
	if err != nil {
		return nil, err
	}

	lower, err := numberOrNull(raw, "std_deviation_bounds", "lower")
	if err != nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "invalid lower standard deviation bound", err)
	}
	upper, err := numberOrNull(raw, "std_deviation_bounds", "upper")
	if err != nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "invalid upper standard deviation bound", err)
	}

	return []model.LabeledResult{
		{Label: "Lower Standard Deviation of " + spec.Params.Field, Result: lower},
		{Label: "Upper Standard Deviation of " + spec.Params.Field, Result: upper},
	}, nil
}

// subResult returns the raw sub-result of the aggregation
func subResult(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]byte, error) {
	raw, ok := envelope.Aggregations[spec.ID]
	if !ok || len(raw) == 0 {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "aggregation missing from search response")
	}
	return raw, nil
}

// numberOrNull reads a numeric leaf. JSON null is what the backend reports
// for a metric over no documents and is returned as nil.
func numberOrNull(raw []byte, keys ...string) (any, error) {
	value, dataType, _, err := jsonparser.Get(raw, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", keys, err)
	}

	switch dataType {
	case jsonparser.Number:
		number, errParse := jsonparser.ParseFloat(value)
		if errParse != nil {
			return nil, fmt.Errorf("failed to parse %v: %w", keys, errParse)
		}
		return number, nil
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected a number at %v, got %s", keys, dataType)
	}
}
