// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package decoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"

	"github.com/buger/jsonparser"
)

func decodeTopHits(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error) {
	raw, err := subResult(envelope, spec)
	if err != nil {
		return nil, err
	}

	values, err := hitValues(raw, spec.Params.Field)
	if err != nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "invalid top hits", err)
	}

	result, err := ReduceHits(values, spec.Params.Aggregate)
	if err != nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "failed to reduce top hits", err)
	}

	orderLabel := "Last"
	if spec.Params.SortOrder == constants.SortOrderAsc {
		orderLabel = "First"
	}

	return []model.LabeledResult{
		{
			Label:  fmt.Sprintf("%s %d %s", orderLabel, spec.Params.TopHitsSize(), spec.Params.Field),
			Result: result,
		},
	}, nil
}

// hitValues collects _source[field] of every hit, in hit order. Values are
// float64, string or bool.
func hitValues(raw []byte, field string) ([]any, error) {
	var (
		values  []any
		errEach error
	)

	_, err := jsonparser.ArrayEach(raw, func(hit []byte, _ jsonparser.ValueType, _ int, errHit error) {
		if errEach != nil {
			return
		}
		if errHit != nil {
			errEach = errHit
			return
		}

		value, dataType, _, errGet := jsonparser.Get(hit, "_source", field)
		if errGet != nil {
			errEach = fmt.Errorf("hit %d: failed to read _source.%s: %w", len(values), field, errGet)
			return
		}

		switch dataType {
		case jsonparser.Number:
			number, errParse := jsonparser.ParseFloat(value)
			if errParse != nil {
				errEach = fmt.Errorf("hit %d: %w", len(values), errParse)
				return
			}
			values = append(values, number)
		case jsonparser.String:
			text, errParse := jsonparser.ParseString(value)
			if errParse != nil {
				errEach = fmt.Errorf("hit %d: %w", len(values), errParse)
				return
			}
			values = append(values, text)
		case jsonparser.Boolean:
			flag, errParse := jsonparser.ParseBoolean(value)
			if errParse != nil {
				errEach = fmt.Errorf("hit %d: %w", len(values), errParse)
				return
			}
			values = append(values, flag)
		default:
			errEach = fmt.Errorf("hit %d: _source.%s is a %s, expected a scalar", len(values), field, dataType)
		}
	}, "hits", "hits")
	if err != nil {
		return nil, err
	}
	if errEach != nil {
		return nil, errEach
	}

	return values, nil
}

// ReduceHits applies the client-side aggregate to the hit values. An
// unsupported aggregate yields nil.
func ReduceHits(values []any, aggregate model.TopHitsAggregate) (any, error) {
	switch aggregate {
	case model.TopHitsConcatenate:
		return concatenate(values), nil
	case model.TopHitsSum:
		return sum(values)
	case model.TopHitsAverage:
		if len(values) == 0 {
			return float64(0), nil
		}
		total, err := sum(values)
		if err != nil {
			return nil, err
		}
		return total / float64(len(values)), nil
	case model.TopHitsMax:
		return extremum(values, func(order int) bool { return order > 0 })
	case model.TopHitsMin:
		return extremum(values, func(order int) bool { return order < 0 })
	default:
		return nil, nil
	}
}

func concatenate(values []any) string {
	parts := make([]string, len(values))
	for i, value := range values {
		switch v := value.(type) {
		case float64:
			parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			parts[i] = v
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, constants.TopHitsSeparator)
}

func sum(values []any) (float64, error) {
	var total float64
	for i, value := range values {
		number, ok := value.(float64)
		if !ok {
			return 0, fmt.Errorf("hit %d: cannot sum %T value", i, value)
		}
		total += number
	}
	return total, nil
}

// extremum keeps each value for which better(compare(value, current))
// holds. The first value seeds the comparison through the seen flag, so zero
// and empty values are valid extremes.
func extremum(values []any, better func(order int) bool) (any, error) {
	var (
		current any
		seen    bool
	)
	for i, value := range values {
		if !seen {
			current = value
			seen = true
			continue
		}
		order, err := compare(value, current)
		if err != nil {
			return nil, fmt.Errorf("hit %d: %w", i, err)
		}
		if better(order) {
			current = value
		}
	}
	return current, nil
}

// compare returns -1, 0 or 1. Numbers compare numerically and strings
// lexicographically.
func compare(a, b any) (int, error) {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			default:
				return 0, nil
			}
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}
