// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
)

var defaultPercents = []float64{1, 5, 25, 50, 75, 95, 99}

// aggregate computes the sub-result a search backend would return for spec
func aggregate(docs []Document, spec model.AggregationSpec) (json.RawMessage, error) {
	field := spec.Params.Field
	if field == "" {
		return nil, errors.NewValidation(fmt.Sprintf("aggregation %q of type %q requires a field", spec.ID, spec.Type))
	}

	switch spec.Type {
	case model.AggregationAvg:
		return singleValue(numbers(docs, field), func(v []float64) float64 { return sum(v) / float64(len(v)) })
	case model.AggregationSum:
		values := numbers(docs, field)
		return json.Marshal(map[string]float64{"value": sum(values)})
	case model.AggregationMin:
		return singleValue(numbers(docs, field), func(v []float64) float64 { return slices.Min(v) })
	case model.AggregationMax:
		return singleValue(numbers(docs, field), func(v []float64) float64 { return slices.Max(v) })
	case model.AggregationCardinality:
		return json.Marshal(map[string]int{"value": cardinality(docs, field)})
	case model.AggregationExtendedStats:
		return extendedStats(numbers(docs, field))
	case model.AggregationMedian:
		return percentiles(numbers(docs, field), []float64{50})
	case model.AggregationPercentiles:
		percents := spec.Params.Percents
		if len(percents) == 0 {
			percents = defaultPercents
		}
		return percentiles(numbers(docs, field), percents)
	case model.AggregationPercentileRanks:
		return percentileRanks(numbers(docs, field), spec.Params.Values)
	case model.AggregationTopHits:
		return topHits(docs, spec.Params)
	default:
		return nil, errors.NewValidation(fmt.Sprintf("unsupported aggregation type %q for aggregation %q", spec.Type, spec.ID))
	}
}

// numbers returns the numeric values of field, skipping documents without one
func numbers(docs []Document, field string) []float64 {
	values := make([]float64, 0, len(docs))
	for _, doc := range docs {
		if v, ok := toFloat(doc[field]); ok {
			values = append(values, v)
		}
	}
	return values
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// singleValue writes {"value": null} when there is nothing to aggregate
func singleValue(values []float64, fn func([]float64) float64) (json.RawMessage, error) {
	if len(values) == 0 {
		return json.RawMessage(`{"value":null}`), nil
	}
	return json.Marshal(map[string]float64{"value": fn(values)})
}

func cardinality(docs []Document, field string) int {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		seen[fmt.Sprint(v)] = struct{}{}
	}
	return len(seen)
}

func extendedStats(values []float64) (json.RawMessage, error) {
	stats := map[string]any{
		"count":          len(values),
		"min":            nil,
		"max":            nil,
		"avg":            nil,
		"sum":            sum(values),
		"sum_of_squares": nil,
		"variance":       nil,
		"std_deviation":  nil,
		"std_deviation_bounds": map[string]any{
			"upper": nil,
			"lower": nil,
		},
	}
	if len(values) == 0 {
		return json.Marshal(stats)
	}

	avg := sum(values) / float64(len(values))
	var squares float64
	for _, v := range values {
		squares += v * v
	}
	variance := math.Max(squares/float64(len(values))-avg*avg, 0)

	stats["min"] = slices.Min(values)
	stats["max"] = slices.Max(values)
	stats["avg"] = avg
	stats["sum_of_squares"] = squares
	stats["variance"] = variance
	stdDeviation := math.Sqrt(variance)
	stats["std_deviation"] = stdDeviation
	stats["std_deviation_bounds"] = map[string]any{
		"upper": avg + 2*stdDeviation,
		"lower": avg - 2*stdDeviation,
	}
	return json.Marshal(stats)
}

// percentiles interpolates linearly between the closest ranks
func percentiles(values []float64, percents []float64) (json.RawMessage, error) {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return valuesObject(percents, func(p float64) (float64, bool) {
		if len(sorted) == 0 {
			return 0, false
		}
		rank := p / 100 * float64(len(sorted)-1)
		lower := int(math.Floor(rank))
		upper := int(math.Ceil(rank))
		if upper >= len(sorted) {
			upper = len(sorted) - 1
		}
		return sorted[lower] + (sorted[upper]-sorted[lower])*(rank-float64(lower)), true
	})
}

// percentileRanks reports the share of values at or below each value
func percentileRanks(values []float64, targets []float64) (json.RawMessage, error) {
	return valuesObject(targets, func(target float64) (float64, bool) {
		if len(values) == 0 {
			return 0, false
		}
		var below int
		for _, v := range values {
			if v <= target {
				below++
			}
		}
		return float64(below) / float64(len(values)) * 100, true
	})
}

// valuesObject writes {"values": {...}} keeping keys in request order
func valuesObject(keys []float64, compute func(float64) (float64, bool)) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"values":{`)
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(percentKey(key))
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		value, ok := compute(key)
		if !ok {
			buf.WriteString("null")
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// percentKey formats keys the way search backends do: 50 becomes "50.0"
func percentKey(p float64) string {
	key := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(key, ".") {
		key += ".0"
	}
	return key
}

type hit struct {
	Source map[string]any `json:"_source"`
}

func topHits(docs []Document, params model.AggregationParams) (json.RawMessage, error) {
	ordered := slices.Clone(docs)
	if params.SortField != "" {
		desc := params.SortOrder != constants.SortOrderAsc
		slices.SortStableFunc(ordered, func(a, b Document) int {
			order := compareValues(a[params.SortField], b[params.SortField])
			if desc {
				return -order
			}
			return order
		})
	}

	size := params.TopHitsSize()
	if size > len(ordered) {
		size = len(ordered)
	}

	hits := make([]hit, 0, size)
	for _, doc := range ordered[:size] {
		source := map[string]any{}
		if v, ok := doc[params.Field]; ok {
			source[params.Field] = v
		}
		hits = append(hits, hit{Source: source})
	}

	return json.Marshal(map[string]any{
		"hits": map[string]any{
			"total": map[string]any{"value": len(docs), "relation": "eq"},
			"hits":  hits,
		},
	})
}

// compareValues orders numbers before strings and missing values last
func compareValues(a, b any) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	switch {
	case aNum && bNum:
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}

	as, aStr := a.(string)
	bs, bStr := b.(string)
	switch {
	case aStr && bStr:
		return strings.Compare(as, bs)
	case aStr:
		return -1
	case bStr:
		return 1
	}
	return 0
}
