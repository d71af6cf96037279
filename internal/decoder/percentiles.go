// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package decoder

import (
	"fmt"
	"math"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
)

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
)

func decodePercentiles(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error) {
	return decodeValuesMap(envelope, spec, func(key string) string {
		return key + "th percentile of " + spec.Params.Field
	})
}

func decodePercentileRanks(envelope *model.SearchEnvelope, spec model.AggregationSpec) ([]model.LabeledResult, error) {
	return decodeValuesMap(envelope, spec, func(key string) string {
		return "Percentile rank " + key + " of \"" + spec.Params.Field + "\""
	})
}

// decodeValuesMap emits one row per entry of the "values" object, in the
// order the backend wrote them.
func decodeValuesMap(envelope *model.SearchEnvelope, spec model.AggregationSpec, label func(key string) string) ([]model.LabeledResult, error) {
	raw, err := subResult(envelope, spec)
	if err != nil {
		return nil, err
	}

	var results []model.LabeledResult
	errEach := jsonparser.ObjectEach(raw, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, errKey := jsonparser.ParseString(key)
		if errKey != nil {
			return fmt.Errorf("invalid key %q: %w", key, errKey)
		}

		row := model.LabeledResult{Label: label(name)}
		switch dataType {
		case jsonparser.Number:
			number, errParse := jsonparser.ParseFloat(value)
			if errParse != nil {
				return fmt.Errorf("invalid value for key %q: %w", name, errParse)
			}
			row.Result = roundHundredths(number)
		case jsonparser.Null:
		default:
			return fmt.Errorf("expected a number for key %q, got %s", name, dataType)
		}

		results = append(results, row)
		return nil
	}, "values")
	if errEach != nil {
		return nil, errors.NewDecoding(spec.ID, string(spec.Type), "invalid values", errEach)
	}

	return results, nil
}

// roundHundredths rounds half up to two decimals. The scaling is done in
// floating point, so 1.005 (scaled to 100.49999999999999) rounds to 1.
func roundHundredths(v float64) float64 {
	scaled := v * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	rounded, _ := decimal.NewFromFloat(scaled).Add(half).Floor().Div(hundred).Float64()
	return rounded
}
