// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"fmt"
)

// LabeledResult is a single displayable row
type LabeledResult struct {
	Label string `json:"label"`
	// Result is a number, a string or nil
	Result any `json:"result"`
}

// SearchEnvelope is the part of a backend search response the decoder reads
type SearchEnvelope struct {
	// Total is hits.total of the response
	Total int64
	// Aggregations maps aggregation id to its raw sub-result
	Aggregations map[string]json.RawMessage
}

// HitsTotal decodes hits.total both as a bare number and as {"value": n}
type HitsTotal struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (t *HitsTotal) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value = n
		t.Relation = "eq"
		return nil
	}

	type plain HitsTotal
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("invalid hits.total: %w", err)
	}
	*t = HitsTotal(p)
	return nil
}
