// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
)

// Decoding represents a backend response that does not match the shape
// expected for one of the requested aggregations.
type Decoding struct {
	base
	// AggregationID is the id of the aggregation that failed to decode
	AggregationID string
	// AggregationType is the type of the aggregation that failed to decode
	AggregationType string
}

// Error returns the error message for Decoding.
func (d Decoding) Error() string {
	return fmt.Sprintf("aggregation %q (%s): %s", d.AggregationID, d.AggregationType, d.error())
}

// Unwrap exposes the underlying cause.
func (d Decoding) Unwrap() error {
	return d.err
}

// NewDecoding creates a new Decoding error for the given aggregation.
func NewDecoding(aggregationID, aggregationType, message string, err ...error) Decoding {
	return Decoding{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
		AggregationID:   aggregationID,
		AggregationType: aggregationType,
	}
}
