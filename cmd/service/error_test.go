// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name                 string
		inputError           error
		expectedStatus       int
		expectedErrorMessage string
	}{
		{
			name:                 "validation error",
			inputError:           pkgerrors.NewValidation("invalid input"),
			expectedStatus:       http.StatusBadRequest,
			expectedErrorMessage: "invalid input",
		},
		{
			name:                 "validation error with wrapped error",
			inputError:           pkgerrors.NewValidation("validation failed", errors.New("underlying error")),
			expectedStatus:       http.StatusBadRequest,
			expectedErrorMessage: "validation failed: underlying error",
		},
		{
			name:                 "not found error",
			inputError:           pkgerrors.NewNotFound("index not found"),
			expectedStatus:       http.StatusNotFound,
			expectedErrorMessage: "index not found",
		},
		{
			name:                 "decoding error",
			inputError:           pkgerrors.NewDecoding("7", "percentiles", "invalid values", errors.New("expected a number")),
			expectedStatus:       http.StatusBadGateway,
			expectedErrorMessage: `aggregation "7" (percentiles): invalid values: expected a number`,
		},
		{
			name:                 "service unavailable error",
			inputError:           pkgerrors.NewServiceUnavailable("service down"),
			expectedStatus:       http.StatusServiceUnavailable,
			expectedErrorMessage: "service down",
		},
		{
			name:                 "wrapped domain error keeps its status",
			inputError:           fmt.Errorf("failed to render query: %w", pkgerrors.NewValidation("aggregation \"1\" requires values")),
			expectedStatus:       http.StatusBadRequest,
			expectedErrorMessage: `failed to render query: aggregation "1" requires values`,
		},
		{
			name:                 "generic error becomes internal server error",
			inputError:           errors.New("opensearch search failed"),
			expectedStatus:       http.StatusInternalServerError,
			expectedErrorMessage: "opensearch search failed",
		},
		{
			name:                 "nil error",
			inputError:           nil,
			expectedStatus:       http.StatusInternalServerError,
			expectedErrorMessage: "unknown error",
		},
		{
			name:                 "already mapped error is kept",
			inputError:           &StatusError{Status: http.StatusTeapot, Message: "short and stout"},
			expectedStatus:       http.StatusTeapot,
			expectedErrorMessage: "short and stout",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := wrapError(context.Background(), tc.inputError)

			assert.Equal(t, tc.expectedStatus, result.StatusCode())
			assert.Equal(t, tc.expectedErrorMessage, result.Error())
		})
	}
}
