// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"
)

// StatusError is an error carrying the HTTP status it is rendered with
type StatusError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *StatusError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code of the error
func (e *StatusError) StatusCode() int {
	return e.Status
}

// wrapError maps domain errors to HTTP errors. Infrastructure wraps errors
// with fmt.Errorf, so the types are looked up along the whole chain.
func wrapError(ctx context.Context, err error) *StatusError {

	f := func(err error) *StatusError {
		if err == nil {
			return &StatusError{
				Status:  http.StatusInternalServerError,
				Message: "unknown error",
			}
		}

		var (
			statusErr   *StatusError
			validation  errors.Validation
			notFound    errors.NotFound
			decoding    errors.Decoding
			unavailable errors.ServiceUnavailable
			status      = http.StatusInternalServerError
		)
		switch {
		case stderrors.As(err, &statusErr):
			return statusErr
		case stderrors.As(err, &validation):
			status = http.StatusBadRequest
		case stderrors.As(err, &notFound):
			status = http.StatusNotFound
		case stderrors.As(err, &decoding):
			status = http.StatusBadGateway
		case stderrors.As(err, &unavailable):
			status = http.StatusServiceUnavailable
		}

		return &StatusError{
			Status:  status,
			Message: err.Error(),
		}
	}

	slog.ErrorContext(ctx, "request failed",
		"error", err,
	)
	return f(err)
}
