// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

type requestIDHeaderType string

// RequestIDHeader is the header name for the request ID
const RequestIDHeader requestIDHeaderType = "X-REQUEST-ID"

const (
	// ContentTypeJSON is the media type of every request and response body
	ContentTypeJSON = "application/json"

	// LivenessResponse is returned by the health check endpoints
	LivenessResponse = "OK\n"
)
