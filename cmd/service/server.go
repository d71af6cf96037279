// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/errors"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goahttp "goa.design/goa/v3/http"
)

// MountPoint holds information about the mounted endpoints.
type MountPoint struct {
	// Method is the name of the service method served by the mounted HTTP handler.
	Method string
	// Verb is the HTTP method used to match requests to the mounted handler.
	Verb string
	// Pattern is the HTTP request path pattern used to match requests to the
	// mounted handler.
	Pattern string
}

// Server lists the metrics-svc service endpoint HTTP handlers.
type Server struct {
	Mounts []*MountPoint

	svc     *MetricsSvc
	mux     goahttp.Muxer
	decoder func(*http.Request) goahttp.Decoder
	encoder func(context.Context, http.ResponseWriter) goahttp.Encoder
	// errhandler is called when a response cannot be written
	errhandler func(context.Context, http.ResponseWriter, error)
}

// NewServer instantiates HTTP handlers for all the metrics-svc service endpoints.
func NewServer(
	svc *MetricsSvc,
	mux goahttp.Muxer,
	decoder func(*http.Request) goahttp.Decoder,
	encoder func(context.Context, http.ResponseWriter) goahttp.Encoder,
	errhandler func(context.Context, http.ResponseWriter, error),
) *Server {
	return &Server{
		Mounts: []*MountPoint{
			{Method: "get-aggs-results", Verb: http.MethodPost, Pattern: "/metrics/{index}/results"},
			{Method: "save-metric", Verb: http.MethodPost, Pattern: "/visualizations"},
			{Method: "readyz", Verb: http.MethodGet, Pattern: "/readyz"},
			{Method: "livez", Verb: http.MethodGet, Pattern: "/livez"},
			{Method: "metrics", Verb: http.MethodGet, Pattern: "/metrics"},
		},
		svc:        svc,
		mux:        mux,
		decoder:    decoder,
		encoder:    encoder,
		errhandler: errhandler,
	}
}

// Mount configures the mux to serve the metrics-svc endpoints.
func Mount(mux goahttp.Muxer, h *Server) {
	mux.Handle(http.MethodPost, "/metrics/{index}/results", h.handleGetAggsResults)
	mux.Handle(http.MethodPost, "/visualizations", h.handleSaveMetric)
	mux.Handle(http.MethodGet, "/readyz", h.handleReadyz)
	mux.Handle(http.MethodGet, "/livez", h.handleLivez)
	mux.Handle(http.MethodGet, "/metrics", promhttp.Handler().ServeHTTP)
}

func (h *Server) handleGetAggsResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body GetAggsResultsPayload
	if err := h.decodeBody(r, &body); err != nil {
		h.encodeError(ctx, w, err)
		return
	}

	res, err := h.svc.GetAggsResults(ctx, h.mux.Vars(r)["index"], &body)
	if err != nil {
		h.encodeError(ctx, w, err)
		return
	}

	h.encode(ctx, w, http.StatusOK, res)
}

func (h *Server) handleSaveMetric(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body SaveMetricPayload
	if err := h.decodeBody(r, &body); err != nil {
		h.encodeError(ctx, w, err)
		return
	}

	res, err := h.svc.SaveMetric(ctx, &body)
	if err != nil {
		h.encodeError(ctx, w, err)
		return
	}

	h.encode(ctx, w, http.StatusCreated, res)
}

func (h *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Readyz(r.Context())
	if err != nil {
		h.encodeError(r.Context(), w, err)
		return
	}
	h.writeText(r.Context(), w, res)
}

func (h *Server) handleLivez(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Livez(r.Context())
	if err != nil {
		h.encodeError(r.Context(), w, err)
		return
	}
	h.writeText(r.Context(), w, res)
}

// decodeBody decodes the request body, rejecting empty and malformed bodies
func (h *Server) decodeBody(r *http.Request, v any) error {
	err := h.decoder(r).Decode(v)
	if err == nil {
		return nil
	}
	if err == io.EOF {
		return errors.NewValidation("missing request body")
	}
	return errors.NewValidation("invalid request body", err)
}

func (h *Server) encode(ctx context.Context, w http.ResponseWriter, status int, v any) {
	enc := h.encoder(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		h.errhandler(ctx, w, err)
	}
}

// encodeError writes err with its HTTP status. Errors returned by the
// service methods are already mapped.
func (h *Server) encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	var statusErr *StatusError
	if !stderrors.As(err, &statusErr) {
		statusErr = wrapError(ctx, err)
	}
	h.encode(ctx, w, statusErr.StatusCode(), statusErr)
}

func (h *Server) writeText(ctx context.Context, w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.errhandler(ctx, w, err)
	}
}

