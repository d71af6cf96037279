// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/httpclient"
)

// ElasticsearchClient defines the interface for Elasticsearch operations
// This allows for easy mocking and testing
type ElasticsearchClient interface {
	Search(ctx context.Context, index string, query []byte) (*SearchResponse, error)
	Index(ctx context.Context, index, documentID string, document []byte) (*IndexResponse, error)
	IsHealthy(ctx context.Context) error
}

// HTTPClient implements the ElasticsearchClient interface over the REST API
type HTTPClient struct {
	baseURL  string
	username string
	password string
	client   *httpclient.Client
}

// Search executes a search query against Elasticsearch
func (c *HTTPClient) Search(ctx context.Context, index string, query []byte) (*SearchResponse, error) {
	slog.DebugContext(ctx, "executing elasticsearch search", "index", index)

	resp, err := c.do(ctx, http.MethodPost, c.endpoint(index, "_search"), query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	var searchResponse SearchResponse
	if err := json.Unmarshal(resp.Body, &searchResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &searchResponse, nil
}

// Index stores a document under the given id, replacing any previous version
func (c *HTTPClient) Index(ctx context.Context, index, documentID string, document []byte) (*IndexResponse, error) {
	slog.DebugContext(ctx, "indexing elasticsearch document", "index", index, "id", documentID)

	resp, err := c.do(ctx, http.MethodPut, c.endpoint(index, "_doc", documentID), document)
	if err != nil {
		return nil, fmt.Errorf("failed to index document: %w", err)
	}

	var indexResponse IndexResponse
	if err := json.Unmarshal(resp.Body, &indexResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index response: %w", err)
	}

	return &indexResponse, nil
}

// IsHealthy checks if Elasticsearch is healthy
func (c *HTTPClient) IsHealthy(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, c.endpoint("_cluster", "health"), nil)
	if err != nil {
		return fmt.Errorf("failed to execute health check: %w", err)
	}

	var healthResponse HealthResponse
	if err := json.Unmarshal(resp.Body, &healthResponse); err != nil {
		return fmt.Errorf("failed to unmarshal health check response: %w", err)
	}

	if healthResponse.Status != "green" && healthResponse.Status != "yellow" {
		return fmt.Errorf("elasticsearch cluster status is %s", healthResponse.Status)
	}

	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body []byte) (*httpclient.Response, error) {
	headers := map[string]string{}
	if body != nil {
		headers["Content-Type"] = constants.ContentTypeJSON
	}

	return c.client.Do(ctx, httpclient.Request{
		Method:   method,
		URL:      endpoint,
		Headers:  headers,
		Body:     body,
		Username: c.username,
		Password: c.password,
	})
}

func (c *HTTPClient) endpoint(segments ...string) string {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, c.baseURL)
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return strings.Join(escaped, "/")
}

// NewHTTPClient creates a new HTTP client for Elasticsearch
func NewHTTPClient(config Config) (*HTTPClient, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("elasticsearch URL is required")
	}

	httpConfig := httpclient.DefaultConfig()
	if config.Timeout > 0 {
		httpConfig.Timeout = config.Timeout
	}
	httpConfig.MaxRetries = config.MaxRetries

	return &HTTPClient{
		baseURL:  strings.TrimRight(config.URL, "/"),
		username: config.Username,
		password: config.Password,
		client:   httpclient.NewClient(httpConfig),
	}, nil
}
