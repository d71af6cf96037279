// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// OpenSearchClientRetriever defines the interface for OpenSearch operations
// This allows for easy mocking and testing
type OpenSearchClientRetriever interface {
	Search(ctx context.Context, index string, query []byte) (*SearchResponse, error)
	Index(ctx context.Context, index, documentID string, document []byte) (*IndexResponse, error)
	IsReady(ctx context.Context) error
}

type httpClient struct {
	client *opensearchapi.Client
}

func (c *httpClient) Search(ctx context.Context, index string, query []byte) (*SearchResponse, error) {

	slog.DebugContext(ctx, "executing opensearch search",
		"index", index,
		"query", string(query),
	)

	searchRequest := opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(query),
	}

	searchResponse, errSearchResponse := c.client.Search(ctx, &searchRequest)
	if errSearchResponse != nil {
		return nil, fmt.Errorf("failed to execute search: %w", errSearchResponse)
	}

	// Check for errors in the response
	if searchResponse.Errors {
		return nil, fmt.Errorf("opensearch search returned errors")
	}

	slog.DebugContext(ctx, "opensearch search returned",
		"took", searchResponse.Took,
		"total_hits", searchResponse.Hits.Total.Value,
	)

	return &SearchResponse{
		Hits: Hits{
			Total: Total{
				Value: searchResponse.Hits.Total.Value,
			},
		},
		Aggregations: searchResponse.Aggregations,
	}, nil
}

func (c *httpClient) Index(ctx context.Context, index, documentID string, document []byte) (*IndexResponse, error) {

	slog.DebugContext(ctx, "indexing opensearch document",
		"index", index,
		"document_id", documentID,
	)

	indexResponse, errIndex := c.client.Index(ctx, opensearchapi.IndexReq{
		Index:      index,
		DocumentID: documentID,
		Body:       bytes.NewReader(document),
	})
	if errIndex != nil {
		return nil, fmt.Errorf("failed to index document: %w", errIndex)
	}

	return &IndexResponse{
		ID:     indexResponse.ID,
		Result: indexResponse.Result,
	}, nil
}

func (c *httpClient) IsReady(ctx context.Context) error {
	response, errPing := c.client.Ping(ctx, nil)
	if errPing != nil {
		return fmt.Errorf("failed to ping opensearch: %w", errPing)
	}
	if response.Body != nil {
		defer response.Body.Close()
	}

	if response.IsError() {
		return fmt.Errorf("opensearch ping returned status %d", response.StatusCode)
	}
	return nil
}

// NewClient returns an OpenSearch client shared by the searcher and the
// visualization store
func NewClient(ctx context.Context, config Config) (OpenSearchClientRetriever, error) {

	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{config.URL},
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: 30 * time.Second,
				DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	return &httpClient{
		client: opensearchClient,
	}, nil
}
