// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/infrastructure/elasticsearch"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-metrics-service/internal/infrastructure/opensearch"
	"github.com/linuxfoundation/lfx-v2-metrics-service/pkg/constants"
)

// searchSource returns the configured backend implementation
func searchSource() string {
	source := os.Getenv("SEARCH_SOURCE")
	if source == "" {
		source = "opensearch"
	}
	return source
}

func visualizationIndex() string {
	index := os.Getenv("VISUALIZATION_INDEX")
	if index == "" {
		index = constants.DefaultVisualizationIndex
	}
	return index
}

func opensearchConfig() opensearch.Config {
	opensearchURL := os.Getenv("OPENSEARCH_URL")
	if opensearchURL == "" {
		opensearchURL = "http://localhost:9200"
	}

	return opensearch.Config{
		URL:                opensearchURL,
		VisualizationIndex: visualizationIndex(),
	}
}

func elasticsearchConfig() elasticsearch.Config {
	elasticsearchURL := os.Getenv("ELASTICSEARCH_URL")
	if elasticsearchURL == "" {
		elasticsearchURL = "http://localhost:9200"
	}

	elasticsearchTimeout := os.Getenv("ELASTICSEARCH_TIMEOUT")
	if elasticsearchTimeout == "" {
		elasticsearchTimeout = "30s"
	}
	elasticsearchTimeoutDuration, err := time.ParseDuration(elasticsearchTimeout)
	if err != nil {
		log.Fatalf("invalid Elasticsearch timeout duration %s: %v", elasticsearchTimeout, err)
	}

	elasticsearchMaxRetries := os.Getenv("ELASTICSEARCH_MAX_RETRIES")
	elasticsearchMaxRetriesInt := 0 // default
	if elasticsearchMaxRetries != "" {
		elasticsearchMaxRetriesInt, err = strconv.Atoi(elasticsearchMaxRetries)
		if err != nil || elasticsearchMaxRetriesInt < 0 {
			log.Fatalf("invalid Elasticsearch max retries value %s: %v", elasticsearchMaxRetries, err)
		}
	}

	return elasticsearch.Config{
		URL:                elasticsearchURL,
		Username:           os.Getenv("ELASTICSEARCH_USERNAME"),
		Password:           os.Getenv("ELASTICSEARCH_PASSWORD"),
		Timeout:            elasticsearchTimeoutDuration,
		MaxRetries:         elasticsearchMaxRetriesInt,
		VisualizationIndex: visualizationIndex(),
	}
}

// MetricsSearcherImpl injects the metrics searcher implementation
func MetricsSearcherImpl(ctx context.Context) port.MetricsSearcher {

	var (
		metricsSearcher port.MetricsSearcher
		err             error
	)

	switch source := searchSource(); source {
	case "mock":
		slog.InfoContext(ctx, "initializing mock metrics searcher")
		metricsSearcher = mock.NewMockMetricsSearcher()

	case "opensearch":
		config := opensearchConfig()
		slog.InfoContext(ctx, "initializing opensearch metrics searcher",
			"url", config.URL,
		)

		client, errClient := opensearch.NewClient(ctx, config)
		if errClient != nil {
			log.Fatalf("failed to initialize OpenSearch client: %v", errClient)
		}
		metricsSearcher = opensearch.NewSearcher(client)

	case "elasticsearch":
		config := elasticsearchConfig()
		slog.InfoContext(ctx, "initializing elasticsearch metrics searcher",
			"url", config.URL,
			"timeout", config.Timeout,
			"max_retries", config.MaxRetries,
		)

		metricsSearcher, err = elasticsearch.NewElasticsearchSearcherFromConfig(config)
		if err != nil {
			log.Fatalf("failed to initialize Elasticsearch searcher: %v", err)
		}

	default:
		log.Fatalf("unsupported search implementation: %s", source)
	}

	return metricsSearcher
}

// VisualizationStoreImpl injects the visualization store implementation. It
// follows SEARCH_SOURCE so visualizations live next to the metrics.
func VisualizationStoreImpl(ctx context.Context) port.VisualizationStore {

	var (
		visualizationStore port.VisualizationStore
		err                error
	)

	switch source := searchSource(); source {
	case "mock":
		slog.InfoContext(ctx, "initializing mock visualization store")
		visualizationStore = mock.NewMockVisualizationStore()

	case "opensearch":
		config := opensearchConfig()
		slog.InfoContext(ctx, "initializing opensearch visualization store",
			"url", config.URL,
			"index", config.VisualizationIndex,
		)

		client, errClient := opensearch.NewClient(ctx, config)
		if errClient != nil {
			log.Fatalf("failed to initialize OpenSearch client: %v", errClient)
		}
		visualizationStore, err = opensearch.NewVisualizationStore(ctx, client, config)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch visualization store: %v", err)
		}

	case "elasticsearch":
		config := elasticsearchConfig()
		slog.InfoContext(ctx, "initializing elasticsearch visualization store",
			"url", config.URL,
			"index", config.VisualizationIndex,
		)

		visualizationStore, err = elasticsearch.NewVisualizationStoreFromConfig(config)
		if err != nil {
			log.Fatalf("failed to initialize Elasticsearch visualization store: %v", err)
		}

	default:
		log.Fatalf("unsupported search implementation: %s", source)
	}

	return visualizationStore
}
