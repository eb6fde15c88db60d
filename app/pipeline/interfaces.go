package pipeline

import (
	"context"

	"github.com/pvolkov/news-ingest/app/newsapi"
)

type Fetcher interface {
	FetchAll(ctx context.Context, apiKey string, q newsapi.Query) ([]newsapi.Article, error)
}

type Publisher interface {
	// Init constructs the process-wide broker connection if needed.
	Init(ctx context.Context) error
	Publish(ctx context.Context, item map[string]any, key, topic string) bool
}

type SecretSource interface {
	Get(ctx context.Context, name string) (map[string]any, error)
}

type MetricsEmitter interface {
	Count(ctx context.Context, name string, value float64)
}
