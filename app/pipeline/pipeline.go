package pipeline

import (
	"cmp"
	"context"
	"log/slog"
	"time"

	"github.com/pvolkov/news-ingest/app/article"
	"github.com/pvolkov/news-ingest/app/cfg"
	"github.com/pvolkov/news-ingest/app/database"
	"github.com/pvolkov/news-ingest/app/newsapi"
	"github.com/pvolkov/news-ingest/app/secrets"
	"github.com/pvolkov/news-ingest/app/source"
)

// Pipeline runs one fetch -> normalize -> deduplicate -> publish -> persist
// pass for a single source. Data flows strictly one way; a persistence write
// happens only after the corresponding publish reported success.
type Pipeline struct {
	fetcher   Fetcher
	seenRepo  database.SeenURLRepository
	publisher Publisher
	secrets   SecretSource
	metrics   MetricsEmitter
	now       func() time.Time
}

func NewPipeline(fetcher Fetcher, seenRepo database.SeenURLRepository,
	publisher Publisher, secrets SecretSource, metrics MetricsEmitter) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		seenRepo:  seenRepo,
		publisher: publisher,
		secrets:   secrets,
		metrics:   metrics,
		now:       time.Now,
	}
}

// candidate pairs an identifier with its normalized article, preserving batch
// arrival order.
type candidate struct {
	id      string
	url     string
	article map[string]any
}

// Run executes one full pipeline pass. Configuration failures terminate the
// run before any external write; a single item's failure never aborts the run.
func (p *Pipeline) Run(ctx context.Context, src *source.Config) (*Outcome, error) {
	c := cfg.Get()

	if c.NewsAPISecret == "" {
		slog.Error("Missing NewsAPI secret name")
		return fail(ReasonMissingNewsAPISecret, nil)
	}
	if c.KafkaSecret == "" {
		slog.Error("Missing Kafka secret name")
		return fail(ReasonMissingKafkaSecret, nil)
	}

	newsSecret, err := p.secrets.Get(ctx, c.NewsAPISecret)
	if err != nil {
		slog.Error("Failed to load NewsAPI secret", "error", err)
		return fail(ReasonSecretFetchFailed, err)
	}

	apiKey := cmp.Or(c.NewsAPIKey, secrets.NewsAPIKey(newsSecret))
	if apiKey == "" {
		slog.Error("Missing NewsAPI key in secret or environment")
		return fail(ReasonMissingAPIKey, nil)
	}

	if c.SeenTable == "" {
		slog.Error("Missing seen-URL table name")
		return fail(ReasonMissingTable, nil)
	}

	if err := p.publisher.Init(ctx); err != nil {
		slog.Error("Unable to initialize Kafka producer", "error", err)
		return fail(ReasonKafkaInitFailed, err)
	}

	query := newsapi.Query{
		Term:     src.Query,
		From:     cmp.Or(src.From, c.DefaultFrom),
		Language: src.Language,
		PageSize: cmp.Or(src.PageSize, c.PageSize),
		MaxPages: cmp.Or(src.MaxPages, c.MaxPages),
	}
	topic := cmp.Or(src.Topic, c.RawTopic)

	articles, err := p.fetcher.FetchAll(ctx, apiKey, query)
	if err != nil {
		slog.Error("Failed to fetch news", "source", src.Name, "error", err)
		return fail(ReasonFetchFailed, err)
	}

	p.metrics.Count(ctx, "ArticlesFetched", float64(len(articles)))

	candidates := p.dedupeBatch(articles)

	published, inserted := 0, 0
	if len(candidates) > 0 {
		ids := make([]string, 0, len(candidates))
		for _, cand := range candidates {
			ids = append(ids, cand.id)
		}
		existing := p.seenRepo.FilterExisting(ctx, ids)

		pending := make([]candidate, 0, len(candidates))
		for _, cand := range candidates {
			if !existing[cand.id] {
				pending = append(pending, cand)
			}
		}

		if len(pending) == 0 {
			slog.Info("No new URLs detected, nothing to enqueue", "source", src.Name)
		}

		for _, cand := range pending {
			if !p.publisher.Publish(ctx, cand.article, cand.id, topic) {
				slog.Error("Kafka publish failed, skipping persistence", "url", cand.url)
				continue
			}
			published++

			if p.seenRepo.Record(ctx, cand.id, cand.url, p.now().UTC()) == database.RecordInserted {
				inserted++
			}
		}
	}

	p.metrics.Count(ctx, "ArticlesInserted", float64(inserted))

	slog.Info("Run completed",
		"source", src.Name,
		"fetched", len(articles),
		"published", published,
		"inserted", inserted)

	return &Outcome{Fetched: len(articles), Published: published, Inserted: inserted}, nil
}

// dedupeBatch normalizes articles in fetch order and keeps the first
// occurrence of each identifier. Articles without a usable URL are dropped:
// they can be neither deduplicated nor republished meaningfully.
func (p *Pipeline) dedupeBatch(articles []newsapi.Article) []candidate {
	seen := make(map[string]bool, len(articles))
	candidates := make([]candidate, 0, len(articles))

	for _, raw := range articles {
		normalized := article.Normalize(raw)
		url, ok := article.URL(normalized)
		if !ok {
			continue
		}
		id := article.Hash(url)
		if seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, candidate{id: id, url: url, article: normalized})
	}

	return candidates
}
