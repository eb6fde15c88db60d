package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"news_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"news_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"news_ingest" description:"Database name"`
	SeenTable  string `long:"seen-table" env:"SEEN_TABLE" default:"seen_urls" description:"Table recording already-processed URLs"`

	// Upstream API configuration
	NewsAPIURL    string `long:"newsapi-url" env:"NEWSAPI_URL" default:"https://newsapi.org/v2/everything" description:"NewsAPI search endpoint"`
	NewsAPIKey    string `long:"newsapi-key" env:"NEWSAPI_API_KEY" description:"NewsAPI key override (normally resolved from the secret)"`
	NewsAPISecret string `long:"newsapi-secret" env:"NEWSAPI_SECRET_ARN" description:"Name of the secret holding the NewsAPI key"`
	DefaultFrom   string `long:"default-from" env:"DEFAULT_FROM" default:"2025-10-01T00:00:00Z" description:"Lower-bound publication timestamp (ISO-8601, UTC)"`
	PageSize      int    `long:"page-size" env:"PAGE_SIZE" default:"10" description:"Number of articles requested per page"`
	MaxPages      int    `long:"max-pages" env:"MAX_PAGES" default:"10" description:"Hard upper bound on pages fetched per run"`

	// Broker configuration
	KafkaSecret  string `long:"kafka-secret" env:"KAFKA_SECRET_ARN" description:"Name of the secret holding Kafka credentials"`
	RawTopic     string `long:"raw-topic" env:"RAW_TOPIC" description:"Topic receiving newly-published raw articles (default derived from environment)"`
	CuratedTopic string `long:"curated-topic" env:"CURATED_TOPIC" description:"Downstream curated topic (consumed by other systems)"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing ingestion source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"900" description:"Scheduler interval in seconds"`
	RunOnce           bool   `long:"once" env:"RUN_ONCE" description:"Run a single ingestion pass and exit"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	Environment       string `long:"environment" env:"ENVIRONMENT" default:"dev" description:"Deployment environment name"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"newsapi-ingest/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:            raw.DBHost,
		DBPort:            raw.DBPort,
		DBUser:            raw.DBUser,
		DBPassword:        raw.DBPassword,
		DBName:            raw.DBName,
		SeenTable:         raw.SeenTable,
		NewsAPIURL:        raw.NewsAPIURL,
		NewsAPIKey:        raw.NewsAPIKey,
		NewsAPISecret:     raw.NewsAPISecret,
		DefaultFrom:       raw.DefaultFrom,
		PageSize:          raw.PageSize,
		MaxPages:          raw.MaxPages,
		KafkaSecret:       raw.KafkaSecret,
		RawTopic:          cmp.Or(raw.RawTopic, fmt.Sprintf("topic_private_%s_newsapi", raw.Environment)),
		CuratedTopic:      cmp.Or(raw.CuratedTopic, fmt.Sprintf("topic_%s_news", raw.Environment)),
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		SchedulerInterval: raw.SchedulerInterval,
		RunOnce:           raw.RunOnce,
		APIAccessKey:      raw.APIAccessKey,
		Environment:       raw.Environment,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the process-global configuration. Intended for tests.
func Set(cfg *Cfg) {
	globalCfg = cfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
