package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/pvolkov/news-ingest/app/api"
	"github.com/pvolkov/news-ingest/app/cfg"
	"github.com/pvolkov/news-ingest/app/database"
	"github.com/pvolkov/news-ingest/app/kafka"
	"github.com/pvolkov/news-ingest/app/metrics"
	"github.com/pvolkov/news-ingest/app/newsapi"
	"github.com/pvolkov/news-ingest/app/pipeline"
	"github.com/pvolkov/news-ingest/app/scheduler"
	"github.com/pvolkov/news-ingest/app/secrets"
	"github.com/pvolkov/news-ingest/app/source"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting news ingest", "version", appCfg.Version, "environment", appCfg.Environment)

	db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	seenRepo, err := database.NewSeenURLRepository(db, appCfg.SeenTable)
	if err != nil {
		slog.Error("Invalid seen-URL table", "error", err)
		os.Exit(1)
	}

	sources := source.NewCache(appCfg.SourcesDir)
	if err := sources.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sources.GetSourceCount())

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		slog.Error("Failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	secretCache := secrets.NewCache(secretsmanager.NewFromConfig(awsCfg))
	emitter := metrics.NewEmitter(cloudwatch.NewFromConfig(awsCfg), appCfg.Environment)
	fetcher := newsapi.NewClient(appCfg.NewsAPIURL, appCfg.UserAgent)

	publisher := kafka.NewPublisher(func(ctx context.Context) (map[string]string, error) {
		secret, err := secretCache.Get(ctx, cfg.Get().KafkaSecret)
		if err != nil {
			return nil, err
		}
		return secrets.KafkaProducerConfig(secret)
	})

	ingestPipeline := pipeline.NewPipeline(fetcher, seenRepo, publisher, secretCache, emitter)

	ingestScheduler := scheduler.NewScheduler(ingestPipeline, sources,
		time.Duration(appCfg.SchedulerInterval)*time.Second)

	if appCfg.RunOnce {
		ingestScheduler.RunOnce(context.Background())
		for _, status := range ingestScheduler.LastRuns() {
			if status.Status != "ok" {
				os.Exit(1)
			}
		}
		return
	}

	ingestScheduler.Start()
	defer ingestScheduler.Stop()

	apiHandler := api.NewHandler(seenRepo, sources, ingestScheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
