package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mesh-metrics-backend/internal/api"
	"mesh-metrics-backend/internal/config"
	"mesh-metrics-backend/internal/db"
	"mesh-metrics-backend/internal/ingest"
	"mesh-metrics-backend/internal/mqtt"
	"mesh-metrics-backend/internal/processors/ingester"
	"mesh-metrics-backend/internal/topology"
)

// Upper bound for storing events posted over HTTP.
const httpIngestRetryLimit = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	loader := config.New(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		panic(err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	slog.InfoContext(ctx, "Starting service...")

	store, err := db.Init(ctx, db.Config{
		ConnString:     cfg.Database.ConnString,
		MigrationsPath: cfg.Database.MigrationsPath,
	})
	if err != nil {
		panic(err)
	}
	defer store.Close()

	// Queue consumers retry until shutdown so offsets are never skipped.
	consumerPipeline := ingest.New(ingest.Config{
		Store:           store,
		InitialInterval: cfg.Database.RetryInitialInterval,
		MaxInterval:     cfg.Database.RetryMaxInterval,
	})
	httpPipeline := ingest.New(ingest.Config{
		Store:           store,
		InitialInterval: cfg.Database.RetryInitialInterval,
		MaxInterval:     cfg.Database.RetryMaxInterval,
		MaxElapsedTime:  httpIngestRetryLimit,
	})

	a := api.New(api.Config{
		DB: store,
		Topology: topology.NewClient(topology.Config{
			BaseURL: cfg.Topology.BaseURL,
			Timeout: cfg.Topology.Timeout,
		}),
		Pipeline:   httpPipeline,
		Thresholds: cfg.Metrics.Thresholds(),
	})

	if loader.Watch(func(c *config.Config) {
		a.SetThresholds(c.Metrics.Thresholds())
		slog.Info("Metrics thresholds reloaded", "thresholds", c.Metrics.Thresholds())
	}) {
		slog.InfoContext(ctx, "Watching config file for threshold changes")
	}

	wg := sync.WaitGroup{}

	var wIngester *ingester.Ingester
	if cfg.Kafka.Enabled {
		wIngester = ingester.New(ingester.Config{
			Brokers:         cfg.Kafka.Brokers,
			ConsumerGroupID: cfg.Kafka.GroupID,
			ConsumerTopic:   cfg.Kafka.EventsTopic,
			DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
			Pipeline:        consumerPipeline,
		})
		wg.Go(func() {
			wIngester.Run(ctx)
		})
	}

	var subscriber *mqtt.Subscriber
	if cfg.MQTT.Enabled {
		subscriber = mqtt.New(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topics:   cfg.MQTT.Topics,
			Pipeline: consumerPipeline,
		})
		if err := subscriber.Start(ctx); err != nil {
			panic(err)
		}
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: a.Router(),
	}
	wg.Go(func() {
		slog.InfoContext(ctx, "HTTP server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "HTTP server error", "error", err)
			cancel()
		}
	})

	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "HTTP server shutdown error", "error", err)
	}

	wg.Wait()

	if subscriber != nil {
		subscriber.Close(shutdownCtx)
	}
	if wIngester != nil {
		wIngester.Close(shutdownCtx)
	}
}
