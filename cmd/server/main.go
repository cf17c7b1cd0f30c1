package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uigs/graph-engine/internal/conflict"
	"github.com/uigs/graph-engine/internal/decompose"
	"github.com/uigs/graph-engine/internal/graph/store"
	"github.com/uigs/graph-engine/internal/ingest"
	"github.com/uigs/graph-engine/internal/ingest/archive"
	"github.com/uigs/graph-engine/internal/ingest/seen"
	"github.com/uigs/graph-engine/internal/platform/config"
	"github.com/uigs/graph-engine/internal/platform/httpserver"
	"github.com/uigs/graph-engine/internal/platform/logger"
	"github.com/uigs/graph-engine/internal/platform/metrics"
	neo4jdb "github.com/uigs/graph-engine/internal/platform/neo4j"
	"github.com/uigs/graph-engine/internal/platform/postgres"
	platformredis "github.com/uigs/graph-engine/internal/platform/redis"
	"github.com/uigs/graph-engine/internal/queue"
	httptransport "github.com/uigs/graph-engine/internal/transport/http"
)

// main wires high-level dependencies and keeps the lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	neo, err := neo4jdb.New(ctx, cfg)
	if err != nil {
		log.Error("neo4j connection failed", "error", err)
		os.Exit(1)
	}
	defer neo.Close(context.Background())

	graphStore := store.NewNeo4j(neo, log)
	graphStore.EnsureSchema(ctx)

	m := metrics.New()

	var seenStore seen.Store = seen.NewMemory(cfg.SeenTTL)
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		seenStore = seen.NewRedis(redisClient, cfg.SeenTTL)
		log.Info("duplicate guard backed by redis")
	}

	var archiveStore archive.Store
	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		pgArchive := archive.NewPostgres(db)
		if err := pgArchive.EnsureSchema(ctx); err != nil {
			log.Error("archive schema setup failed", "error", err)
			os.Exit(1)
		}
		archiveStore = pgArchive
		log.Info("event archive backed by postgres")
	}

	decomposer := decompose.New(graphStore, log)
	detector := conflict.NewDetector(graphStore, log)
	processor := ingest.NewProcessor(decomposer, detector, seenStore, archiveStore, m, log)

	consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.Prefetch, cfg.ConsumerWorkers, processor, log)
	if err := consumer.Connect(); err != nil {
		log.Error("rabbitmq connection failed", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("consumer stopped", "error", err)
			stop()
		}
	}()

	handler := httptransport.New(graphStore, detector, consumer, archiveStore, log)
	router := httptransport.NewRouter(handler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting graph-engine", "addr", cfg.Addr, "queue", cfg.RabbitMQQueue)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
