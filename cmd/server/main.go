package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carclub/paddock/internal/api"
	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/common"
	"carclub/paddock/internal/config"
	"carclub/paddock/internal/db"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/logging"
	"carclub/paddock/internal/metrics"
	"carclub/paddock/internal/middleware"
	"carclub/paddock/internal/providers"
	"carclub/paddock/internal/routes"
	"carclub/paddock/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Paddock starting up",
		"environment", cfg.Env,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	gdb, err := db.InitPostgresORM(cfg.Postgres.DSN())
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err)
	}
	sqlxDB, err := db.InitPostgres(cfg.Postgres)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err)
	}
	defer sqlxDB.Close()
	logging.Info("Connected to Postgres (sqlx)")

	store := repositories.NewStore(gdb)
	reports := repositories.NewFeeReportRepository(sqlxDB)
	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	health := map[string]api.Pinger{"postgres": reports}

	// Redis backs both the ban cache and the payout stream when configured;
	// otherwise both stay in process.
	var (
		cache common.CacheInterface
		queue workers.PayoutQueue
	)
	if cfg.RedisAddr != "" {
		client := common.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()

		hostname, _ := os.Hostname()
		redisQueue := workers.NewRedisPayoutQueue(client, cfg.PayoutStream, "paddock-"+hostname)
		if err := redisQueue.EnsureGroup(context.Background()); err != nil {
			logging.Fatal("Failed to create payout consumer group", "stream", cfg.PayoutStream, "error", err)
		}

		cache = common.NewRedisCacheService(client, "paddock:")
		queue = redisQueue
		health["redis"] = api.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	} else {
		logging.Warn("PADDOCK_REDIS_ADDR not set, using in-memory cache and payout queue")
		cache = common.NewCacheService(cfg.BanCacheTTL, 10*time.Minute)
		queue = workers.NewChannelPayoutQueue(cfg.PayoutQueueSize)
	}
	defer cache.Close()

	var sender workers.PayoutSender = workers.LoggingSender{}
	if cfg.PaymentGatewayURL != "" {
		sender = providers.NewPaymentGateway(cfg.PaymentGatewayURL, cfg.PaymentAPIKey)
	} else {
		logging.Warn("PADDOCK_PAYMENT_GATEWAY_URL not set, payouts are only logged")
	}

	payouts := workers.NewPayoutWorker(queue, sender, metricsReg, cfg.PayoutRate)
	deps := api.InitDependencies(store, reports, cache, payouts, metricsReg, cfg.BanCacheTTL)

	router := routes.RegisterRoutes(routes.Options{
		Deps:        deps,
		Tokens:      auth.NewTokenProvider(cfg.JWTSecret, cfg.JWTIssuer),
		Metrics:     metricsReg,
		Gatherer:    prometheus.DefaultGatherer,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Health:      health,
		UpSince:     time.Now(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return payouts.Start(gctx, cfg.PayoutWorkers)
	})
	g.Go(func() error {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	logging.Info("Server stopped")
}
