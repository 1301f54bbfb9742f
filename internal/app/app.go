package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"presale/internal/adapters"
	"presale/internal/adapters/cache"
	"presale/internal/adapters/chainlink"
	"presale/internal/adapters/httpclient"
	"presale/internal/adapters/memory"
	"presale/internal/adapters/postgres"
	"presale/internal/api"
	"presale/internal/auth"
	"presale/internal/config"
	"presale/internal/domain"
	"presale/internal/observability"
	"presale/internal/platform/db"
	httpserver "presale/internal/platform/http"
	"presale/internal/presale"
	"presale/internal/presale/handler"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations, genesis)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// State store
	store, closeStore, err := openStore(startupCtx, appCfg)
	if err != nil {
		logrus.WithError(err).Error("Error opening state store")
		return err
	}
	defer closeStore()
	logrus.Infof("✅ State store ready (%s)", appCfg.Storage.Driver)

	// Caches
	decimalsCache, err := cache.NewDecimalsCache(appCfg.Cache.MaxItems)
	if err != nil {
		return err
	}
	defer decimalsCache.Close()

	// Price feed
	feed, closeFeed, err := openPriceFeed(startupCtx, appCfg, decimalsCache.Scoped(cache.FeedScope))
	if err != nil {
		logrus.WithError(err).Error("Error connecting price feed")
		return err
	}
	defer closeFeed()
	logrus.Infof("✅ Price feed ready (%s)", appCfg.Oracle.Source)

	// Services
	sale, genesis, err := buildPresale(appCfg.Presale)
	if err != nil {
		return err
	}
	oracleReader := presale.NewOracleReader(feed, time.Duration(appCfg.Oracle.TimeoutSeconds)*time.Second)
	presaleService, err := presale.NewService(store, oracleReader, decimalsCache.Scoped(cache.TokenScope), sale)
	if err != nil {
		return err
	}
	if err = initialize(startupCtx, presaleService, genesis); err != nil {
		logrus.WithError(err).Error("Failed to initialize presale state")
		return err
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry, "presale")

	scheduler := presale.NewScheduler(presaleService, oracleReader, metrics, time.Duration(appCfg.Scheduler.JobDurationSec)*time.Second)
	// Ensure scheduler stops before the store closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Middleware, handlers and router
	verifier, err := auth.NewVerifier(time.Duration(appCfg.API.SignatureMaxSkewSec)*time.Second, appCfg.API.MaxBodyBytes, metrics)
	if err != nil {
		return err
	}
	defer verifier.Close()
	limiter, err := api.NewRateLimiter(appCfg.API.RateLimitRPS, appCfg.API.RateLimitBurst, appCfg.API.TrustProxyHeaders, metrics)
	if err != nil {
		return err
	}
	defer limiter.Close()

	presaleHandler := handler.NewPresaleHandler(presaleService, metrics, appCfg.API.MaxBodyBytes)
	router := api.NewRouter(presaleHandler, limiter.Middleware, verifier.Middleware, observability.Handler(registry))

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.AppConfig) (adapters.StateStore, func(), error) {
	if cfg.Storage.Driver == "memory" {
		logrus.Warn("Using in-memory state store, state is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	pool, err := db.CreatePoolAndPing(ctx, cfg.DbServer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if err = db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.NewStateStore(pool), pool.Close, nil
}

func openPriceFeed(ctx context.Context, cfg *config.AppConfig, decimals adapters.DecimalsCache) (adapters.PriceFeed, func(), error) {
	if cfg.Oracle.Source == "chainlink" {
		client, err := ethclient.DialContext(ctx, cfg.Oracle.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to dial rpc: %w", err)
		}
		feed, err := chainlink.NewAggregatorFeed(client, decimals)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return feed, client.Close, nil
	}

	httpTimeout := time.Duration(cfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}
	return httpclient.NewPriceFeedClient(baseHTTPClient, strings.TrimSuffix(cfg.Oracle.BaseURL, "/")), func() {}, nil
}

// initialize writes genesis on first start; a store that already has an
// owner is left as is.
func initialize(ctx context.Context, svc *presale.Service, genesis presale.Genesis) error {
	if genesis.Owner == (common.Address{}) {
		logrus.Warn("presale.owner is not set, skipping initialization")
		return nil
	}
	err := svc.Initialize(ctx, genesis)
	if errors.Is(err, domain.ErrAlreadyInitialized) {
		logrus.Info("Presale state already initialized")
		return nil
	}
	if err != nil {
		return err
	}
	logrus.WithField("owner", genesis.Owner.Hex()).Info("✅ Presale state initialized")
	return nil
}
