package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"coinsage/internal/analysis"
	"coinsage/internal/bot"
	"coinsage/internal/cache"
	"coinsage/internal/config"
	"coinsage/internal/db"
	"coinsage/internal/handler"
	"coinsage/internal/job"
	"coinsage/internal/provider"
	"coinsage/internal/repository"
	"coinsage/internal/service"
	"coinsage/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "coinsage/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer

	newOHLCVRepoFunc = repository.NewOHLCVRepository
	newCoinRepoFunc  = repository.NewCoinRepository
	newProviderFunc  = func(tracer trace.Tracer, cfg *config.Config) *provider.CoinGeckoProvider {
		return provider.NewCoinGeckoProviderWithBaseURL(tracer, cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey)
	}

	newEngineFunc          = analysis.NewEngine
	newMarketServiceFunc   = service.NewMarketDataService
	newResolverFunc        = service.NewCoinResolver
	newAnalysisServiceFunc = service.NewAnalysisService

	newCoinSyncPollerFunc = job.NewCoinSyncPoller
	startCoinSyncFunc     = func(p *job.CoinSyncPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc  = bot.StartTelegramBot

	newHandlerFunc    = handler.New
	newRouterFunc     = gin.Default
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }

	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Coinsage API
// @version         1.0
// @description     Interval-aware market data cache and technical analysis service.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	ohlcvRepo := newOHLCVRepoFunc(db.Pool, tracer)
	coinRepo := newCoinRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := ohlcvRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run ohlcv migrations: %v", err)
		}
		if err := coinRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run coin migrations: %v", err)
		}
	}

	cgProvider := newProviderFunc(tracer, cfg)
	marketService := newMarketServiceFunc(tracer, cgProvider, ohlcvRepo, cache.Client)
	resolver := newResolverFunc(tracer, coinRepo, cgProvider)
	engine := newEngineFunc(nil)
	analysisService := newAnalysisServiceFunc(tracer, resolver, marketService, engine, cgProvider)

	coinSync := newCoinSyncPollerFunc(tracer, cgProvider, coinRepo, cfg.CoinSyncSecs)
	startCoinSyncFunc(coinSync, ctx)

	startTelegramBotFunc(analysisService, cfg.TelegramBotToken, cfg.DefaultCurrency, cfg.DefaultDays)

	h := newHandlerFunc(tracer, analysisService, cgProvider)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("coinsage"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
