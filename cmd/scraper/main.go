package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kerdl/ktmuscrap-sub000/api/swagger"
	"github.com/kerdl/ktmuscrap-sub000/internal/fetch"
	"github.com/kerdl/ktmuscrap-sub000/internal/handler"
	"github.com/kerdl/ktmuscrap-sub000/internal/models"
	"github.com/kerdl/ktmuscrap-sub000/internal/parse"
	"github.com/kerdl/ktmuscrap-sub000/internal/repository"
	"github.com/kerdl/ktmuscrap-sub000/internal/service"
	"github.com/kerdl/ktmuscrap-sub000/pkg/cache"
	"github.com/kerdl/ktmuscrap-sub000/pkg/config"
	"github.com/kerdl/ktmuscrap-sub000/pkg/database"
	"github.com/kerdl/ktmuscrap-sub000/pkg/logger"
	corsmiddleware "github.com/kerdl/ktmuscrap-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/kerdl/ktmuscrap-sub000/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(registry)

	fulltime, err := models.ParseColor(cfg.Parse.FulltimeColor)
	if err != nil {
		logr.Sugar().Fatalw("bad fulltime reference color", "error", err)
	}
	remote, err := models.ParseColor(cfg.Parse.RemoteColor)
	if err != nil {
		logr.Sugar().Fatalw("bad remote reference color", "error", err)
	}

	classifier := parse.FormatClassifier{
		Fulltime:    fulltime,
		Remote:      remote,
		MaxDistance: cfg.Parse.ColorMaxDistance,
		Exact:       cfg.Parse.ColorExact,
	}
	mapper := parse.NewMapper(parse.NewPatterns(), classifier, cfg.Parse.WeekdaySimilarity, logr)

	snapshots := service.NewSnapshotService(repository.NewSnapshotRepository(db), redisClient, metrics, logr)
	hub := service.NewHubService(cfg.Subscribers.TTL, cfg.Subscribers.BufferSize, metrics, logr)

	fetcher := fetch.NewClient(cfg.Update.FetchTimeout, cfg.Update.RetryDelay, logr)
	purge := service.NewPurgeQueue(logr)
	updates := service.NewUpdateService(
		cfg.Sources,
		cfg.Update.Period,
		fetcher,
		mapper,
		snapshots,
		hub,
		metrics,
		purge,
		logr,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := snapshots.Restore(ctx); err != nil {
		logr.Sugar().Warnw("snapshot restore failed, starting empty", "error", err)
	}

	purge.Start(ctx)
	defer purge.Stop()

	go hub.RunJanitor(ctx)
	go updates.Run(ctx)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.Register(api,
		handler.NewScheduleHandler(snapshots),
		handler.NewUpdateHandler(updates, validator.New()),
		handler.NewSubscriberHandler(hub),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("server shutdown failed", "error", err)
	}
}
