package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"net/http"
	"os"
	"os/signal"
	"shortdrama/config"
	"shortdrama/constant"
	"shortdrama/handler"
	"shortdrama/pkg/metrics"
	"shortdrama/pkg/rabbitmq"
	"shortdrama/pkg/ratelimit"
	"shortdrama/pkg/storage"
	"shortdrama/pkg/token"
	"shortdrama/repository"
	"shortdrama/service"
	"syscall"
	"time"
)

const shutdownTimeout = 15 * time.Second

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := repository.NewRepo(cfg.DB)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("NewRepo")
	}

	gateway := newGateway(ctx, cfg)
	events := newPublisher(ctx, cfg)
	limiter := newLimiter(ctx, cfg)
	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.AdminJWTSecret, cfg.Auth.WorkerToken)

	h := handler.New(handler.Dependencies{
		Jobs:    service.NewJobService(repo, gateway, events, cfg),
		Viewer:  service.NewViewerService(repo, gateway, cfg),
		Catalog: service.NewCatalogService(repo, gateway, cfg),
		Auth:    service.NewAuthService(repo, tokens, cfg),
	})

	r := gin.New()
	r.Use(gin.Recovery(), handler.CORS(), handler.RequestLogger(*zerolog.Ctx(ctx)), metrics.PrometheusMiddleware())
	addHealth(r)
	r.GET("/metrics", metrics.MetricsHandler)
	r.Static("/public", "public")
	h.Register(r, tokens, limiter)

	srv := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Str("addr", srv.Addr).Msg("start http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
			cancel()
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	shutdownCtx, done := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}
	if closer, ok := limiter.(*ratelimit.Redis); ok {
		_ = closer.Close()
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

// newGateway returns nil when object storage is not configured so that upload
// endpoints answer storage_unavailable.
func newGateway(ctx context.Context, cfg *config.Config) storage.Gateway {
	if cfg.Storage == nil {
		zerolog.Ctx(ctx).Warn().Msg("minio not configured, uploads and media urls disabled")
		return nil
	}
	m := storage.NewMinIO(cfg.Storage, cfg.Buckets.PublicBaseURL)
	if err := m.EnsureBuckets(ctx, cfg.Buckets.Raw, cfg.Buckets.Processed); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("EnsureBuckets")
	}
	return m
}

func newPublisher(ctx context.Context, cfg *config.Config) rabbitmq.Publisher {
	if !cfg.Queue.Enabled() {
		return rabbitmq.NewNoop()
	}
	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn, job events disabled")
		return rabbitmq.NewNoop()
	}
	return rabbitmq.NewPublisher(conn, cfg.Queue)
}

func newLimiter(ctx context.Context, cfg *config.Config) ratelimit.Limiter {
	if cfg.Redis.URL == "" {
		return nil
	}
	limiter, err := ratelimit.NewRedis(cfg.Redis.URL, cfg.Redis.GuestPerMinute, time.Minute)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("redis limiter disabled")
		return nil
	}
	if err := limiter.Ping(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("redis unreachable, limiter fails open")
	}
	return limiter
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
