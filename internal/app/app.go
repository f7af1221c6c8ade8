// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/garyellow/umigame-linebot-go/internal/bot"
	"github.com/garyellow/umigame-linebot-go/internal/buildinfo"
	"github.com/garyellow/umigame-linebot-go/internal/config"
	"github.com/garyellow/umigame-linebot-go/internal/creature"
	"github.com/garyellow/umigame-linebot-go/internal/dedup"
	"github.com/garyellow/umigame-linebot-go/internal/genai"
	"github.com/garyellow/umigame-linebot-go/internal/httpclient"
	"github.com/garyellow/umigame-linebot-go/internal/logger"
	"github.com/garyellow/umigame-linebot-go/internal/messenger"
	"github.com/garyellow/umigame-linebot-go/internal/metrics"
	"github.com/garyellow/umigame-linebot-go/internal/ratelimit"
	"github.com/garyellow/umigame-linebot-go/internal/sentry"
	"github.com/garyellow/umigame-linebot-go/internal/storage"
	"github.com/garyellow/umigame-linebot-go/internal/weather"
	"github.com/garyellow/umigame-linebot-go/internal/webhook"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "umigame-linebot-go"

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	db             *storage.DB
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	sqliteDedup    *dedup.SQLiteStore // set when DEDUP_BACKEND=sqlite
	redisDedup     *dedup.RedisStore  // set when DEDUP_BACKEND=redis
	completer      *genai.FallbackCompleter
	router         *bot.Router
	webhookHandler *webhook.Handler
	server         *http.Server
	llmLimiter     *ratelimit.KeyedLimiter
	userLimiter    *ratelimit.KeyedLimiter
	wg             sync.WaitGroup
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", serviceName)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog.*Context calls pick up user, chat and request IDs.
	slog.SetDefault(log.Logger)

	log.WithField("version", buildinfo.Version).
		WithField("commit", buildinfo.Commit).
		WithField("build_date", buildinfo.BuildDate).
		Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
	}

	db, err := storage.New(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	app := &Application{
		cfg:      cfg,
		logger:   log,
		db:       db,
		metrics:  m,
		registry: registry,
	}

	var store dedup.Store
	switch cfg.DedupBackend {
	case config.DedupBackendRedis:
		client, err := dedup.NewRedisClient(cfg.RedisURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		rs, err := dedup.NewRedisStore(ctx, &dedup.RedisConfig{RedisClient: client, TTL: cfg.DedupTTL})
		if err != nil {
			_ = client.Close()
			_ = db.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		app.redisDedup = rs
		store = rs
	default:
		app.sqliteDedup = dedup.NewSQLiteStore(db, cfg.DedupTTL)
		store = app.sqliteDedup
	}
	log.WithField("backend", cfg.DedupBackend).WithField("ttl", cfg.DedupTTL).Info("Event deduplication configured")

	var completer genai.Completer
	if cfg.HasLLMProvider() {
		fc, err := genai.NewCompleter(ctx, buildLLMConfig(cfg), m)
		if err != nil {
			log.WithError(err).Warn("LLM completer initialization failed")
		} else if fc != nil {
			app.completer = fc
			completer = fc
			log.WithField("provider", fc.Provider()).WithField("model", fc.Model()).Info("LLM features enabled")
		}
	}
	if completer == nil {
		log.Info("No LLM provider configured, puzzle and chat features will report unavailability")
	}
	assistant := genai.NewAssistant(completer, genai.WithCallTimeout(cfg.Bot.ProviderTimeout))

	weatherClient := weather.NewClient(
		httpclient.NewClient(config.ContentRequest,
			httpclient.WithRetry(config.ContentRetries, config.ContentRetryDelay),
			httpclient.WithMetrics(m, "weather")),
		weather.Config{Locations: cfg.Bot.WeatherLocations},
	)
	creatureClient := creature.NewClient(
		httpclient.NewClient(config.ContentRequest,
			httpclient.WithRetry(config.ContentRetries, config.ContentRetryDelay),
			httpclient.WithMetrics(m, "creature")),
		"",
	)

	msgr, err := messenger.New(messenger.Config{
		ChannelToken: cfg.LineChannelToken,
		GlobalRPS:    cfg.Bot.GlobalRateRPS,
		Metrics:      m,
		Logger:       log,
	})
	if err != nil {
		app.closeStores()
		return nil, fmt.Errorf("messenger: %w", err)
	}

	app.llmLimiter = ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "llm",
		Burst:         cfg.Bot.LLMRateBurst,
		RefillRate:    cfg.Bot.LLMRateRefill,
		DailyLimit:    cfg.Bot.LLMRateDaily,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Metrics:       m,
	})
	app.userLimiter = ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "user",
		Burst:         cfg.Bot.UserRateBurst,
		RefillRate:    cfg.Bot.UserRateRefill,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Metrics:       m,
	})

	app.router = bot.NewRouter(bot.RouterConfig{
		Messenger:  msgr,
		Assistant:  assistant,
		Weather:    weatherClient,
		Creatures:  creatureClient,
		Feedback:   db,
		LLMLimiter: app.llmLimiter,
		Metrics:    m,
		Logger:     log,
	})

	app.webhookHandler, err = webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret: cfg.LineChannelSecret,
		Router:        app.router,
		Loading:       msgr,
		Dedup:         dedup.NewFilter(store, m, log),
		UserLimiter:   app.userLimiter,
		Metrics:       m,
		Logger:        log,
	}, webhook.WithBotConfig(&cfg.Bot))
	if err != nil {
		app.stopLimiters()
		app.closeStores()
		return nil, fmt.Errorf("webhook: %w", err)
	}

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// buildLLMConfig creates an LLMConfig from the application config.
func buildLLMConfig(cfg *config.Config) genai.LLMConfig {
	llmCfg := genai.DefaultLLMConfig()

	if len(cfg.LLMProviders) > 0 {
		llmCfg.Providers = genai.ParseProviders(cfg.LLMProviders)
	}

	llmCfg.Gemini.APIKey = cfg.GeminiAPIKey
	llmCfg.OpenAI.APIKey = cfg.OpenAIAPIKey
	llmCfg.Groq.APIKey = cfg.GroqAPIKey

	if len(cfg.GeminiModels) > 0 {
		llmCfg.Gemini.Models = cfg.GeminiModels
	}
	if len(cfg.OpenAIModels) > 0 {
		llmCfg.OpenAI.Models = cfg.OpenAIModels
	}
	if len(cfg.GroqModels) > 0 {
		llmCfg.Groq.Models = cfg.GroqModels
	}

	return llmCfg
}

// routes builds the gin engine serving probes, the webhook and metrics.
func (a *Application) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.POST("/webhook", a.webhookHandler.Handle)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsPassword != "", a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return router
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) getFeatures() map[string]bool {
	return map[string]bool{
		"llm":         a.completer != nil,
		"redis_dedup": a.redisDedup != nil,
		"sentry":      sentry.IsEnabled(),
	}
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.DatabasePing)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: database unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	if a.redisDedup != nil {
		if err := a.redisDedup.Ping(ctx); err != nil {
			a.logger.WithError(err).Warn("Readiness check failed: redis unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "redis unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "connected",
		"sessions": a.router.Sessions().Len(),
		"features": a.getFeatures(),
	})
}

// Run starts the HTTP server and background jobs, then blocks until
// SIGINT or SIGTERM.
//
// Shutdown order:
//  1. Cancel context so background jobs stop
//  2. Wait for background jobs
//  3. Stop the HTTP server and drain webhook events
//  4. Close providers, stores and rate limiters
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.startBackgroundJobs(ctx)
	serverErr := a.startHTTPServer()

	select {
	case sig := <-a.shutdownSignal():
		a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErr:
		a.logger.WithError(err).Error("HTTP server stopped unexpectedly")
	}

	cancel()

	a.logger.Info("Waiting for background jobs to finish...")
	start := time.Now()
	a.wg.Wait()
	a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("All background jobs completed")

	return a.shutdown()
}

// startBackgroundJobs starts all background goroutines tracked by WaitGroup.
func (a *Application) startBackgroundJobs(ctx context.Context) {
	if a.sqliteDedup != nil {
		a.wg.Go(func() {
			a.dedupCleanup(ctx)
		})
	}
}

// startHTTPServer starts the HTTP server in a goroutine. The returned
// channel receives the error if the server stops on its own.
func (a *Application) startHTTPServer() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func (a *Application) shutdownSignal() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return quit
}

// shutdown stops the HTTP server and releases resources. Call it after
// background jobs have finished.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Waiting for webhook events to complete...")
	if err := a.webhookHandler.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Webhook handler shutdown timeout")
	}

	a.logger.Info("Closing resources...")

	if a.completer != nil {
		if err := a.completer.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "llm").Error("Component close error")
		}
	}

	a.stopLimiters()
	a.closeStores()

	if sentry.IsEnabled() && !sentry.Flush(2*time.Second) {
		a.logger.Warn("Sentry flush timed out")
	}

	a.logger.Info("Shutdown complete")

	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("logger shutdown: %w", err)
	}
	return nil
}

func (a *Application) stopLimiters() {
	if a.llmLimiter != nil {
		a.llmLimiter.Stop()
	}
	if a.userLimiter != nil {
		a.userLimiter.Stop()
	}
}

func (a *Application) closeStores() {
	if a.redisDedup != nil {
		if err := a.redisDedup.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "redis").Error("Component close error")
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "database").Error("Component close error")
	}
}
