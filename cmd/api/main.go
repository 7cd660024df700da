package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"contact-pipeline/internal/app"
	"contact-pipeline/internal/config"
	"contact-pipeline/internal/observability/logging"
	"contact-pipeline/internal/observability/metrics"
	"contact-pipeline/internal/observability/tracing"
	pkgconfig "contact-pipeline/pkg/config"

	contactUC "contact-pipeline/internal/usecase/contact"
	"contact-pipeline/internal/usecase/notify"

	hhttp "contact-pipeline/internal/handler/http"
	hauth "contact-pipeline/internal/handler/http/auth"
	hcontact "contact-pipeline/internal/handler/http/contact"
	"contact-pipeline/internal/handler/http/middleware"
	"contact-pipeline/internal/handler/http/requestid"

	_ "contact-pipeline/docs" // swagger docs
)

// @title           Contact Pipeline API
// @version         1.0
// @description     お問い合わせフォームの受付と管理者向け閲覧 API。
// @description     送信内容は保存後に AI で要約され、通知チャネルへ配信されます。

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT トークンによる認証。ヘッダーに "Bearer {token}" 形式で指定してください。

const (
	adminRequestTimeout = 10 * time.Second
	limiterCleanupEvery = time.Minute
)

func main() {
	_ = godotenv.Load()

	logger := initLogger()
	cfg := loadConfig(logger)
	security := loadSecurityConfig(logger, cfg)
	jwtSecret := validateAdmin(logger, cfg, security)

	shutdownTracing := tracing.Init(tracing.ServiceName, cfg.Version)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", logging.Err(err))
		}
	}()

	components := setupServer(logger, cfg, security, jwtSecret)
	defer components.Close(logger)

	runServer(logger, cfg, components)
}

// initLogger initializes and returns the JSON logger at LOG_LEVEL.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

func loadConfig(logger *slog.Logger) *config.AppConfig {
	cfg := config.LoadAppConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", logging.Err(err))
		os.Exit(1)
	}
	return cfg
}

func loadSecurityConfig(logger *slog.Logger, cfg *config.AppConfig) *config.SecurityConfig {
	security, err := config.LoadSecurityConfig(cfg.SecurityConfigPath)
	if err != nil {
		logger.Error("failed to load security configuration", logging.Err(err))
		os.Exit(1)
	}
	return security
}

// validateAdmin refuses to start with weak admin credentials or a weak JWT
// secret, and returns the secret.
func validateAdmin(logger *slog.Logger, cfg *config.AppConfig, security *config.SecurityConfig) []byte {
	policy := hauth.DefaultPasswordPolicy()
	policy.MinLength = security.GetMinPasswordLength()
	if weak := security.GetWeakPasswords(); len(weak) > 0 {
		policy.WeakPasswords = weak
	}
	if err := hauth.ValidateAdminCredentials(cfg.AdminUser, cfg.AdminPassword, policy); err != nil {
		logger.Error("admin credentials validation failed", logging.Err(err))
		os.Exit(1)
	}

	secret := pkgconfig.GetEnvString(security.GetJWTSecretEnv(), cfg.JWTSecret)
	if err := hauth.ValidateJWTSecret(secret); err != nil {
		logger.Error("JWT secret validation failed",
			slog.String("env", security.GetJWTSecretEnv()),
			logging.Err(err))
		os.Exit(1)
	}

	logger.Info("admin authentication configured",
		slog.String("provider", security.GetAuthProvider()),
		slog.String("user", cfg.AdminUser),
		slog.Duration("token_expiry", security.GetJWTExpiry()))
	return []byte(secret)
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler    http.Handler
	Store      *app.Store
	Summary    *app.Summary
	Dispatcher notify.Dispatcher
	Redis      *redis.Client
	Limiters   []*middleware.IPRateLimiter
}

// Close releases everything setupServer opened, dispatcher first so that
// in-flight summaries finish before their dependencies go away.
func (c *ServerComponents) Close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Dispatcher.Shutdown(ctx); err != nil {
		logger.Warn("summary dispatcher did not drain", logging.Err(err))
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Warn("failed to close redis client", logging.Err(err))
		}
	}
	if err := c.Summary.Close(); err != nil {
		logger.Warn("failed to close summarizer", logging.Err(err))
	}
	if err := c.Store.Close(); err != nil {
		logger.Error("failed to close database", logging.Err(err))
	}
}

// setupServer opens the store, builds the pipeline and returns the HTTP
// handler with all routes and middleware.
func setupServer(logger *slog.Logger, cfg *config.AppConfig, security *config.SecurityConfig, jwtSecret []byte) *ServerComponents {
	ctx := context.Background()

	store, err := app.OpenStore(ctx, cfg, true)
	if err != nil {
		logger.Error("failed to open submission store", logging.Err(err))
		os.Exit(1)
	}

	summary, err := app.NewSummary(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build summarizer", logging.Err(err))
		os.Exit(1)
	}

	dispatcher, rdb, err := app.NewDispatcher(ctx, cfg, summary.Runner)
	if err != nil {
		logger.Error("failed to build summary dispatcher", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("summary dispatcher ready", slog.String("mode", cfg.SummaryQueue))

	if err := store.RefreshGauges(ctx); err != nil {
		logger.Warn("initial stored submission count failed", logging.Err(err))
	}
	metrics.SetBuildInfo(cfg.Version, "api")

	// Load trusted proxy configuration for IP extraction
	proxyConfig, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", logging.Err(err))
		os.Exit(1)
	}

	var ipExtractor middleware.IPExtractor
	if proxyConfig.Enabled {
		ipExtractor = middleware.NewTrustedProxyExtractor(*proxyConfig)
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyConfig.AllowedCIDRs)))
	} else {
		ipExtractor = &middleware.RemoteAddrExtractor{}
		logger.Info("rate limiting: using RemoteAddr (secure mode, proxy headers ignored)")
	}

	contactLimitCfg := middleware.DefaultIPRateLimiterConfig("contact")
	contactLimitCfg.RPS = cfg.RateLimitRPS
	contactLimitCfg.Burst = cfg.RateLimitBurst
	contactLimiter := middleware.NewIPRateLimiter(contactLimitCfg, ipExtractor)

	// レート制限: 認証エンドポイントは1分間に5リクエストまで
	authLimitCfg := middleware.DefaultIPRateLimiterConfig("auth")
	authLimitCfg.RPS = 5.0 / 60
	authLimiter := middleware.NewIPRateLimiter(authLimitCfg, ipExtractor)

	logger.Info("rate limiting initialized",
		slog.Float64("contact_rps", contactLimitCfg.RPS),
		slog.Int("contact_burst", contactLimitCfg.Burst))

	pipeline := contactUC.NewPipeline(store.Repo, dispatcher)
	viewer := &contactUC.Viewer{Repo: store.Repo}

	checks := []hhttp.Check{{Name: "store", Ping: store.Ping, Critical: true}}
	if rdb != nil {
		checks = append(checks, hhttp.Check{
			Name: "queue",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	issuer := hauth.NewIssuer(jwtSecret, security.GetJWTExpiry())
	admin := func(next http.Handler) http.Handler {
		return hauth.Authz(jwtSecret, security.GetPublicEndpoints())(hhttp.Timeout(adminRequestTimeout)(next))
	}

	mux := http.NewServeMux()
	hcontact.Register(mux, hcontact.Routes{
		Submit:      hcontact.SubmitHandler{Pipeline: pipeline},
		Details:     hcontact.DetailsHandler{Details: cfg.ContactDetails()},
		List:        hcontact.ListHandler{Viewer: viewer},
		Get:         hcontact.GetHandler{Viewer: viewer},
		SubmitLimit: contactLimiter.Middleware(),
		Admin:       admin,
	})
	mux.Handle("POST /auth/token",
		authLimiter.Middleware()(hauth.TokenHandler(hauth.NewAdminProvider(cfg.AdminUser, cfg.AdminPassword), issuer)))

	// ヘルスチェックエンドポイント（認証不要）
	mux.Handle("GET /health", &hhttp.HealthHandler{Checks: checks, Channels: summary.Runner, Version: cfg.Version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Checks: checks})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// Swagger UI（認証不要）
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return &ServerComponents{
		Handler:    applyMiddleware(logger, mux),
		Store:      store,
		Summary:    summary,
		Dispatcher: dispatcher,
		Redis:      rdb,
		Limiters:   []*middleware.IPRateLimiter{contactLimiter, authLimiter},
	}
}

// applyMiddleware wraps the handler with middleware chain.
// Middleware order: CORS → Request ID → Input Validation → Recovery → Logging → Tracing → Body Limit → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", logging.Err(err))
		os.Exit(1)
	}
	corsConfig.Logger = logger

	logger.Info("CORS enabled",
		slog.Int("allowed_origins_count", len(corsConfig.AllowedOrigins)),
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	// Apply in reverse order (innermost to outermost)
	middlewareChain := handler
	middlewareChain = hhttp.MetricsMiddleware(middlewareChain)
	middlewareChain = hhttp.LimitRequestBody(hhttp.DefaultMaxBodyBytes)(middlewareChain)
	middlewareChain = tracing.Middleware(middlewareChain)
	middlewareChain = hhttp.Logging(logger)(middlewareChain)
	middlewareChain = hhttp.Recover(logger)(middlewareChain)
	middlewareChain = hhttp.InputValidation()(middlewareChain)
	middlewareChain = requestid.Middleware(middlewareChain)
	middlewareChain = middleware.CORS(*corsConfig)(middlewareChain)

	return middlewareChain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.AppConfig, components *ServerComponents) {
	// Create a context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, limiter := range components.Limiters {
		go limiter.StartCleanup(ctx, limiterCleanupEvery)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", logging.Err(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Shutdown HTTP server before cancelling the base context so in-flight
	// submissions are not cut off.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", logging.Err(err))
	}
	cancel()
	logger.Info("server stopped")
}
