package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/CarterPerez-dev/my-portfolio/internal/auth"
	"github.com/CarterPerez-dev/my-portfolio/internal/config"
	"github.com/CarterPerez-dev/my-portfolio/internal/domain"
	handler "github.com/CarterPerez-dev/my-portfolio/internal/handler/http"
	"github.com/CarterPerez-dev/my-portfolio/internal/repository/postgres"
	redisrepo "github.com/CarterPerez-dev/my-portfolio/internal/repository/redis"
	"github.com/CarterPerez-dev/my-portfolio/internal/service"
	"github.com/CarterPerez-dev/my-portfolio/migrations"
	"github.com/CarterPerez-dev/my-portfolio/pkg/database"
	"github.com/CarterPerez-dev/my-portfolio/pkg/health"
	"github.com/CarterPerez-dev/my-portfolio/pkg/middleware"
	"github.com/CarterPerez-dev/my-portfolio/pkg/tracing"
)

// App wires together all dependencies and runs the portfolio API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	sessions       *service.SessionService
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
	sweeperStop    context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "portfolio",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "portfolio")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Redis is optional. When unreachable the API serves straight from
	// Postgres and the health check reports the cache as degraded.
	var redisClient *redis.Client
	var contentCache service.ContentCache
	if cfg.CacheEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis unavailable, content caching disabled",
				slog.String("error", err.Error()),
			)
			redisClient = nil
		} else {
			contentCache = redisrepo.NewContentCache(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)
			logger.Info("connected to Redis",
				slog.String("host", cfg.RedisHost),
				slog.Int("port", cfg.RedisPort),
			)
		}
	}

	accessTTL, err := cfg.AccessTokenTTL()
	if err != nil {
		pool.Close()
		return nil, err
	}
	refreshTTL, err := cfg.RefreshTokenTTL()
	if err != nil {
		pool.Close()
		return nil, err
	}
	resetTTL, err := cfg.ResetTokenTTL()
	if err != nil {
		pool.Close()
		return nil, err
	}

	// Build the dependency graph.
	codec := auth.NewCodec(cfg.JWTSecret, cfg.JWTIssuer)
	hasher := auth.NewHasherWithCost(cfg.BcryptCost)
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewRefreshTokenRepository(pool)
	resetRepo := postgres.NewPasswordResetTokenRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	experienceRepo := postgres.NewExperienceRepository(pool)
	certificationRepo := postgres.NewCertificationRepository(pool)
	blogRepo := postgres.NewBlogRepository(pool)
	searchRepo := postgres.NewSearchRepository(pool)

	sessions := service.NewSessionService(userRepo, tokenRepo, resetRepo, codec, hasher, accessTTL, refreshTTL, resetTTL, logger)
	portfolio := service.NewPortfolioService(projectRepo, experienceRepo, certificationRepo, blogRepo, contentCache, logger)
	search := service.NewSearchService(searchRepo, logger)

	// Seed the admin account when configured and absent.
	if cfg.AdminEmail != "" {
		if err := seedAdmin(ctx, userRepo, hasher, cfg, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed admin account: %w", err)
		}
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(sessions, portfolio, search, healthHandler, logger, handler.RouterConfig{
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		PublicCacheMaxAge: cfg.PublicCacheMaxAge,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		sessions:       sessions,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// seedAdmin creates the configured admin account if it does not exist yet.
func seedAdmin(ctx context.Context, userRepo *postgres.UserRepository, hasher *auth.Hasher, cfg *config.Config, logger *slog.Logger) error {
	if _, err := userRepo.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.New().String(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FullName:     cfg.AdminFullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	logger.Info("admin account seeded", slog.String("email", cfg.AdminEmail))
	return nil
}

// Run starts the HTTP server and the token sweeper, then blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	a.sweeperStop = stopSweeper
	go a.runTokenSweeper(sweepCtx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// runTokenSweeper periodically purges expired refresh and reset tokens.
func (a *App) runTokenSweeper(ctx context.Context) {
	interval := time.Duration(a.cfg.SweepIntervalMins) * time.Minute
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := a.sessions.PurgeExpired(sweepCtx); err != nil {
				a.logger.Error("token sweep failed", slog.String("error", err.Error()))
			}
			cancel()
		}
	}
}

// Shutdown gracefully stops all components in the correct order:
// 1. Token sweeper
// 2. HTTP server (drain in-flight requests)
// 3. Tracer (flush pending spans from drained requests)
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	if a.sweeperStop != nil {
		a.sweeperStop()
	}

	// Drain in-flight HTTP requests.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
