package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"guessgame-server/internal/ai"
	"guessgame-server/internal/config"
	"guessgame-server/internal/handler"
	"guessgame-server/internal/logger"
	"guessgame-server/internal/middleware"
	"guessgame-server/internal/repository"
	"guessgame-server/internal/service"
	"guessgame-server/migrations"
	"guessgame-server/pkg/migration"
)

const (
	maxConnectRetries = 50
	connectRetryDelay = 3 * time.Second
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	zap.ReplaceGlobals(appLogger)

	appLogger.Info("Starting guessgame server", zap.String("env", cfg.Env))

	pgPool, err := setupPostgres(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	redisClient, err := setupRedis(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, pgPool, appLogger)
	if err := migrator.Up(context.Background()); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewPgUserRepository(pgPool, appLogger)
	characterRepo := repository.NewPgCharacterRepository(pgPool, appLogger)
	gameRepo := repository.NewPgGameRepository(pgPool, appLogger)
	authTokenRepo := repository.NewPgAuthTokenRepository(pgPool, appLogger)
	sessionRepo := repository.NewRedisTokenRepository(redisClient, appLogger)

	// Services
	answerer, err := ai.NewAnswerer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI client", zap.Error(err))
	}
	emailService, err := service.NewEmailService(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize email service", zap.Error(err))
	}
	tokenService := service.NewTokenService(authTokenRepo, cfg.VerificationTokenTTL, cfg.ResetTokenTTL, appLogger)
	recaptcha := service.NewRecaptchaVerifier(cfg.RecaptchaSecret, cfg.RecaptchaThreshold, cfg.RecaptchaEnabled, appLogger)
	authService := service.NewAuthService(userRepo, sessionRepo, tokenService, emailService, recaptcha, cfg, appLogger)
	gameService := service.NewGameService(gameRepo, characterRepo, answerer, appLogger)
	characterService := service.NewCharacterService(characterRepo, appLogger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	gameHandler := handler.NewGameHandler(gameService, authService)
	characterHandler := handler.NewCharacterHandler(characterService, authService)
	contactHandler := handler.NewContactHandler(emailService)

	generalLimiter := newRateLimiter(redisClient, cfg.RateLimitPeriod, cfg.RateLimitGeneral, func(c *gin.Context) string {
		return c.ClientIP()
	})
	// Question asks are limited per user so a shared IP does not starve players.
	questionLimiter := newRateLimiter(redisClient, time.Minute, cfg.RateLimitQuestions, func(c *gin.Context) string {
		if userID, ok := c.Get(handler.ContextKeyUserID); ok {
			return fmt.Sprintf("%v", userID)
		}
		return c.ClientIP()
	})

	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(appLogger))
	router.Use(gin.Recovery())
	router.Use(generalLimiter)

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	authHandler.RegisterRoutes(router)
	gameHandler.RegisterRoutes(router, questionLimiter)
	characterHandler.RegisterRoutes(router)
	contactHandler.RegisterRoutes(router)

	p.Use(router)

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	go runTokenPurge(purgeCtx, tokenService, cfg.TokenPurgeInterval, appLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutdown signal received")

	stopPurge()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited")
}

func setupPostgres(cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pool, err = pgxpool.NewWithConfig(connectCtx, poolConfig)
		cancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			err = pool.Ping(pingCtx)
			pingCancel()
			if err == nil {
				logger.Info("Connected to PostgreSQL",
					zap.String("host", cfg.DBHost),
					zap.String("database", cfg.DBName))
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn("PostgreSQL not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxConnectRetries),
			zap.Error(err))
		time.Sleep(connectRetryDelay)
	}
	return nil, fmt.Errorf("could not connect to PostgreSQL after %d attempts: %w", maxConnectRetries, err)
}

func setupRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	var err error
	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
			return client, nil
		}
		logger.Warn("Redis not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxConnectRetries),
			zap.Error(err))
		time.Sleep(connectRetryDelay)
	}
	return nil, fmt.Errorf("could not connect to Redis after %d attempts: %w", maxConnectRetries, err)
}

func newRateLimiter(client *redis.Client, rate time.Duration, limit int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	store := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: client,
		Rate:        rate,
		Limit:       uint(limit),
	})
	return rateli.RateLimiter(store, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			c.String(http.StatusTooManyRequests,
				"Too many requests. Try again in "+time.Until(info.ResetTime).String())
		},
		KeyFunc: keyFunc,
	})
}

func runTokenPurge(ctx context.Context, tokenService service.TokenService, interval time.Duration, logger *zap.Logger) {
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
			purgeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := tokenService.PurgeExpired(purgeCtx)
			cancel()
			if err != nil {
				logger.Error("Token purge failed", zap.Error(err))
			} else if removed > 0 {
				logger.Info("Purged expired tokens", zap.Int64("removed", removed))
			}
		}
	}
}
