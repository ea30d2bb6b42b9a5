package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	cartapp "github.com/piora/backend/internal/application/cart"
	catalogapp "github.com/piora/backend/internal/application/catalog"
	identityapp "github.com/piora/backend/internal/application/identity"
	"github.com/piora/backend/internal/infrastructure/auth"
	"github.com/piora/backend/internal/infrastructure/config"
	"github.com/piora/backend/internal/infrastructure/logger"
	"github.com/piora/backend/internal/infrastructure/persistence"
	"github.com/piora/backend/internal/infrastructure/storage"
	"github.com/piora/backend/internal/interfaces/http/dto"
	"github.com/piora/backend/internal/interfaces/http/handler"
	"github.com/piora/backend/internal/interfaces/http/middleware"
	"github.com/piora/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	gormLogLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormLogLevel))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close() }()

	blacklist := newTokenBlacklist(cfg, log)

	objStorage, err := newObjectStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	cartTxScope := persistence.NewGormCartTransactionScope(db.DB)
	catalogTxScope := persistence.NewGormCatalogTransactionScope(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	googleVerifier := auth.NewGoogleOAuthVerifier(cfg.Google)

	authService := identityapp.NewAuthService(
		userRepo, jwtService, blacklist, googleVerifier,
		identityapp.DefaultAuthServiceConfig(), log,
	)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, objStorage)
	categoryService := catalogapp.NewCategoryService(categoryRepo, catalogTxScope, objStorage)
	cartService := cartapp.NewCartService(cartRepo, cartTxScope)

	if err := dto.RegisterValidations(); err != nil {
		return fmt.Errorf("register validations: %w", err)
	}

	engine := newEngine(cfg, log)

	systemHandler := handler.NewSystemHandler(db, version)
	systemHandler.RegisterRoutes(engine)

	jwtAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})

	apiRouter := router.New(engine, jwtAuth)
	apiRouter.Public().GET("/ping", systemHandler.Ping)

	if cfg.HTTP.AuthRateLimitEnabled {
		// Credential endpoints get a stricter budget than the global limit.
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		apiRouter.Public().Use(pathPrefixMiddleware("/api/v1/auth", middleware.RateLimit(authLimiter)))
	}

	apiRouter.Mount(
		handler.NewAuthHandler(authService),
		handler.NewProductHandler(productService),
		handler.NewCategoryHandler(categoryService),
		handler.NewCartHandler(cartService),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newEngine builds the gin engine with the shared middleware stack.
func newEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	return engine
}

// newTokenBlacklist connects to Redis, falling back to the in-memory
// store when Redis is unreachable. The in-memory store loses state on
// restart, acceptable outside production.
func newTokenBlacklist(cfg *config.Config, log *zap.Logger) auth.TokenBlacklist {
	blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("redis unavailable", zap.Error(err))
		}
		log.Warn("redis unavailable, using in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}
	log.Info("token blacklist backed by redis", zap.String("addr", cfg.Redis.Addr()))
	return blacklist
}

// newObjectStorage builds the S3 client, or the stub when no bucket is
// configured so local development needs no MinIO.
func newObjectStorage(cfg *config.Config, log *zap.Logger) (catalogapp.ObjectStorageService, error) {
	if cfg.Storage.Bucket == "" {
		log.Warn("no storage bucket configured, using stub object storage")
		return storage.NewStubObjectStorage(), nil
	}

	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		if cfg.App.Env == "production" {
			return nil, err
		}
		log.Warn("object storage unreachable, using stub", zap.Error(err))
		return storage.NewStubObjectStorage(), nil
	}

	log.Info("object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	return s3Storage, nil
}

// pathPrefixMiddleware applies mw only to requests under prefix.
func pathPrefixMiddleware(prefix string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(c.Request.URL.Path) >= len(prefix) && c.Request.URL.Path[:len(prefix)] == prefix {
			mw(c)
			return
		}
		c.Next()
	}
}
