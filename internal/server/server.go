package server

import (
	"context"
	"fmt"
	"net/http"

	"crowdfix/configs"
	"crowdfix/internal/dbs"
	"crowdfix/internal/handlers"
	"crowdfix/internal/logger"
	"crowdfix/internal/middlewares"
	"crowdfix/internal/repositories"
	"crowdfix/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret string
	// Cache backs the problem listing; nil disables caching.
	Cache services.Cache
	// Registry receives request metrics and is served on /metrics; nil
	// disables both.
	Registry *prometheus.Registry
}

// NewRouter serves the board API under /api on db, which must already be
// migrated.
func NewRouter(db *sqlx.DB, opts Options) *gin.Engine {
	cache := opts.Cache
	if cache == nil {
		cache = services.NewNoCache()
	}

	tokenService := services.NewTokenService(opts.JWTSecret)
	userRepo := repositories.NewUserRepository(db)
	problemRepo := repositories.NewProblemRepository(db)
	solutionRepo := repositories.NewSolutionRepository(db)
	voteRepo := repositories.NewVoteRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	router := gin.New()
	router.Use(middlewares.RequestIDMiddleware(), middlewares.ErrorHandlerMiddleware())
	if opts.Registry != nil {
		router.Use(middlewares.MetricsMiddleware(opts.Registry))
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	auth := middlewares.AuthMiddleware(tokenService)
	api := router.Group("/api")

	handlers.NewAuthHandler(userRepo, tokenService).RegisterRoutes(api, auth)
	handlers.NewProblemHandler(problemRepo, cache).RegisterRoutes(api, auth)
	handlers.NewSolutionHandler(problemRepo, solutionRepo).RegisterRoutes(api, auth)
	handlers.NewVoteHandler(solutionRepo, voteRepo).RegisterRoutes(api, auth)
	handlers.NewCommentHandler(solutionRepo, commentRepo).RegisterRoutes(api, auth)

	return router
}

// StartGinServer opens and migrates the database named by cfg and serves
// the API until the listener fails.
func StartGinServer(ctx context.Context, cfg *configs.Config) error {
	db, err := dbs.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := repositories.Migrate(db); err != nil {
		return err
	}

	opts := Options{JWTSecret: cfg.JWTSecret, Registry: prometheus.NewRegistry()}
	if cfg.ServerCache {
		rdb, err := dbs.InitRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer rdb.Close()
		opts.Cache = services.NewRedisCache(rdb, cfg.RedisPrefix+"api:")
	}

	router := NewRouter(db, opts)

	port := ":" + cfg.ServerPort
	logger.Log.Info("Starting server", zap.String("port", port), zap.String("driver", cfg.DBDriver))
	if err := router.Run(port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
