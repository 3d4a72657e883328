package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sebastianliew/l2l-backend/internal/authz/config"
	"github.com/sebastianliew/l2l-backend/internal/authz/handler"
	"github.com/sebastianliew/l2l-backend/internal/authz/model"
	"github.com/sebastianliew/l2l-backend/internal/authz/policy"
	"github.com/sebastianliew/l2l-backend/internal/authz/repository"
	"github.com/sebastianliew/l2l-backend/internal/authz/router"
	"github.com/sebastianliew/l2l-backend/internal/authz/service"
	"github.com/sebastianliew/l2l-backend/internal/authz/util"
)

func main() {
	// 0. Init Logger
	util.InitLogger()
	logger := util.GetLogger()

	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Init MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	// 3. Init Layers
	db := client.Database(cfg.DBName)
	repo := repository.NewMongoRepository(db, cfg.PrincipalsCollection, cfg.AuditCollection)

	if err := repo.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure indexes", "error", err)
	}

	var store repository.PrincipalStore = repo
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store = repository.NewCachedPrincipalStore(repo, rdb, cfg.PrincipalCacheTTL)
		logger.Info("Principal cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.PrincipalCacheTTL)
	}

	engine := policy.NewEngine()

	// Custom predicates referenced by the embedded route table.
	predicates := map[string]policy.Predicate{
		// A user may read their own account; anyone else needs the
		// user-management view grant.
		"self_or_user_admin": func(p *model.Principal, op model.OperationDescriptor) bool {
			if strings.HasSuffix(op.Path, "/"+p.ID) {
				return true
			}
			ok, err := engine.HasPermission(p, model.CategoryUserManagement, "canViewUsers")
			return err == nil && ok
		},
	}

	// A registry that fails validation leaves the engine in an inconsistent
	// state; refuse to start.
	registry, err := policy.LoadDefaultRegistry(predicates)
	if err != nil {
		logger.Error("Failed to load route permissions", "error", err)
		os.Exit(1)
	}

	svc := service.NewService(store, repo, repo, engine, registry, logger, service.Options{
		PrincipalReadTimeout: cfg.PrincipalReadTimeout,
		AuditWriteTimeout:    cfg.AuditWriteTimeout,
		AllowUnmatchedRoutes: cfg.AllowUnmatchedRoutes,
	})
	h := handler.NewAuthzHandler(svc)
	authz := handler.NewAuthzMiddleware(svc)

	// 4. Init Echo & Routes
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	router.RegisterRoutes(e, h, authz)

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}

	if err := client.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect DB", "error", err)
	}

	logger.Info("Server exited properly")
}
