// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-service/internal/config"
	"storefront-service/internal/db"
	domaincart "storefront-service/internal/domain/cart"
	"storefront-service/internal/middleware"
	"storefront-service/internal/pkg/jwt"
	"storefront-service/internal/pkg/session"
	"storefront-service/internal/repository"
	"storefront-service/internal/repository/memory"
	"storefront-service/internal/repository/postgres"
	"storefront-service/internal/repository/redisstore"
	accountsvc "storefront-service/internal/service/account"
	"storefront-service/internal/service/email"
	"storefront-service/internal/websocket"
	wsHandlers "storefront-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger

	pool   *pgxpool.Pool
	redis  *redis.Client
	cancel context.CancelFunc

	accountService *accountsvc.AccountService
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- Storage -----
	set, err := s.openStore(ctx)
	if err != nil {
		return err
	}

	// ----- Redis (optional) -----
	if s.cfg.RedisAddr != "" {
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       0,
			PoolSize: 10,
		})
		if err != nil {
			logger.Warn("redis unavailable, cart and rate limiting disabled", zap.Error(err))
		} else {
			s.redis = client
			logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
		}
	}
	rateLimiter := session.NewRateLimiter(s.redis)

	var cartStore domaincart.Store
	switch {
	case s.redis != nil:
		cartStore = redisstore.NewCartStore(s.redis)
	case s.cfg.StoreDriver == "memory":
		cartStore = memory.NewCartStore()
	}

	// ----- JWT Manager -----
	var (
		tokens   *jwt.Generator
		verifier *jwt.Verifier
	)
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		logger.Warn("jwt keys not loaded, login disabled", zap.Error(err))
	} else {
		tokens, verifier = jwtManager.Generator, jwtManager.Verifier
	}

	// ----- Email -----
	var mailer accountsvc.Mailer
	if s.cfg.SMTPHost != "" {
		mailer = email.NewEmailSender(
			s.cfg.SMTPHost,
			s.cfg.SMTPPort,
			s.cfg.SMTPUser,
			s.cfg.SMTPPass,
			s.cfg.SMTPFromName,
			s.cfg.SMTPSecure,
		)
	}

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(verifier, logger)
	hub.RegisterHandler(wsHandlers.NewApprovalsHandler(set.Todos))
	go hub.Run(ctx)

	handlers, accountService := buildHandlers(s.cfg, infra{
		Set:       set,
		CartStore: cartStore,
		Tokens:    tokens,
		Verifier:  verifier,
		Limiter:   rateLimiter,
		Mailer:    mailer,
		Hub:       hub,
	}, logger)
	s.accountService = accountService

	// ----- Initialize Staff User -----
	if err := s.initializeStaffUser(); err != nil {
		logger.Error("failed to initialize staff user", zap.Error(err))
		// Don't fail startup, just log the error
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)

	// ----- Router -----
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	s.http = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr), zap.String("store", s.cfg.StoreDriver))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) openStore(ctx context.Context) (repository.Set, error) {
	if s.cfg.StoreDriver == "memory" {
		s.logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore().Set(), nil
	}

	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return repository.Set{}, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	s.logger.Info("postgres connected")
	return postgres.NewDB(pool).Set(), nil
}

// Shutdown drains HTTP, stops the hub and closes the pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return err
}

// initializeStaffUser creates the staff user from the environment when configured.
func (s *Server) initializeStaffUser() error {
	if s.cfg.AdminEmail == "" {
		s.logger.Info("ADMIN_EMAIL not set, skipping staff user bootstrap")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if len(s.cfg.AdminPassword) < 8 {
		return fmt.Errorf("staff password must be at least 8 characters")
	}

	if err := s.accountService.EnsureStaffUser(ctx, s.cfg.AdminEmail, s.cfg.AdminPassword, s.cfg.AdminName); err != nil {
		return fmt.Errorf("failed to ensure staff user exists: %w", err)
	}
	return nil
}
