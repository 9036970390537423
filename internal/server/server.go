package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "kanban-board/docs"
	"kanban-board/internal/auth"
	"kanban-board/internal/cache"
	"kanban-board/internal/config"
	"kanban-board/internal/database"
	"kanban-board/internal/handler"
	"kanban-board/internal/health"
	"kanban-board/internal/middleware"
	"kanban-board/internal/repository"
	"kanban-board/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config

	logger *zap.Logger
	redis  *cache.RedisCache
}

// Deps are the collaborators the router needs. Tests build them over an
// in-memory database.
type Deps struct {
	Service handler.KanbanService
	CSRF    *auth.CSRFManager
	Health  handler.HealthChecker
}

func Init(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db, database.Up, logger); err != nil {
		return nil, err
	}

	var (
		boardCache  cache.Cache = cache.Noop{}
		redisCache  *cache.RedisCache
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		redisCache = cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL, logger)
		boardCache = redisCache
		redisClient = redisCache.Client()
	} else {
		logger.Info("REDIS_URL not set, board cache disabled")
	}

	store := repository.NewStore(db)
	svc := service.NewKanbanService(store, boardCache, logger)

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := NewRouter(cfg, logger, Deps{
		Service: svc,
		CSRF:    auth.NewCSRFManager(cfg.CSRFSecret, cfg.CSRFTTL),
		Health:  &health.Checker{DB: db, Redis: redisClient},
	})

	return &Server{
		Engine: engine,
		DB:     db,
		Config: cfg,
		logger: logger,
		redis:  redisCache,
	}, nil
}

func NewRouter(cfg *config.Config, logger *zap.Logger, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORSMiddleware(cfg.FrontendOrigins()))
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))

	boardHandler := handler.NewBoardHandler(deps.Service)
	columnHandler := handler.NewColumnHandler(deps.Service)
	cardHandler := handler.NewCardHandler(deps.Service)
	csrfHandler := handler.NewCSRFHandler(deps.CSRF)
	healthHandler := handler.NewHealthHandler(deps.Health)

	csrf := func(intent string) gin.HandlerFunc {
		return middleware.CSRFMiddleware(deps.CSRF, intent)
	}

	r.GET("/health", healthHandler.Check)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/csrf-token", csrfHandler.Token)

		// Board routes
		api.GET("/boards", boardHandler.List)
		api.POST("/boards", boardHandler.Create)
		api.GET("/boards/:id", boardHandler.GetByID)
		api.PUT("/boards/:id", csrf(auth.IntentUpdateBoard), boardHandler.Rename)
		api.DELETE("/boards/:id", csrf(auth.IntentDeleteBoard), boardHandler.Delete)

		// Column routes
		api.POST("/boards/:id/columns", columnHandler.Create)
		api.POST("/boards/:id/columns/reorder", columnHandler.Reorder)
		api.PUT("/columns/:id", csrf(auth.IntentUpdateColumn), columnHandler.Rename)
		api.DELETE("/columns/:id", csrf(auth.IntentDeleteColumn), columnHandler.Delete)

		// Card routes
		api.POST("/columns/:id/cards", cardHandler.Create)
		api.PUT("/cards/:id", csrf(auth.IntentUpdateCard), cardHandler.Update)
		api.DELETE("/cards/:id", csrf(auth.IntentDeleteCard), cardHandler.Delete)
		api.POST("/kanban/move-card", cardHandler.Move)
	}

	return r
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		s.close()
		return err
	case <-quit:
	}
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(ctx)
	s.close()
	if err != nil {
		return err
	}

	s.logger.Info("Server exited gracefully")
	return nil
}

func (s *Server) close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close Redis", zap.Error(err))
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
