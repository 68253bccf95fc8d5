package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"murmur/config"
	"murmur/internal/handler"
	"murmur/internal/middleware"
	"murmur/internal/redis"
	"murmur/internal/transport/httpdto"
	"murmur/internal/websocket"
	"murmur/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	User   *handler.UserHandler
	Post   *handler.PostHandler
	Chat   *handler.ChatHandler
	Health *handler.HealthHandler
	Relay  *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// SetupRoutes registers every route. limiter may be nil when Redis is disabled.
func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.FrontendOrigin))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/test-db", handlers.Health.TestDB)
	s.engine.POST("/chat", handlers.Chat.Reply)
	s.engine.GET(s.config.WSPath, middleware.ConnectRateLimit(limiter), handlers.Relay.Connect)

	writes := middleware.WriteRateLimit(limiter)
	api := s.engine.Group("/api")
	{
		api.GET("/health", handlers.Health.Health)
		api.GET("/relay/stats", handlers.Health.RelayStats)

		api.GET("/users", handlers.User.List)
		api.POST("/users", writes, handlers.User.Create)
		api.GET("/users/:id", handlers.User.GetByID)

		api.GET("/posts", handlers.Post.List)
		api.POST("/posts", writes, handlers.Post.Create)
		api.GET("/posts/:id", handlers.Post.GetByID)
	}
}

// Handler exposes the configured engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until SIGINT/SIGTERM, then shuts the HTTP server down.
// Hijacked websocket connections are not tracked by http.Server; the caller
// closes them by stopping the hub afterwards.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down within %s", timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
