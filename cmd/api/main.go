package main

import (
	"context"

	"murmur/config"
	"murmur/internal/handler"
	"murmur/internal/redis"
	"murmur/internal/repository"
	"murmur/internal/server"
	"murmur/internal/services"
	"murmur/internal/websocket"
	"murmur/pkg/database"
	"murmur/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(ctx, pool); err != nil {
			l.Logger.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	wsLogger := websocket.NewWebSocketLoggerWith(l.Logger)
	hub := websocket.NewHub(wsLogger)

	var limiter *redis.RateLimiter
	if cfg.RedisEnabled {
		client, err := redis.Connect(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			l.Logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()

		bridge := websocket.NewRedisBridge(hub, redis.NewPublisher(client), redis.NewSubscriber(client), cfg.RelayChannel, wsLogger)
		hub.SetRelayObserver(bridge)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				l.Logger.Error("relay bridge stopped", zap.Error(err))
			}
		}()

		limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
			WriteLimit:    cfg.RateLimitWrites,
			WriteWindow:   cfg.RateLimitWindow,
			ConnectLimit:  cfg.RateLimitConnects,
			ConnectWindow: cfg.RateLimitWindow,
		})
		l.Logger.Info("redis enabled",
			zap.String("addr", cfg.RedisAddr()),
			zap.String("relay_channel", cfg.RelayChannel),
			zap.String("instance_id", bridge.InstanceID()),
		)
	}

	go hub.Run(ctx)

	handlers := &server.Handlers{
		User:   handler.NewUserHandler(services.NewUserService(repository.NewUserRepository(pool))),
		Post:   handler.NewPostHandler(services.NewPostService(repository.NewPostRepository(pool))),
		Chat:   handler.NewChatHandler(services.NewChatService()),
		Health: handler.NewHealthHandler(services.NewDiagnosticsService(pool, hub)),
		Relay:  websocket.NewHandler(hub, websocket.NewOriginAuthorizer(cfg.FrontendOrigin, wsLogger), wsLogger),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, limiter)
	l.Logger.Info("relay endpoint ready", zap.String("path", cfg.WSPath))

	if err := srv.Start(); err != nil {
		l.Logger.Error("server stopped with error", zap.Error(err))
	}

	cancel()
	hub.Stop()
}
