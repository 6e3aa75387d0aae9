package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogapi/internal/auth"
	"blogapi/internal/blogs"
	"blogapi/internal/config"
	"blogapi/internal/events"
	"blogapi/internal/handlers"
	"blogapi/internal/middleware"
	"blogapi/internal/storage"
	"blogapi/internal/users"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	var store storage.Storage = storage.Noop{}
	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3Endpoint)
				o.UsePathStyle = true
			}
		})
		store = storage.NewS3Storage(client, cfg.S3Bucket)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer p.Close()
		publisher = p
	}

	tokens := auth.NewTokens(cfg.JWTSecret)

	blogSvc := blogs.NewService(blogs.NewPostgresRepository(db), store, publisher,
		cfg.S3Bucket, cfg.AWSRegion, cfg.CDNBaseURL, logger)
	userSvc := users.NewService(users.NewPostgresRepository(db), tokens)

	blogsHandler := handlers.NewBlogsHandler(blogSvc, logger)
	usersHandler := handlers.NewUsersHandler(userSvc, logger)

	requireAuth := middleware.RequireAuth(tokens)
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handlers.Health(&handlers.HealthDeps{
		DB:          db,
		Storage:     store,
		RabbitMQURL: cfg.RabbitMQURL,
	}))

	mux.HandleFunc("GET /blogs", blogsHandler.List())
	mux.Handle("GET /blogs/user", authed(blogsHandler.ListMine()))
	mux.HandleFunc("GET /blogs/{id}", blogsHandler.Get())
	mux.Handle("POST /blogs", authed(blogsHandler.Create()))
	mux.Handle("PATCH /blogs/{id}", authed(blogsHandler.Update()))
	mux.Handle("DELETE /blogs/{id}", authed(blogsHandler.Delete()))

	mux.HandleFunc("POST /users/signup", usersHandler.Signup())
	mux.HandleFunc("POST /users/login", usersHandler.Login())
	mux.Handle("POST /users/me", authed(usersHandler.Me()))
	mux.HandleFunc("POST /users/refresh-token", usersHandler.Refresh())

	handler := middleware.RequestID(middleware.Logging(logger)(mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
