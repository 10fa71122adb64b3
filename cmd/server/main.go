package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"online-shop/backend/internal/audit"
	authhandler "online-shop/backend/internal/auth/handler"
	authservice "online-shop/backend/internal/auth/service"
	"online-shop/backend/internal/cache"
	categoryhandler "online-shop/backend/internal/category/handler"
	categoryrepository "online-shop/backend/internal/category/repository"
	categoryservice "online-shop/backend/internal/category/service"
	"online-shop/backend/internal/config"
	"online-shop/backend/internal/db"
	goodhandler "online-shop/backend/internal/good/handler"
	goodrepository "online-shop/backend/internal/good/repository"
	goodservice "online-shop/backend/internal/good/service"
	"online-shop/backend/internal/security"
	"online-shop/backend/internal/server"
	sessionrepository "online-shop/backend/internal/session/repository"
	"online-shop/backend/internal/telemetry/otel"
	userhandler "online-shop/backend/internal/user/handler"
	userrepository "online-shop/backend/internal/user/repository"
	userservice "online-shop/backend/internal/user/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "online-shop", false)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	var categoryCache cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisCache.Close()
		categoryCache = redisCache
	}

	// Keep the interface nil when Kafka is disabled; a typed-nil
	// *KafkaProducer would defeat the handler's nil check.
	var producer audit.Producer
	kafkaProducer, err := audit.NewKafkaProducer(cfg.AuditKafkaBrokersList(), cfg.AuditKafkaTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenCodec(security.Secrets{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	})

	users := userrepository.NewPostgresRepository(database)
	sessions := sessionrepository.NewPostgresRepository(database)
	categories := categoryrepository.NewPostgresRepository(database)
	goods := goodrepository.NewPostgresRepository(database)

	authSvc := authservice.NewAuthService(users, sessions, hasher, tokens)
	userSvc := userservice.NewUserService(users, hasher)
	categorySvc := categoryservice.NewCategoryService(categories, categoryCache)
	goodSvc := goodservice.NewGoodService(goods, categories)

	router := server.NewRouter(server.Deps{
		Tokens:         tokens,
		Auth:           authhandler.NewAuthHandler(authSvc, producer),
		Users:          userhandler.NewUserHandler(userSvc),
		Categories:     categoryhandler.NewCategoryHandler(categorySvc),
		Goods:          goodhandler.NewGoodHandler(goodSvc),
		TracerProvider: providers.TracerProvider,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
