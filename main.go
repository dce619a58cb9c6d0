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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/config"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/events"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/router"
	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/services"
)

func main() {
	log.Println("Starting order reconciliation API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	ctx := context.Background()

	var store services.S3Interface
	if cfg.AWSS3Bucket == "" {
		if cfg.IsProduction() {
			log.Fatalf("AWS_S3_BUCKET is required in production")
		}
		log.Println("AWS_S3_BUCKET not set, storing photos in memory")
		store = services.NewMockS3Service()
	} else {
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		store = s3Service
	}

	var rdb *redis.Client
	var cache services.DesignCache
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warning: redis unavailable at %s: %v", cfg.RedisAddr, err)
		}
		cache = services.NewRedisDesignCache(rdb, cfg.DesignCacheTTL, logger)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("warning: failed to close event publisher: %v", err)
		}
	}()

	reconciler := services.NewReconciliationService(db, services.NewImageService(store), services.ReconciliationOptions{
		NormalizeSize:  cfg.NormalizeSize,
		ScoringWorkers: cfg.ScoringWorkers,
		Cache:          cache,
		Publisher:      publisher,
		Logger:         logger,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	if err := router.Setup(engine, router.Deps{
		Config:     cfg,
		DB:         db,
		Reconciler: reconciler,
		Redis:      rdb,
		Logger:     logger,
	}); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
