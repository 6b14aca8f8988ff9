package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projecthub/backend/internal/config"
	"projecthub/backend/internal/database"
	"projecthub/backend/internal/monitoring"
	"projecthub/backend/internal/routes"
	"projecthub/backend/internal/worker"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	monitoring.RegisterHealthCheck("postgres", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	// Redis is optional: without it the API still serves requests, but
	// notifications are skipped and file cleanup happens inline.
	var queue *worker.JobQueue
	var jobWorker *worker.Worker

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis unavailable, running without job queue: %v", err)
		redisClient = nil
	}
	cancelPing()

	if redisClient != nil {
		monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})

		queue = worker.NewJobQueue(redisClient)

		jobWorker = worker.NewWorker(worker.WorkerConfig{
			RedisClient:  redisClient,
			Queues:       cfg.Worker.Queues,
			PollInterval: cfg.Worker.PollInterval,
		})
		jobWorker.RegisterHandler(worker.JobTypeInvitationNotification, worker.NotificationHandler(db))
		jobWorker.RegisterHandler(worker.JobTypeTaskAssigned, worker.NotificationHandler(db))
		jobWorker.RegisterHandler(worker.JobTypeTaskReminder, worker.ReminderHandler(db))
		jobWorker.RegisterHandler(worker.JobTypeFileCleanup, worker.FileCleanupHandler(cfg.Storage.UploadDir))
		jobWorker.Start(cfg.Worker.Concurrency)
	}

	router := routes.SetupRouter(cfg, db, queue)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.GetServerAddr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if jobWorker != nil {
		jobWorker.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Database close error: %v", err)
		}
	}

	log.Println("Server stopped")
}
