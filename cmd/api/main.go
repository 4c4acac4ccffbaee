package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/kidsbalance/balance-engine/internal/adapters/cache"
	adapterHTTP "github.com/kidsbalance/balance-engine/internal/adapters/handler/http"
	"github.com/kidsbalance/balance-engine/internal/adapters/repository"
	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/services"
	"github.com/kidsbalance/balance-engine/internal/core/workers"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	var activityRepo domain.ActivityRepository = repository.NewPostgresActivityRepository(db)
	logRepo := repository.NewPostgresLogRepository(db)
	summaryRepo := repository.NewPostgresSummaryRepository(db)
	userRepo := repository.NewPostgresUserRepository(db.DB)

	// Redis is optional: without it the API serves straight from postgres
	// and the rate limiter stays off.
	redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
	redisClient, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	} else {
		activityRepo = repository.NewCachedActivityRepository(activityRepo, redisClient)
		defer redisClient.Close()
	}

	worker := workers.NewSummaryWorker(logRepo, summaryRepo)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker.Start(workerCtx)

	tokenService := services.NewTokenService(jwtSecret, "balance-engine", 24*time.Hour, userRepo)
	authService := services.NewAuthService(userRepo)
	activityService := services.NewActivityService(activityRepo, logRepo, worker)
	logService := services.NewLogService(logRepo, activityRepo, worker)
	statsService := services.NewStatsService(logRepo, summaryRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		ActivityHandler: adapterHTTP.NewActivityHandler(activityService),
		LogHandler:      adapterHTTP.NewLogHandler(logService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		TokenService:    tokenService,
		DB:              db,
		Redis:           redisClient,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Balance Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	stopWorker()

	log.Println("Server stopped gracefully.")
}
