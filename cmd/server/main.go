package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"esenciafest-backend/internal/config"
	"esenciafest-backend/internal/database"
	"esenciafest-backend/internal/handlers"
	"esenciafest-backend/internal/middleware"
	"esenciafest-backend/internal/repository"
	"esenciafest-backend/internal/router"
	"esenciafest-backend/internal/services"
	"esenciafest-backend/internal/websocket"
	"esenciafest-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Esencia Fest Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	roomRepo := repository.NewRoomRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.ClientURL)
	authService := services.NewAuthService(userRepo, progressRepo, redisClients.Queue, jwtAuth)
	roomsService := services.NewRoomsService(roomRepo, redisClients.Cache, redisClients.PubSub)
	progressService := services.NewProgressService(progressRepo, userRepo, redisClients.Queue)

	// ──── Bootstrap Admin Account ────
	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("✗ Admin bootstrap failed: %v", err)
		}
		log.Printf("✓ Admin account ready (%s)", cfg.AdminEmail)
	}

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	roomsHandler := handlers.NewRoomsHandler(roomsService)
	progressHandler := handlers.NewProgressHandler(progressService)
	userHandler := handlers.NewUserHandler(authService)
	adminHandler := handlers.NewAdminHandler(roomsService)

	// ──── Step 5: Start Job Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, emailService, progressRepo, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 6: Start Scheduler ────
	scheduler := services.NewScheduler(roomsService, progressRepo)
	scheduler.Start()
	log.Println("✓ Scheduler started")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, services.UpdatesChannel)
	defer wsHub.Close()
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		roomsHandler,
		progressHandler,
		userHandler,
		adminHandler,
		wsHub,
		cfg.ClientURL,
		cfg.AdminURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Esencia Fest Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Rooms: http://localhost:%s/rooms/status", cfg.Port)
	log.Printf("  WS:    ws://localhost:%s/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
