package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/financetracker/backend/internal/config"
	"github.com/financetracker/backend/internal/database"
	"github.com/financetracker/backend/internal/handlers"
	mW "github.com/financetracker/backend/internal/middleware"
	"github.com/financetracker/backend/internal/services"
	"github.com/financetracker/backend/internal/session"
)

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.SetEnvPrefix("")

	viper.BindEnv("database.path", "DATABASE_PATH")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("session.store", "SESSION_STORE")
	viper.BindEnv("session.ttl", "SESSION_TTL")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	serverCfg := config.LoadServerConfig()
	sessionCfg := config.LoadSessionConfig()

	// Initialize storage
	db := database.InitDatabase()
	defer db.Close()

	// Session backend: redis when configured and reachable, in-memory
	// otherwise.
	var sessions session.Store = session.NewMemoryStore()
	if sessionCfg.Store == "redis" {
		if redisClient := database.InitRedis(); redisClient != nil {
			defer redisClient.Close()
			sessions = session.NewRedisStore(redisClient, sessionCfg.TTL)
			log.Println("Using redis session store")
		} else {
			log.Println("Redis unavailable, falling back to in-memory session store")
		}
	}

	authService := services.NewAuthService(db, sessions)
	profileService := services.NewProfileService(db)
	transactionService := services.NewTransactionService(db, sessions)
	budgetService := services.NewBudgetService(db)
	exportHandler := handlers.NewExportHandler(services.NewExportService(db))

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/register", authService.Register)
		r.Post("/login", authService.Login)
		r.Post("/logout", authService.Logout)

		// The transaction list resolves its own session and answers an
		// empty array to anonymous callers, so it stays outside the guard.
		r.Get("/transactions", transactionService.ListTransactions)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware(sessions))

			r.Get("/profile", profileService.GetProfile)
			r.Put("/profile", profileService.UpdatePassword)
			r.Post("/language", profileService.UpdateLanguage)

			r.Post("/transactions", transactionService.CreateTransaction)
			r.Put("/transactions/{id}", transactionService.UpdateTransaction)
			r.Delete("/transactions/{id}", transactionService.DeleteTransaction)

			r.Post("/budget", budgetService.SetBudget)
			r.Get("/summary", budgetService.GetSummary)

			r.Get("/export-csv", exportHandler.ExportCSV)
			r.Get("/backup", exportHandler.BackupSQL)
		})
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + serverCfg.Port,
		Handler:      r,
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		IdleTimeout:  serverCfg.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", serverCfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
