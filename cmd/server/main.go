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

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/lenden-labs/lending-ledger/internal/config"
	"github.com/lenden-labs/lending-ledger/internal/handler"
	"github.com/lenden-labs/lending-ledger/internal/repository"
	"github.com/lenden-labs/lending-ledger/internal/service"
	"github.com/lenden-labs/lending-ledger/pkg/response"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found:", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	borrowerRepo := repository.NewBorrowerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize service and handlers
	ledgerService := service.NewLedgerService(borrowerRepo, loanRepo, paymentRepo, userRepo, redisClient, cfg)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(ledgerHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(ledgerHandler *handler.LedgerHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/borrowers", ledgerHandler.CreateBorrower).Methods("POST")
	api.HandleFunc("/borrowers", ledgerHandler.ListBorrowers).Methods("GET")
	api.HandleFunc("/borrowers/{id}", ledgerHandler.GetBorrower).Methods("GET")
	api.HandleFunc("/borrowers/{id}", ledgerHandler.UpdateBorrower).Methods("PUT")
	api.HandleFunc("/borrowers/{id}", ledgerHandler.DeleteBorrower).Methods("DELETE")

	api.HandleFunc("/loans", ledgerHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans/{id}", ledgerHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{id}/status", ledgerHandler.UpdateLoanStatus).Methods("PATCH")
	api.HandleFunc("/loans/{id}", ledgerHandler.DeleteLoan).Methods("DELETE")

	api.HandleFunc("/loans/{id}/payments", ledgerHandler.CreateCustomPayment).Methods("POST")
	api.HandleFunc("/loans/{id}/payments/bulk", ledgerHandler.CreateMonthlyPayments).Methods("POST")
	api.HandleFunc("/loans/{id}/payments", ledgerHandler.ListPaymentsByLoan).Methods("GET")
	api.HandleFunc("/payments/{id}/collect", ledgerHandler.CollectPayment).Methods("POST")

	api.HandleFunc("/dashboard", ledgerHandler.Dashboard).Methods("GET")
	api.HandleFunc("/defaulters", ledgerHandler.Defaulters).Methods("GET")
	api.HandleFunc("/missed-payments", ledgerHandler.MissedPayments).Methods("GET")

	api.HandleFunc("/users", ledgerHandler.CreateUser).Methods("POST")
	api.HandleFunc("/users", ledgerHandler.ListUsers).Methods("GET")
	api.HandleFunc("/users/{id}", ledgerHandler.GetUser).Methods("GET")
	api.HandleFunc("/users/{id}", ledgerHandler.UpdateUser).Methods("PUT")
	api.HandleFunc("/users/{id}", ledgerHandler.DeleteUser).Methods("DELETE")

	api.HandleFunc("/admin/truncate", ledgerHandler.Truncate).Methods("POST")

	return router
}
