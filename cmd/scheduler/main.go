package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/lenden-labs/lending-ledger/internal/config"
	"github.com/lenden-labs/lending-ledger/internal/repository"
	"github.com/lenden-labs/lending-ledger/internal/service"
)

// The scheduler rewrites the stored payment status column once a day so that
// ad-hoc SQL reporting agrees with the lazily classified API reads.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found:", err)
	}

	log.Println("Starting ledger scheduler...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	borrowerRepo := repository.NewBorrowerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)

	ledgerService := service.NewLedgerService(borrowerRepo, loanRepo, paymentRepo, userRepo, redisClient, cfg)

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		updated, err := ledgerService.RefreshPaymentStatuses(ctx)
		if err != nil {
			log.Printf("Payment status refresh failed: %v", err)
			return
		}
		log.Printf("Payment status refresh complete, %d payments updated", updated)
	}

	// Catch up immediately on startup, then daily.
	refresh()

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Scheduler.RefreshSpec, refresh); err != nil {
		log.Fatalf("Error scheduling status refresh job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}
