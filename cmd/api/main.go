package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"loan-service/configs"
	"loan-service/internal/handler"
	"loan-service/internal/middleware"
	"loan-service/internal/repository"
	"loan-service/internal/service"
	"loan-service/pkg/scheduler"
)

func main() {
	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	// Load configuration
	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := runMigrations(cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	repos := repository.NewRepository(db)

	// Initialize services
	services := service.NewService(service.Dependencies{
		Repos:  repos,
		Logger: log,
		Config: cfg,
	})

	// Initialize handlers
	handlers := handler.NewHandler(handler.Dependencies{
		Services: services,
		Logger:   log,
		Config:   cfg,
	})

	// Initialize router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/register", handlers.User.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", handlers.User.Login).Methods(http.MethodPost)

	// Protected routes with middleware
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	api.Use(middleware.LogMiddleware(log))

	// Customer endpoints
	api.HandleFunc("/customers", handlers.Customer.Create).Methods(http.MethodPost)
	api.HandleFunc("/customers", handlers.Customer.List).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", handlers.Customer.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", handlers.Customer.Update).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}", handlers.Customer.Delete).Methods(http.MethodDelete)

	// Loan endpoints
	api.HandleFunc("/loans", handlers.Loan.Create).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}", handlers.Loan.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/foreclose", handlers.Loan.Foreclose).Methods(http.MethodPost)

	// Schedule endpoints
	api.HandleFunc("/loans/{id}/schedule", handlers.Schedule.Get).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/rate-change", handlers.Schedule.RateChange).Methods(http.MethodPost)

	// Repayment endpoints
	api.HandleFunc("/loans/{id}/repayments", handlers.Repayment.Apply).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/repayments", handlers.Repayment.History).Methods(http.MethodGet)

	// Charge endpoints
	api.HandleFunc("/loans/{id}/charges", handlers.Charge.Add).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/charges", handlers.Charge.List).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/charges/{chargeId}", handlers.Charge.Remove).Methods(http.MethodDelete)

	// Start the overdue installment sweep
	overdueSweep := scheduler.NewScheduler(services.Schedule, log)
	overdueSweep.Start(time.Hour * 24)
	defer overdueSweep.Stop()

	// Configure and start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	// Start the server in a goroutine
	go func() {
		log.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server gracefully stopped")
}

func initDB(cfg *configs.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.DBName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(cfg *configs.Config) error {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	m, err := migrate.New("file://"+cfg.Database.MigrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
