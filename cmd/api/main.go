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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/configs"
	"github.com/jalh2/godgraceenterprise/internal/handler"
	"github.com/jalh2/godgraceenterprise/internal/middleware"
	"github.com/jalh2/godgraceenterprise/internal/repository"
	"github.com/jalh2/godgraceenterprise/internal/service"
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

	// Initialize repositories, runs schema migration
	repos, err := repository.NewRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

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

	// Staff registration is open; everything else resolves identity from headers
	router.HandleFunc("/register", handlers.Staff.Register).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.IdentityMiddleware(services.Staff, log))
	api.Use(middleware.LogMiddleware(log))

	api.HandleFunc("/whoami", handlers.Staff.WhoAmI).Methods(http.MethodGet)

	// Loan endpoints
	api.HandleFunc("/loans", handlers.Loan.Create).Methods(http.MethodPost)
	api.HandleFunc("/loans", handlers.Loan.List).Methods(http.MethodGet)
	api.HandleFunc("/loans/due-collections", handlers.Loan.DueCollections).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", handlers.Loan.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", handlers.Loan.Update).Methods(http.MethodPut)
	api.HandleFunc("/loans/{id}", handlers.Loan.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/loans/{id}/status", handlers.Loan.ChangeStatus).Methods(http.MethodPatch)
	api.HandleFunc("/loans/{id}/collections", handlers.Loan.AddCollections).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/agreement", handlers.Loan.GetAgreement).Methods(http.MethodGet)

	// Distribution endpoints
	api.HandleFunc("/loans/{id}/distributions", handlers.Distribution.Create).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}/distributions", handlers.Distribution.GetByLoan).Methods(http.MethodGet)
	api.HandleFunc("/distributions/{id}", handlers.Distribution.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/distributions/{id}", handlers.Distribution.Update).Methods(http.MethodPut)
	api.HandleFunc("/distributions/{id}", handlers.Distribution.Delete).Methods(http.MethodDelete)

	// Metric endpoints
	api.HandleFunc("/metrics/recalculate", handlers.Metrics.Recalculate).Methods(http.MethodPost)
	api.HandleFunc("/metrics/summary", handlers.Metrics.Summary).Methods(http.MethodGet)

	// Fee configuration endpoints
	api.HandleFunc("/loan-configs", handlers.LoanConfig.Upsert).Methods(http.MethodPut)
	api.HandleFunc("/loan-configs", handlers.LoanConfig.List).Methods(http.MethodGet)
	api.HandleFunc("/loan-configs/{branchCode}", handlers.LoanConfig.GetForBranch).Methods(http.MethodGet)

	// Group endpoints
	api.HandleFunc("/groups", handlers.Group.Create).Methods(http.MethodPost)
	api.HandleFunc("/groups", handlers.Group.List).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", handlers.Group.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", handlers.Group.Update).Methods(http.MethodPut)
	api.HandleFunc("/groups/{id}", handlers.Group.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/groups/{id}/recalculate-total", handlers.Group.RecalculateLoanTotal).Methods(http.MethodPost)

	// Client endpoints
	api.HandleFunc("/clients", handlers.Client.Create).Methods(http.MethodPost)
	api.HandleFunc("/clients", handlers.Client.List).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", handlers.Client.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", handlers.Client.Update).Methods(http.MethodPut)
	api.HandleFunc("/clients/{id}", handlers.Client.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/clients/{clientId}/savings", handlers.Savings.GetByClient).Methods(http.MethodGet)

	// Expense endpoints
	api.HandleFunc("/expenses", handlers.Expense.Create).Methods(http.MethodPost)
	api.HandleFunc("/expenses", handlers.Expense.List).Methods(http.MethodGet)
	api.HandleFunc("/expenses/{id}", handlers.Expense.Delete).Methods(http.MethodDelete)

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
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
