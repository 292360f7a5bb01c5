package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/avasiliev/feedback-service/internal/config"
	"github.com/avasiliev/feedback-service/internal/digest"
	"github.com/avasiliev/feedback-service/internal/handler"
	"github.com/avasiliev/feedback-service/internal/mail"
	"github.com/avasiliev/feedback-service/internal/repository"
	"github.com/avasiliev/feedback-service/internal/service"
	"github.com/avasiliev/feedback-service/internal/session"
	"github.com/avasiliev/feedback-service/internal/web"
)

func main() {
	// Optional .env for local development
	godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.CreateSchema(db); err != nil {
		logger.Fatalf("Failed to create schema: %v", err)
	}

	// Initialize layers
	store := repository.NewPostgres(db)
	svc := service.NewService(store, logger)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatalf("Failed to parse templates: %v", err)
	}

	var sender *mail.Sender
	var mailer handler.Mailer
	if cfg.SMTPHost != "" {
		sender = mail.NewSender(cfg, logger)
		mailer = sender
	} else {
		logger.Info("SMTP_HOST not set, account emails disabled")
	}

	h := handler.New(svc, sessions, renderer, mailer, cfg.BaseURL, logger)
	r := handler.NewRouter(h, logger)

	// Schedule the daily feedback digest
	if sender != nil && cfg.AdminEmail != "" {
		c := cron.New()
		job := digest.New(store, sender, logger, cfg.AdminEmail)
		if _, err := c.AddJob(cfg.DigestSchedule, job); err != nil {
			logger.Fatalf("Failed to schedule digest: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
