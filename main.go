package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"trading-advisor/config"
	"trading-advisor/internal/api"
	"trading-advisor/internal/auth"
	"trading-advisor/internal/database"
	"trading-advisor/internal/engine"
	"trading-advisor/internal/events"
	"trading-advisor/internal/logging"
	"trading-advisor/internal/risk"
	"trading-advisor/internal/riskstate"
)

func main() {
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(&logging.Config{
		Level:      cfg.LoggingConfig.Level,
		Output:     cfg.LoggingConfig.Output,
		JSONFormat: cfg.LoggingConfig.JSONFormat,
		Component:  "main",
	})
	logging.SetDefault(logger)
	logger.Info("Structured logging initialized")

	// Initialize event bus
	eventBus := events.NewEventBus()
	logger.Info("Event bus initialized")

	// Risk limits and the decision engine
	limits := risk.Limits{
		MaxRiskPerTradePercent:  cfg.RiskConfig.MaxRiskPerTradePercent,
		MaxDailyLossPercent:     cfg.RiskConfig.MaxDailyLossPercent,
		MaxPortfolioRiskPercent: cfg.RiskConfig.MaxPortfolioRiskPercent,
		MaxOpenPositions:        cfg.RiskConfig.MaxOpenPositions,
		MinQualityScore:         cfg.RiskConfig.MinQualityScore,
	}
	eng := engine.New(limits)
	logger.Info("Decision engine initialized",
		"max_risk_per_trade", limits.MaxRiskPerTradePercent,
		"min_quality_score", limits.MinQualityScore)

	// Analysis journal: PostgreSQL when enabled, in-memory otherwise
	var journal database.Journal
	var db *database.DB
	if cfg.DatabaseConfig.Enabled {
		db, err = database.NewDB(database.Config{
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: cfg.DatabaseConfig.Password,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		})
		if err != nil {
			logger.Warn("Database unavailable, journaling in memory", "error", err.Error())
			db = nil
		} else {
			defer db.Close()
			if err := db.RunMigrations(context.Background()); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
			journal = database.NewRepository(db)
			logger.Info("Analysis journal backed by PostgreSQL")
		}
	}
	if journal == nil {
		journal = database.NewMemoryJournal(0)
		logger.Info("Analysis journal running in memory")
	}

	// Risk state store: Redis-backed when enabled
	var redisClient *redis.Client
	if cfg.RedisConfig.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Address,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
	}
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	riskStore := riskstate.NewStore(redisClient, risk.AccountState{
		Capital:     cfg.AccountConfig.Capital,
		PeakCapital: cfg.AccountConfig.Capital,
	}, zl.With().Str("component", "riskstate").Logger())
	logger.Info("Risk state store initialized",
		"capital", cfg.AccountConfig.Capital,
		"redis", riskStore.RedisAvailable())

	// Trailing stop tracker
	tracker := risk.NewTrailingTracker(zl.With().Str("component", "trailing").Logger())

	// Operator authentication
	var authService *auth.Service
	var jwtManager *auth.JWTManager
	if cfg.AuthConfig.Enabled {
		if cfg.AuthConfig.JWTSecret == "" || cfg.AuthConfig.PasswordHash == "" {
			log.Fatal("AUTH_JWT_SECRET and AUTH_PASSWORD_HASH are required when auth is enabled")
		}
		jwtManager = auth.NewJWTManager(cfg.AuthConfig.JWTSecret, cfg.AuthConfig.TokenDuration)
		passwords := auth.NewPasswordManager(cfg.AuthConfig.BcryptCost)
		authService = auth.NewService(cfg.AuthConfig.Username, cfg.AuthConfig.PasswordHash, passwords, jwtManager)
		logger.Info("Operator authentication enabled", "username", cfg.AuthConfig.Username)
	}

	// HTTP server
	server := api.NewServer(api.ServerConfig{
		Port:           cfg.ServerConfig.Port,
		Host:           cfg.ServerConfig.Host,
		ProductionMode: cfg.ServerConfig.ProductionMode,
		AllowedOrigins: cfg.ServerConfig.Origins(),
	}, eng, journal, db, riskStore, tracker, eventBus, authService, jwtManager)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	logger.Info("Signal advisor started",
		"addr", fmt.Sprintf("%s:%d", cfg.ServerConfig.Host, cfg.ServerConfig.Port))

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ServerConfig.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down web server: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("Shutdown complete")
}
