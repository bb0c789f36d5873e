// Package app wires the back-office analytics service together: database,
// cache, booking event stream and the HTTP API.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"agency-backoffice/analytics"
	"agency-backoffice/api"
	"agency-backoffice/cache"
	"agency-backoffice/config"
	"agency-backoffice/database"
	"agency-backoffice/database/alerts"
	"agency-backoffice/database/ledger"
	"agency-backoffice/database/overview"
	"agency-backoffice/feed"
)

// App represents the main application
type App struct {
	config       *config.Config
	db           *database.Database
	redis        *cache.RedisClient
	queryCache   *cache.QueryCache
	engine       *analytics.Engine
	feedListener *feed.Listener
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

// Start starts the application
func (a *App) Start() error {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	if err := db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis Connection
	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)

	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Caching disabled.")
	} else {
		a.redis = redisClient
	}
	a.queryCache = cache.NewQueryCache(a.redis, time.Duration(a.config.CacheTTLSeconds)*time.Second)

	// 3. Analytics engine over the ledger
	ledgerRepo := ledger.NewRepository(a.db)
	a.engine = analytics.NewEngine(ledgerRepo)

	overviewRepo := overview.NewRepository(a.db)
	alertsRepo := alerts.NewRepository(a.db)

	// 4. Booking event stream
	var wg sync.WaitGroup
	if a.config.FeedEnabled {
		a.feedListener = feed.NewListener(a.config.FeedURL, a.queryCache)
		if err := a.feedListener.Connect(); err != nil {
			log.Printf("⚠️  Booking stream connection failed: %v. Caches will serve until expiry.", err)
		} else {
			wg.Add(2)
			go func() {
				defer wg.Done()
				a.feedListener.Run(ctx)
			}()
			go func() {
				defer wg.Done()
				a.feedListener.RunHealthMonitor(ctx)
			}()
		}
	} else {
		log.Println("ℹ️  Booking event stream DISABLED")
	}

	// 5. Start API Server
	apiServer := api.NewServer(a.engine, overviewRepo, alertsRepo, a.queryCache)
	go func() {
		if err := apiServer.Start(a.config.APIPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down...")
	cancel()
	wg.Wait()
	a.Close()
	return nil
}

// Close releases the application's external connections.
func (a *App) Close() {
	if a.feedListener != nil {
		_ = a.feedListener.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
