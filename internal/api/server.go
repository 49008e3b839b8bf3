// Package api exposes the analysis engine over REST and WebSocket.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"trading-advisor/internal/auth"
	"trading-advisor/internal/database"
	"trading-advisor/internal/engine"
	"trading-advisor/internal/events"
	"trading-advisor/internal/risk"
	"trading-advisor/internal/riskstate"
)

// RateLimiter provides simple in-memory rate limiting per endpoint
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int           // max requests
	window   time.Duration // time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks if a request is allowed for the given key
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-r.window)

	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// Server represents the HTTP API server
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	engine      *engine.Engine
	journal     database.Journal
	db          *database.DB // nil when running on the in-memory journal
	riskStore   *riskstate.Store
	tracker     *risk.TrailingTracker
	eventBus    *events.EventBus
	config      ServerConfig
	authService *auth.Service
	jwtManager  *auth.JWTManager
	authEnabled bool
	rateLimiter *RateLimiter
	hub         *WSHub
	startedAt   time.Time
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	ProductionMode bool
	AllowedOrigins []string
}

// NewServer creates a new API server. authService and jwtManager may be
// nil, which leaves the API open (single operator on a private network).
func NewServer(
	config ServerConfig,
	eng *engine.Engine,
	journal database.Journal,
	db *database.DB,
	riskStore *riskstate.Store,
	tracker *risk.TrailingTracker,
	eventBus *events.EventBus,
	authService *auth.Service,
	jwtManager *auth.JWTManager,
) *Server {
	if config.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(config.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = config.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:      router,
		engine:      eng,
		journal:     journal,
		db:          db,
		riskStore:   riskStore,
		tracker:     tracker,
		eventBus:    eventBus,
		config:      config,
		authService: authService,
		jwtManager:  jwtManager,
		authEnabled: authService != nil && jwtManager != nil,
		rateLimiter: NewRateLimiter(120, time.Minute),
		startedAt:   time.Now(),
	}

	server.hub = InitWebSocket(eventBus)
	server.setupRoutes()

	return server
}

// rateLimitMiddleware rate limits requests by endpoint
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if !s.rateLimiter.Allow(path) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
				"path":  path,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	s.router.GET("/api/auth/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"auth_enabled": s.authEnabled})
	})
	if s.authEnabled {
		s.router.POST("/api/auth/login", s.handleLogin)
	}

	api := s.router.Group("/api")
	api.Use(s.rateLimitMiddleware())
	if s.authEnabled {
		api.Use(auth.Middleware(s.jwtManager))
	}
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analyses", s.handleGetAnalyses)
		api.GET("/summary", s.handleSummary)
		api.GET("/indicators", s.handleIndicators)

		api.GET("/risk/state", s.handleRiskState)
		api.POST("/risk/reset-daily", s.handleResetDaily)

		api.GET("/positions", s.handleGetPositions)
		api.POST("/positions", s.handleTrackPosition)
		api.POST("/positions/:symbol/price", s.handlePriceUpdate)
		api.DELETE("/positions/:symbol", s.handleClosePosition)
	}

	// WebSocket endpoint is outside the auth group so browser clients
	// can subscribe without header juggling.
	s.router.GET("/ws/signals", s.handleWebSocket)
}

// Start begins serving. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting HTTP server on %s", addr)

	s.eventBus.Publish(events.Event{
		Type: events.EventServerStarted,
		Data: map[string]interface{}{"addr": addr},
	})

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth returns server health status
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	journalStatus := "memory"
	healthy := true
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			journalStatus = "unhealthy"
			healthy = false
		} else {
			journalStatus = "healthy"
		}
	}

	body := gin.H{
		"status":     "healthy",
		"journal":    journalStatus,
		"redis":      s.riskStore.RedisAvailable(),
		"ws_clients": s.hub.ClientCount(),
		"uptime":     time.Since(s.startedAt).String(),
	}
	if !healthy {
		body["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	c.JSON(http.StatusOK, body)
}

// errorResponse is a helper to send error responses
func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// successResponse is a helper to send success responses
func successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
