// Package admin exposes the small control-plane HTTP surface the core
// needs in production: kill-switch control, health, and Prometheus
// metrics. Grounded on the teacher's API Gateway server
// (internal/gateway/server.go), generalized from a trading API gateway
// to a minimal operator surface — no order or market-data routes, since
// those cross the out-of-scope Gateway/Feeder boundary (spec.md §4.11).
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/abdoElHodaky/hftcore/internal/killswitch"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds the admin server's bind address and CORS allowlist.
type Config struct {
	Address      string
	AllowOrigins []string
}

// Server is the control-plane HTTP server. Unlike the hot-path packages
// it is explicitly allowed to allocate and block: it never runs on the
// OnTrade call path.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds a Gin engine with the same minimal middleware stack as the
// teacher's gateway server (recovery, request logging, CORS), then wires
// the five admin routes on top of it.
func New(cfg Config, ks *killswitch.Switch, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(correlationID())
	router.Use(requestLogger(logger))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/killswitch", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"armed": ks.Armed()})
	})
	router.POST("/killswitch/trigger", func(c *gin.Context) {
		ks.Trigger()
		logger.Warn("kill-switch triggered via admin API", zap.String("request_id", c.GetString("request_id")))
		c.JSON(http.StatusOK, gin.H{"armed": true})
	})
	router.POST("/killswitch/reset", func(c *gin.Context) {
		ks.Reset()
		logger.Info("kill-switch reset via admin API", zap.String("request_id", c.GetString("request_id")))
		c.JSON(http.StatusOK, gin.H{"armed": false})
	})

	addr := cfg.Address
	if addr == "" {
		addr = ":8080"
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// correlationID tags every request with a UUID for log correlation
// (SPEC_FULL.md §11's google/uuid wiring); it never touches OrderId
// assignment, which stays a deterministic counter in internal/engine.
func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("admin request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Start runs ListenAndServe in a background goroutine, matching the
// teacher's fx.Hook OnStart pattern without requiring fx itself (admin
// is also usable outside an fx app, e.g. in tests).
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("admin server stopped unexpectedly", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the underlying http.Handler for tests that want to
// drive routes directly with httptest, without binding a real socket.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
