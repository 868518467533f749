package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lni/dragonboat/v4/logger"
)

var adminLogger = logger.GetLogger("admin")

// adminServer serves the read-only admin api of a server
type adminServer struct {
	httpServer *http.Server
	listener   net.Listener
}

// startAdmin binds endpoint and serves the admin api in the background
func startAdmin(s *Server, endpoint string) (*adminServer, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin listener: %w", err)
	}

	a := &adminServer{
		listener: listener,
		httpServer: &http.Server{
			Handler:           newAdminRouter(s),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	go func() {
		adminLogger.Infof("admin api listening on %s", listener.Addr())
		if err := a.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			adminLogger.Errorf("admin api stopped: %v", err)
		}
	}()
	return a, nil
}

func (a *adminServer) addr() net.Addr {
	return a.listener.Addr()
}

// shutdown stops the admin api, waiting at most 5 seconds for running requests
func (a *adminServer) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down admin api: %w", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Routes
// --------------------------------------------------------------------------

// StatusResponse is returned by GET /status
type StatusResponse struct {
	PoolSize    int                    `json:"poolSize"`
	IdleWorkers int                    `json:"idleWorkers"`
	Queued      int                    `json:"queued"`
	Sessions    int                    `json:"sessions"`
	Words       int                    `json:"words"`
	Fingerprint string                 `json:"fingerprint"`
	PersistMode string                 `json:"persistMode"`
	Rates       map[string]interface{} `json:"rates"`
	Timestamp   time.Time              `json:"timestamp"`
}

func newAdminRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{
			PoolSize:    s.pool.Size(),
			IdleWorkers: s.pool.Idle(),
			Queued:      s.pool.Queued(),
			Sessions:    s.sessions.Size(),
			Words:       s.dict.Len(),
			Fingerprint: s.dict.Fingerprint(),
			PersistMode: string(s.config.PersistMode),
			Rates:       s.metrics.summary(),
			Timestamp:   time.Now(),
		})
	})

	r.GET("/events", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"events": s.Events()})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.Status(http.StatusOK)
		s.metrics.writePrometheus(c.Writer)
	})

	return r
}
