// Package livehttp exposes read-only session snapshots over HTTP. It
// never mutates core state.
package livehttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"presage/internal/logger"
	"presage/internal/session"
)

// SnapshotProvider is the one capability the display layer needs.
type SnapshotProvider interface {
	Snapshot() session.Snapshot
}

type Server struct {
	addr   string
	router *gin.Engine
}

func NewServer(addr string, provider SnapshotProvider) (*Server, error) {
	if provider == nil {
		return nil, errors.New("live http server requires a snapshot provider")
	}
	if addr == "" {
		addr = ":9985"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/live")
	api.GET("/snapshot", func(c *gin.Context) {
		c.JSON(http.StatusOK, provider.Snapshot())
	})
	api.GET("/predictions", func(c *gin.Context) {
		snap := provider.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"heuristic":      snap.Heuristic,
			"oracle":         snap.Oracle,
			"oracle_history": snap.OracleHistory,
			"oracle_state":   snap.OracleState,
		})
	})
	api.GET("/accuracy", func(c *gin.Context) {
		snap := provider.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"oracle":    snap.OracleAccuracy,
			"heuristic": snap.HeuristicAccuracy,
		})
	})
	api.GET("/outcomes", func(c *gin.Context) {
		snap := provider.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"oracle":    snap.OracleOutcomes,
			"heuristic": snap.HeuristicOutcomes,
		})
	})

	router.GET("/chart", func(c *gin.Context) {
		renderPriceChart(c.Writer, provider.Snapshot())
	})

	return &Server{addr: addr, router: router}, nil
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("live http server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("http %s %s status=%d latency=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Truncate(time.Millisecond))
	}
}
