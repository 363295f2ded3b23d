package worker

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kastlewatch/kastlewatch/pkg/metrics"
	"github.com/kastlewatch/kastlewatch/pkg/resource"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP ingress of the worker. It accepts serialized monitors
// from the controller and submits them for processing.
type Server struct {
	engine    *gin.Engine
	submitter Submitter
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// NewServer creates a new *Server which submits received monitors to s.
func NewServer(s Submitter) *Server {
	server := &Server{
		engine:    gin.New(),
		submitter: s,
	}

	server.engine.Use(gin.Recovery(), requestLogger())
	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.ok)
	s.engine.GET("/readyz", s.ok)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{})))

	for _, kind := range resource.Monitors {
		s.engine.POST(kind.Path(), s.submit(kind))
	}
}

// Handler returns the http.Handler serving all worker routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled and shuts down gracefully
// afterwards.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting worker server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "worker server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down worker server")

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return errors.Wrap(err, "failed to shut down worker server")
	}

	return nil
}

func (s *Server) ok(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) submit(kind resource.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		monitor := kind.NewCheckable()

		if err := c.ShouldBindJSON(monitor); err != nil {
			metrics.WorkerRequestsTotal.WithLabelValues(kind.Kind, metrics.ResultRejected).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !s.submitter.Submit(monitor) {
			metrics.WorkerRequestsTotal.WithLabelValues(kind.Kind, metrics.ResultDropped).Inc()
			log.Info("worker queue full, dropping monitor", "kind", kind.Kind, "namespace", monitor.GetNamespace(), "name", monitor.GetName())
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "worker queue is full"})
			return
		}

		metrics.WorkerRequestsTotal.WithLabelValues(kind.Kind, metrics.ResultSuccess).Inc()
		c.Status(http.StatusOK)
	}
}

// requestLogger logs every request through the worker logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.V(1).Info("handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
