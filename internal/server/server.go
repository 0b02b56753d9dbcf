package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"vagondeck/internal/api/middleware"
	"vagondeck/internal/api/routes"
	"vagondeck/internal/config"
	"vagondeck/internal/logger"
	"vagondeck/internal/metrics"
	"vagondeck/internal/vagon"
)

const shutdownTimeout = 10 * time.Second

// Server is the dashboard HTTP server: a gin engine with the full middleware
// chain, templates, metrics and routes wired.
type Server struct {
	Engine *gin.Engine
	cfg    config.Config
}

// New assembles the engine. The caller owns the vendor client; its request
// observer is pointed at the server's metrics registry here.
func New(client *vagon.Client, cfg config.Config) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetFuncMap(templateFuncs())
	router.LoadHTMLGlob(filepath.Join(cfg.WebDir, "templates", "*.html"))

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(cfg.Environment != "production"),
		middleware.Metrics(),
	)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	client.SetObserver(func(method, path string, status int, elapsed time.Duration) {
		metrics.ObserveVendorRequest(method, metrics.NormalizeEndpoint(path), status, elapsed)
	})

	routes.Register(router, client, cfg, registry)

	return &Server{Engine: router, cfg: cfg}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.HTTPPort,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]interface{}{
			"addr": srv.Addr,
			"env":  s.cfg.Environment,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
