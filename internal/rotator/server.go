package rotator

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"pkg.jsn.cam/banners/pkg/httpx"
)

// Server exposes a Rotator over HTTP
type Server struct {
	rotator *Rotator
	metrics *Metrics
	log     logrus.FieldLogger
	mux     *http.ServeMux
}

func NewServer(rt *Rotator, metrics *Metrics, log logrus.FieldLogger) *Server {
	s := &Server{
		rotator: rt,
		metrics: metrics,
		log:     log,
		mux:     http.NewServeMux(),
	}
	s.setupRoutes()
	s.refreshGauges()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /banner", httpx.Wrap(s.handleBanner))
	s.mux.HandleFunc("GET /api/banners", httpx.Wrap(s.handleBannerList))
	s.mux.HandleFunc("GET /healthz", httpx.Wrap(s.handleHealth))
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve listens on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("[ROTATOR] Starting rotator server on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("[ROTATOR] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) error {
	defer s.metrics.observe("banner", time.Now())

	categories := r.URL.Query()["category"]
	page, err := s.rotator.BannerHTML(categories)
	switch {
	case errors.Is(err, ErrNoBanner):
		s.metrics.missed()
		return httpx.WithStatus(http.StatusNotFound, err)
	case err != nil:
		s.metrics.failed()
		s.log.Errorf("[ROTATOR] Failed to serve banner: %v", err)
		return err
	}

	s.metrics.served()
	s.refreshGauges()
	httpx.HTML(w, http.StatusOK, page)
	return nil
}

func (s *Server) handleBannerList(w http.ResponseWriter, _ *http.Request) error {
	defer s.metrics.observe("banners", time.Now())

	httpx.JSON(w, http.StatusOK, s.rotator.Stats())
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	total, exhausted := s.rotator.Len()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"banners":   total,
		"exhausted": exhausted,
	})
	return nil
}

func (s *Server) refreshGauges() {
	s.metrics.setBanners(s.rotator.Len())
}
