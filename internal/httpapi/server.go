package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/video-tools/server/internal/service"
)

// Server exposes the translation and download services over HTTP. The
// browser extension calls from arbitrary origins, so CORS is wide open.
type Server struct {
	translate *service.TranslateService
	download  *service.DownloadService

	router chi.Router
	server *http.Server
}

func NewServer(translate *service.TranslateService, download *service.DownloadService) *Server {
	s := &Server{
		translate: translate,
		download:  download,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/super-translate", s.handleSuperTranslate)
	s.router.Post("/super-translate-progress", s.handleSuperTranslateProgress)
	s.router.Post("/download", s.handleDownload)
	s.router.Post("/progress", s.handleDownloadProgress)
	s.router.Post("/info", s.handleInfo)
}
