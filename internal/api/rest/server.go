package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fortuna/farmcheck/internal/service"
	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. The reporter receives run
// progress for every analysis triggered over HTTP; pass nil to discard it.
func NewServer(port string, analysis *service.AnalysisService, reporter service.Reporter) *Server {
	handler := NewHandler(analysis, reporter)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/analysis", handler.RunAnalysis).Methods("POST")
	api.HandleFunc("/analysis", handler.GetLastAnalysis).Methods("GET")
	api.HandleFunc("/analysis/csv", handler.DownloadCSV).Methods("GET")
	api.HandleFunc("/rules", handler.GetRules).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Router exposes the handler chain for tests.
func (s *Server) Router() http.Handler {
	return s.server.Handler
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
