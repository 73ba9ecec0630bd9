// Package rest assembles the HTTP router for the REST surface.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/infrastructure/di"
	"pawdopt-backend/interfaces/http/rest/handlers"
	"pawdopt-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		cfg:       container.Config,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.pawdopt.app"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	requestHandler := handlers.NewRequestHandler(rt.container.RequestService, rt.logger)
	chatHandler := handlers.NewChatHandler(rt.container.ChatService, rt.logger)
	messageHandler := handlers.NewMessageHandler(rt.container.MessageService, rt.container.ChatService, rt.logger)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg, rt.logger))
		if rt.container.RateLimiter != nil {
			r.Use(middleware.RateLimit(rt.container.RateLimiter, rt.logger))
		}

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", requestHandler.Create)
			r.Get("/", requestHandler.List)
			r.Patch("/", requestHandler.UpdateStatus)
			r.Delete("/", requestHandler.Delete)
			r.Post("/approve", requestHandler.Approve)
		})

		r.Route("/chats", func(r chi.Router) {
			r.Post("/", chatHandler.Create)
			r.Get("/", chatHandler.Get)
			r.Post("/deactivate", chatHandler.Deactivate)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", messageHandler.Send)
			r.Get("/", messageHandler.History)
			r.Patch("/", messageHandler.MarkRead)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
