package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/auth"
	"github.com/portosite/backend/internal/hub"
	"github.com/portosite/backend/internal/middleware"
)

// Router holds all handlers and creates the chi router
type Router struct {
	notificationHandler *NotificationHandler
	messageHandler      *MessageHandler
	healthHandler       *HealthHandler
	hub                 *hub.Hub
	wsPath              string
	jwtManager          *auth.JWTManager
	logger              *zap.Logger
}

// NewRouter creates a new router
func NewRouter(
	notificationHandler *NotificationHandler,
	messageHandler *MessageHandler,
	healthHandler *HealthHandler,
	h *hub.Hub,
	wsPath string,
	jwtManager *auth.JWTManager,
	logger *zap.Logger,
) *Router {
	return &Router{
		notificationHandler: notificationHandler,
		messageHandler:      messageHandler,
		healthHandler:       healthHandler,
		hub:                 h,
		wsPath:              wsPath,
		jwtManager:          jwtManager,
		logger:              logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(chimiddleware.Compress(5))

	// Health endpoints (no auth required)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", rt.healthHandler.Health)
		r.Get("/ready", rt.healthHandler.Ready)
		r.Get("/live", rt.healthHandler.Live)
	})

	// Delivery channel endpoint. Auth middleware accepts ?token= for
	// browser WebSocket clients.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(rt.jwtManager))
		r.Get(rt.wsPath, rt.hub.ServeWS)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public contact form
		r.Post("/messages", rt.messageHandler.Create)

		// Admin dashboard routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.jwtManager))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Post("/", rt.notificationHandler.Create)
				r.Patch("/{id}", rt.notificationHandler.SetRead)
				r.Delete("/{id}", rt.notificationHandler.Delete)
			})

			r.Get("/messages", rt.messageHandler.List)
			r.Delete("/messages/{id}", rt.messageHandler.Delete)
		})
	})

	return r
}
