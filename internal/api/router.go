package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dom/user-directory/internal/api/handlers"
	"github.com/dom/user-directory/internal/api/middleware"
	"github.com/dom/user-directory/internal/config"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/service"
	"github.com/dom/user-directory/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.Logging(log.With("component", "http")))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.CSRF(cfg.CORS.AllowedOrigins, "/api/login", "/api/logout"))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	cookies := handlers.NewCookieHelper(cfg)
	authHandler := handlers.NewAuthHandler(services.Auth, cookies, log.With("handler", "auth"))
	userHandler := handlers.NewUserHandler(services.Directory, log.With("handler", "users"))
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.CORS.AllowedOrigins, log.With("handler", "websocket"))

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Get("/verify-token", authHandler.VerifyToken)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Delete("/{id}", userHandler.Delete)
			})

			// WebSocket endpoint
			r.Get("/ws", wsHandler.Handle)
		})
	})

	return r
}
