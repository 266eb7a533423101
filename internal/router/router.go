package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"esenciafest-backend/internal/handlers"
	"esenciafest-backend/internal/middleware"
	"esenciafest-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	roomsHandler *handlers.RoomsHandler,
	progressHandler *handlers.ProgressHandler,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *websocket.Hub,
	clientURL, adminURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(clientURL, adminURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Auth (public, rate limited) ────
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/auth", authHandler.Authenticate)
		r.Post("/admin/login", authHandler.AdminLogin)
	})

	// ──── Rooms (public) ────
	r.Get("/rooms/status", roomsHandler.Status)

	// ──── User routes ────
	r.Route("/user", func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Get("/progress", progressHandler.Get)
		r.Put("/progress/{roomId}", progressHandler.Mark)
		r.Delete("/delete", userHandler.Delete)
	})

	// ──── Admin routes ────
	r.Route("/admin/rooms", func(r chi.Router) {
		r.Use(jwtAuth.Middleware)
		r.Use(jwtAuth.AdminOnly)
		r.Put("/{roomId}/override", adminHandler.SetOverride)
		r.Put("/{roomId}/schedule", adminHandler.SetSchedule)
	})

	// ──── WebSocket (room-status updates) ────
	r.Get("/ws", wsHub.HandleWebSocket)

	return r
}
