package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/quangdng/go-shop-api/internal/auth"
	"github.com/quangdng/go-shop-api/internal/comment"
	"github.com/quangdng/go-shop-api/internal/config"
	"github.com/quangdng/go-shop-api/internal/httputil"
	"github.com/quangdng/go-shop-api/internal/like"
	"github.com/quangdng/go-shop-api/internal/logging"
	"github.com/quangdng/go-shop-api/internal/order"
	"github.com/quangdng/go-shop-api/internal/user"
)

// Handlers groups the feature handlers wired into the router
type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Order   *order.Handler
	Like    *like.Handler
	Comment *comment.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		log.Println("Swagger UI disabled (production mode)")
	}

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.Get("/activate", h.Auth.Activate)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/reset-password", h.Auth.ResetPassword)
	})

	// Product comments are readable without an account
	r.Get("/products/{productID}/comments", h.Comment.ListByProduct)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.User.List)
			r.Get("/{id}", h.User.Get)
			r.Put("/{id}", h.User.Update)
			r.Patch("/{id}", h.User.Update)
			r.Delete("/{id}", h.User.Delete)
			r.Get("/{id}/orders", h.Order.ListForUser)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Order.Create)
			r.Get("/", h.Order.ListMine)
		})

		r.Route("/likes", func(r chi.Router) {
			r.Post("/", h.Like.Create)
			r.Get("/", h.Like.ListMine)
			r.Delete("/{id}", h.Like.Delete)
		})

		r.Post("/comments", h.Comment.Create)

		// Admin-only moderation
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)
			r.Get("/admin/comments", h.Comment.AdminList)
			r.Delete("/admin/comments/{id}", h.Comment.AdminDelete)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
