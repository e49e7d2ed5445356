package routes

import (
	"slices"
	"time"

	"dog-sitter-api/handlers"
	"dog-sitter-api/middleware"
	"dog-sitter-api/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries what the router needs beyond the handlers
type Options struct {
	Tokens      *middleware.TokenManager
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		// wildcard origins cannot be combined with credentials
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}

// SetupRoutes registers middleware and every route on r
func SetupRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/signup", h.Signup)
		public.POST("/auth/login", h.Login)

		public.GET("/sitters", h.ListSitters)
		public.GET("/sitters/:id", h.GetSitter)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(opts.Tokens))
	{
		auth.GET("/user/me", h.Me)
		auth.PUT("/user/update", h.UpdateAccount)
		auth.DELETE("/user/delete", h.DeleteAccount)

		auth.GET("/sitter/profile", h.GetMySitterProfile)
		auth.PUT("/sitter/profile", h.UpdateSitterProfile)

		auth.POST("/bookings", h.CreateBooking)
		auth.GET("/bookings", h.ListBookings)
		auth.GET("/bookings/:id", h.GetBooking)
		auth.POST("/bookings/:id/confirm", h.ConfirmBooking())
		auth.POST("/bookings/:id/complete", h.CompleteBooking())
		auth.POST("/bookings/:id/cancel", h.CancelBooking())

		auth.POST("/reviews", h.CreateReview)
	}

	// ── Dog owner routes ───────────────────────────────────────────
	dogs := r.Group("/api/dogs")
	dogs.Use(middleware.AuthRequired(opts.Tokens))
	{
		dogs.GET("", h.ListDogs)
		dogs.GET("/:id", h.GetDog)
		dogs.POST("", middleware.RoleRequired(models.RoleClient), h.CreateDog)
		dogs.PATCH("/:id", h.UpdateDog)
		dogs.DELETE("/:id", h.DeleteDog)
	}
}
