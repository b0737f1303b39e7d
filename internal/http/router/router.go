package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvoskresenskiy/tasker-backend/internal/config"
	"github.com/nvoskresenskiy/tasker-backend/internal/http/handlers"
	"github.com/nvoskresenskiy/tasker-backend/internal/http/middleware"
	"github.com/nvoskresenskiy/tasker-backend/internal/models"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
)

// Handlers объединяет все HTTP обработчики приложения.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Tasker       *handlers.TaskerHandler
	Task         *handlers.TaskHandler
	Catalog      *handlers.CatalogHandler
	Booking      *handlers.BookingHandler
	Review       *handlers.ReviewHandler
	Payment      *handlers.PaymentHandler
	Verification *handlers.VerificationHandler
	Favorite     *handlers.FavoriteHandler
	Location     *handlers.LocationHandler
	Media        *handlers.MediaHandler
	Health       *handlers.HealthHandler
	WS           *handlers.WSHandler
}

// SetupRouter собирает все маршруты приложения.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	// Публичные маршруты
	api.GET("/ws", h.WS.Handle)

	api.GET("/categories", h.Catalog.List)
	api.GET("/categories/popular", h.Catalog.ListPopular)
	api.GET("/categories/featured", h.Catalog.ListFeatured)
	api.GET("/categories/:slug", h.Catalog.GetBySlug)

	api.GET("/taskers/search", h.Tasker.Search)
	api.GET("/taskers/:id", middleware.UUIDValidator("id"), h.Tasker.Get)
	api.GET("/taskers/:id/reviews", middleware.UUIDValidator("id"), h.Review.ListForTasker)

	api.GET("/tasks/search", h.Task.Search)
	api.GET("/tasks/slug/:slug", h.Task.GetBySlug)
	api.GET("/tasks/:id", middleware.UUIDValidator("id"), h.Task.Get)
	api.GET("/tasks/:id/reviews", middleware.UUIDValidator("id"), h.Review.ListForTask)

	api.GET("/reviews/:id", middleware.UUIDValidator("id"), h.Review.Get)

	// Подтверждение платежа приходит от провайдера по reference.
	api.POST("/payments/confirm", h.Payment.Confirm)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", h.Auth.Me)
		protected.POST("/auth/logout", h.Auth.Logout)

		protected.POST("/taskers", h.Tasker.CreateProfile)
		protected.GET("/taskers/me/profile", h.Tasker.GetOwn)
		protected.PUT("/taskers/me/profile", h.Tasker.UpdateProfile)
		protected.DELETE("/taskers/me/profile", h.Tasker.Deactivate)
		protected.POST("/taskers/me/reactivate", h.Tasker.Reactivate)
		protected.POST("/taskers/me/skills", h.Tasker.AddSkill)
		protected.PUT("/taskers/me/skills/:id", middleware.UUIDValidator("id"), h.Tasker.UpdateSkillRate)
		protected.DELETE("/taskers/me/skills/:id", middleware.UUIDValidator("id"), h.Tasker.RemoveSkill)
		protected.POST("/taskers/me/portfolio", h.Tasker.AddPortfolioItem)
		protected.DELETE("/taskers/me/portfolio/:id", middleware.UUIDValidator("id"), h.Tasker.RemovePortfolioItem)

		protected.POST("/tasks", h.Task.Create)
		protected.PUT("/tasks/:id", middleware.UUIDValidator("id"), h.Task.Update)
		protected.DELETE("/tasks/:id", middleware.UUIDValidator("id"), h.Task.Deactivate)
		protected.POST("/tasks/:id/reactivate", middleware.UUIDValidator("id"), h.Task.Reactivate)

		protected.POST("/bookings", h.Booking.Create)
		protected.GET("/bookings", h.Booking.ListOwn)
		protected.GET("/bookings/assigned", h.Booking.ListAssigned)
		protected.GET("/bookings/:id", middleware.UUIDValidator("id"), h.Booking.Get)
		protected.PUT("/bookings/:id/status", middleware.UUIDValidator("id"), h.Booking.SetStatus)
		protected.PUT("/bookings/:id/reschedule", middleware.UUIDValidator("id"), h.Booking.Reschedule)
		protected.POST("/bookings/:id/messages", middleware.UUIDValidator("id"), h.Booking.SendMessage)
		protected.GET("/bookings/:id/messages", middleware.UUIDValidator("id"), h.Booking.ListMessages)
		protected.GET("/messages/unread", h.Booking.UnreadCount)

		protected.POST("/reviews", h.Review.Create)

		protected.POST("/payments", h.Payment.Create)
		protected.GET("/payments", h.Payment.List)
		protected.POST("/payouts", h.Payment.RequestPayout)
		protected.GET("/payouts", h.Payment.ListPayouts)
		protected.GET("/payouts/balance", h.Payment.Balance)

		protected.POST("/verifications", h.Verification.Submit)
		protected.GET("/verifications", h.Verification.ListOwn)

		protected.POST("/favorites", h.Favorite.Add)
		protected.GET("/favorites", h.Favorite.List)
		protected.GET("/favorites/:type/:id", h.Favorite.Check)
		protected.DELETE("/favorites/:type/:id", h.Favorite.Remove)

		protected.POST("/locations", h.Location.Create)
		protected.GET("/locations/:id", middleware.UUIDValidator("id"), h.Location.Get)
		protected.PUT("/locations/:id", middleware.UUIDValidator("id"), h.Location.Update)

		protected.POST("/media", h.Media.Upload)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), h.Media.Delete)
	}

	// Админские маршруты
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/categories", h.Catalog.Create)
		admin.PUT("/categories/:id", middleware.UUIDValidator("id"), h.Catalog.Update)

		admin.GET("/verifications", h.Verification.ListQueue)
		admin.PUT("/verifications/:id/status", middleware.UUIDValidator("id"), h.Verification.Review)
		admin.GET("/verifications/:id/history", middleware.UUIDValidator("id"), h.Verification.History)

		admin.PUT("/payouts/:id/status", middleware.UUIDValidator("id"), h.Payment.AdvancePayout)
	}

	return r
}
