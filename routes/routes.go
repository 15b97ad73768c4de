package routes

import (
	"time"

	"kommunity/handlers"
	"kommunity/middleware"
	"kommunity/models"
	"kommunity/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options tunes the middleware stack.
type Options struct {
	MaxRequestsPerMin int
	RateLimitClients  int
}

// RegisterRequestRoutes registers the repair request lifecycle endpoints.
func RegisterRequestRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	requests := api.Group("/requests")
	{
		requests.POST("", hb.SubmitRequestHandler)
		requests.GET("", hb.ListRequestsHandler)
		requests.GET("/:id", hb.GetRequestHandler)

		requests.POST("/:id/start", hb.StartRequestHandler)
		requests.POST("/:id/complete", hb.CompleteRequestHandler)
		requests.POST("/:id/cancel", hb.CancelRequestHandler)
		requests.POST("/:id/notes", hb.AddNoteHandler)

		// Dispatch is admin only.
		admin := requests.Group("", middleware.RequireRole(models.RoleAdmin))
		admin.POST("/:id/assign", hb.AssignRequestHandler)
		admin.POST("/:id/schedule", hb.ScheduleRequestHandler)
		admin.POST("/:id/reassign", hb.ReassignRequestHandler)
		admin.POST("/:id/force-complete", hb.ForceCompleteRequestHandler)
	}
}

// RegisterServicemanRoutes registers roster and job list endpoints.
func RegisterServicemanRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	servicemen := api.Group("/servicemen")
	{
		servicemen.GET("", middleware.RequireRole(models.RoleAdmin), hb.ListServicemenHandler)
		servicemen.GET("/:serviceman/jobs", middleware.RequireRole(models.RoleAdmin, models.RoleServiceman), hb.ServicemanJobsHandler)
	}
}

// RegisterScheduleRoutes registers availability endpoints.
func RegisterScheduleRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	schedules := api.Group("/schedules/:serviceman/:date")
	{
		schedules.GET("", hb.GetDayHandler)
		schedules.GET("/available", hb.AvailableSlotsHandler)
		schedules.PUT("", hb.EnsureDayHandler)
		schedules.POST("/slots", hb.AddTimeSlotHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(utils.ErrorHandler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RateLimitMiddleware(opts.MaxRequestsPerMin, opts.RateLimitClients))
	RegisterRequestRoutes(api, hb)
	RegisterServicemanRoutes(api, hb)
	RegisterScheduleRoutes(api, hb)
}
