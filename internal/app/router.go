package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleetride/internal/handler"
	"fleetride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler      *handler.RideHandler
	DriverHandler    *handler.DriverHandler
	VehicleHandler   *handler.VehicleHandler
	UserHandler      *handler.UserHandler
	DailyRideHandler *handler.DailyRideHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.CallerContext())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.Create)
			rides.GET("", deps.RideHandler.GetAll)
			rides.GET("/:id", deps.RideHandler.Get)
			rides.POST("/:id/approve", deps.RideHandler.Approve)
			rides.POST("/:id/reject", deps.RideHandler.Reject)
			rides.POST("/:id/assign", deps.RideHandler.Assign)
			rides.POST("/:id/start", deps.RideHandler.Start)
			rides.POST("/:id/complete", deps.RideHandler.Complete)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.GET("/available", deps.DriverHandler.Available)
		}

		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", deps.VehicleHandler.Register)
			vehicles.GET("/available", deps.VehicleHandler.Available)
			vehicles.GET("/mileage-summary", deps.VehicleHandler.MileageSummary)
			vehicles.POST("/:id/telemetry", deps.VehicleHandler.Telemetry)
			vehicles.GET("/:id/mileage-history", deps.VehicleHandler.MileageHistory)
		}

		dailyRides := v1.Group("/daily-rides")
		{
			dailyRides.POST("", deps.DailyRideHandler.Start)
			dailyRides.POST("/:id/complete", deps.DailyRideHandler.Complete)
		}
	}

	return router
}
