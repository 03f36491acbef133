package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MaximeWq/challenge-mobilite-app/controllers"
	"github.com/MaximeWq/challenge-mobilite-app/middlewares"
	"github.com/MaximeWq/challenge-mobilite-app/services"
)

func SetupRouter(db *gorm.DB, clock services.Clock) *gin.Engine {
	feed := services.NewFeedHub()

	authSvc := services.NewAuthService(db)
	activitySvc := services.NewActivityService(db, clock, feed)
	statsSvc := services.NewStatsService(db, clock)
	userSvc := services.NewUserService(db)

	authCtl := controllers.NewAuthController(authSvc)
	activityCtl := controllers.NewActivityController(activitySvc)
	statsCtl := controllers.NewStatsController(statsSvc, clock)
	userCtl := controllers.NewUserController(userSvc)
	feedCtl := controllers.NewFeedController(feed)

	r := gin.Default()

	r.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"test": "ok"})
	})

	// Public routes
	r.POST("/register", authCtl.Register)
	r.POST("/login", authCtl.Login)
	r.GET("/stats/general", statsCtl.General)

	// Authenticated routes
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware(db))
	{
		auth.GET("/user", authCtl.Me)
		auth.POST("/logout", authCtl.Logout)

		activities := auth.Group("/activities")
		{
			activities.GET("", activityCtl.List)
			activities.POST("", activityCtl.Create)
			activities.GET("/user/:id", activityCtl.ListForUser)
			activities.GET("/:id", activityCtl.Show)
			activities.PUT("/:id", activityCtl.Update)
			activities.DELETE("/:id", activityCtl.Delete)
		}

		stats := auth.Group("/stats")
		{
			stats.GET("/teams", statsCtl.Teams)
			stats.GET("/users", statsCtl.Users)
			stats.GET("/personal", statsCtl.Personal)
			stats.GET("/export", statsCtl.Export)
		}

		auth.GET("/ws/feed", feedCtl.FeedWS)

		admin := auth.Group("/admin")
		admin.Use(middlewares.AdminMiddleware())
		{
			admin.GET("/users", userCtl.List)
			admin.PUT("/users/:id", userCtl.Update)
			admin.DELETE("/users/:id", userCtl.Delete)
		}
	}

	return r
}
