package routes

import (
	"net/http"
	"strings"
	"time"

	"newsdesk/handlers"
	"newsdesk/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public routes; the unauthenticated write endpoints are rate limited.
	router.POST("/api/auth/signup", middleware.RateLimit(), handlers.Signup)
	router.POST("/api/auth/login", middleware.RateLimit(), handlers.Login)
	router.GET("/api/posts", handlers.ListPosts)
	router.GET("/api/posts/:id", handlers.GetPost)
	router.GET("/api/comments", handlers.ListComments)
	router.POST("/api/comments", middleware.RateLimit(), handlers.CreateComment)

	// Any authenticated session
	authed := router.Group("/api")
	authed.Use(middleware.AuthRequired())
	authed.GET("/auth/me", handlers.Me)
	authed.POST("/posts/:id/like", handlers.LikePost)

	// Admin only
	admin := router.Group("/api")
	admin.Use(middleware.AuthRequired(), middleware.AdminOnly())
	admin.POST("/posts", handlers.CreatePost)
	admin.PUT("/posts/:id", handlers.UpdatePost)
	admin.DELETE("/posts/:id", handlers.DeletePost)
	admin.GET("/admin/stats", handlers.GetAdminStats)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
