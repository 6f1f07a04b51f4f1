package routes

import (
	"github.com/gin-gonic/gin"

	"taskvault/internal/adapter/http/handler"
	"taskvault/internal/adapter/http/middleware"
	"taskvault/internal/core/port"
	"taskvault/internal/shared"
	"taskvault/pkg/auth"
)

type HandlersConfig struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	TodoHandler       *handler.TodoHandler
	CategoryHandler   *handler.CategoryHandler
	TagHandler        *handler.TagHandler
	AttachmentHandler *handler.AttachmentHandler
	AdminHandler      *handler.AdminHandler

	UserService port.UserService
	JWT         *auth.JWT
}

func SetupRouter(handlers HandlersConfig, metrics *shared.AppMetrics, logger *shared.LokiLogger, cache *shared.ResponseCache) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, cache, shared.GetDefaultConfig())
}

// SetupRouterWithConfig builds the full middleware chain. The cache handed
// in here must be the same instance the mutating handlers invalidate
// through, or writes would keep serving stale listings.
func SetupRouterWithConfig(handlers HandlersConfig, metrics *shared.AppMetrics, logger *shared.LokiLogger, cache *shared.ResponseCache, config *shared.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	shared.SetupGinMiddleware(router, "taskvault", metrics, logger)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	if config.EnforceHTTPS {
		enforcer := shared.NewHTTPSEnforcer(logger.Logger.Logger)
		router.Use(enforcer.HTTPSMiddleware())
	}

	if config.RateLimitEnabled {
		limiter := shared.NewRateLimiter(config.RateLimitConfigs, logger.Logger.Logger, metrics)
		router.Use(limiter.RateLimitMiddleware())
	}

	if !config.CacheEnabled {
		cache = nil
	}

	setupRoutes(router, handlers, cache)

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig, cache *shared.ResponseCache) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	if handlers.AuthHandler != nil {
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handlers.AuthHandler.Register)
			authGroup.POST("/login", handlers.AuthHandler.Login)
			authGroup.POST("/refresh", handlers.AuthHandler.Refresh)
			authGroup.POST("/logout", handlers.AuthHandler.Logout)
		}
	}

	protected := api.Group("/")
	protected.Use(handlers.JWT.GinJwtMiddleware())
	protected.Use(middleware.OwnerMiddleware(handlers.UserService))

	if cache != nil {
		protected.Use(cache.CacheMiddleware())
	}

	if handlers.UserHandler != nil {
		users := protected.Group("/users")
		{
			users.GET("/me", handlers.UserHandler.GetProfile)
			users.PUT("/me", handlers.UserHandler.UpdateProfile)
			users.PUT("/me/password", handlers.UserHandler.ChangePassword)
		}
	}

	if handlers.TodoHandler != nil {
		todos := protected.Group("/todos")
		{
			todos.GET("", handlers.TodoHandler.GetAllTodos)
			todos.POST("", handlers.TodoHandler.CreateTodo)
			todos.GET("/search", handlers.TodoHandler.SearchTodos)
			todos.GET("/trash", handlers.TodoHandler.GetTrash)
			todos.GET("/statistics", handlers.TodoHandler.GetStatistics)
			todos.GET("/:id", handlers.TodoHandler.GetTodo)
			todos.PUT("/:id", handlers.TodoHandler.UpdateTodo)
			todos.DELETE("/:id", handlers.TodoHandler.DeleteTodo)
			todos.POST("/:id/restore", handlers.TodoHandler.RestoreTodo)
			todos.PATCH("/:id/status", handlers.TodoHandler.UpdateTodoStatus)
			todos.POST("/:id/subtasks", handlers.TodoHandler.CreateSubtask)
			todos.GET("/:id/subtasks", handlers.TodoHandler.GetSubtasks)

			if handlers.AttachmentHandler != nil {
				todos.POST("/:id/attachments", handlers.AttachmentHandler.AddAttachment)
				todos.GET("/:id/attachments", handlers.AttachmentHandler.GetAttachments)
				todos.DELETE("/:id/attachments/:attachmentId", handlers.AttachmentHandler.DeleteAttachment)
			}
		}
	}

	if handlers.CategoryHandler != nil {
		categories := protected.Group("/categories")
		{
			categories.GET("", handlers.CategoryHandler.GetAllCategories)
			categories.POST("", handlers.CategoryHandler.CreateCategory)
			categories.GET("/:id", handlers.CategoryHandler.GetCategory)
			categories.PUT("/:id", handlers.CategoryHandler.UpdateCategory)
			categories.DELETE("/:id", handlers.CategoryHandler.DeleteCategory)
		}
	}

	if handlers.TagHandler != nil {
		tags := protected.Group("/tags")
		{
			tags.GET("", handlers.TagHandler.GetAllTags)
			tags.POST("", handlers.TagHandler.CreateTag)
			tags.GET("/:id", handlers.TagHandler.GetTag)
			tags.PUT("/:id", handlers.TagHandler.UpdateTag)
			tags.DELETE("/:id", handlers.TagHandler.DeleteTag)
		}
	}

	if handlers.AdminHandler != nil {
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/dashboard", handlers.AdminHandler.GetDashboard)
			admin.GET("/users", handlers.AdminHandler.GetUsers)
			admin.GET("/users/:id", handlers.AdminHandler.GetUser)
			admin.PATCH("/users/:id/status", handlers.AdminHandler.UpdateUserStatus)
			admin.PATCH("/users/:id/role", handlers.AdminHandler.UpdateUserRole)
			admin.GET("/todos", handlers.AdminHandler.GetTodos)
			admin.DELETE("/todos/:id", handlers.AdminHandler.DeleteTodo)
			admin.DELETE("/categories/:id", handlers.AdminHandler.DeleteCategory)
			admin.DELETE("/tags/:id", handlers.AdminHandler.DeleteTag)
		}
	}
}

// SetupRouterForTests wires the routes without telemetry, rate limiting or
// caching so handler tests exercise only the request path.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	setupRoutes(router, handlers, nil)

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
