package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/config"
	"github.com/rsaxena-dev/task-tracker-api/internal/database"
	"github.com/rsaxena-dev/task-tracker-api/internal/handlers"
	"github.com/rsaxena-dev/task-tracker-api/internal/logger"
	"github.com/rsaxena-dev/task-tracker-api/internal/middleware"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
	"github.com/rsaxena-dev/task-tracker-api/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := database.Migrate(); err != nil {
		lg.Fatalw("migrations failed", "error", err)
	}
	if err := database.SeedRoles(database.GetDB()); err != nil {
		lg.Fatalw("role seeding failed", "error", err)
	}

	db := database.GetDB()

	// Repositories
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	roles := services.NewRoleCache(roleRepo, services.DefaultRoleCacheTTL)
	visibility := services.NewVisibilityService(userRepo, roles)
	authService := services.NewAuthService(userRepo, roles, tokens, cfg.AdminEmail, cfg.AdminPassword)
	userService := services.NewUserService(userRepo, roles)
	projectService := services.NewProjectService(projectRepo, visibility)
	taskService := services.NewTaskService(taskRepo, userRepo, visibility, nil)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.Use(middleware.RequestLogger(lg), gin.Recovery())

	requireAuth := middleware.RequireAuth(tokens, userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		// User routes: listing is role-scoped, administration is super-admin only
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.List)

			admin := users.Group("")
			admin.Use(middleware.RequireRole(models.RoleSuperAdmin))
			{
				admin.POST("", userHandler.Create)
				admin.GET("/:id", userHandler.Get)
				admin.PUT("/:id", userHandler.Update)
				admin.DELETE("/:id", userHandler.Delete)
			}
		}

		// Project routes
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.List)
			projects.POST("", projectHandler.Create)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
		}

		// Task routes
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
		}
	}

	lg.Infow("listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}
