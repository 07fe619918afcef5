package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/group-collab-api/internal/config"
	"github.com/yukikurage/group-collab-api/internal/constants"
	"github.com/yukikurage/group-collab-api/internal/database"
	"github.com/yukikurage/group-collab-api/internal/handlers"
	"github.com/yukikurage/group-collab-api/internal/logging"
	"github.com/yukikurage/group-collab-api/internal/middleware"
	"github.com/yukikurage/group-collab-api/internal/repository"
	"github.com/yukikurage/group-collab-api/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.GinMode, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logger.Warn("failed to add indexes", zap.Error(err))
	}

	r := gin.Default()

	// Session middleware backed by Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Fatal("failed to create Redis store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignRepo := repository.NewAssignmentRepository(db)
	invRepo := repository.NewInvitationRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	groupService := services.NewGroupService(groupRepo, memberRepo, userRepo, logger)
	assignService := services.NewAssignmentService(assignRepo, memberRepo, logger)
	taskService := services.NewTaskService(taskRepo, memberRepo, assignService, logger)
	invService := services.NewInvitationService(invRepo, groupRepo, userRepo, memberRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	groupHandler := handlers.NewGroupHandler(groupService)
	taskHandler := handlers.NewTaskHandler(taskService, assignService)
	invHandler := handlers.NewInvitationHandler(invService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		groups := api.Group("/groups")
		groups.Use(middleware.RequireAuth())
		{
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("", groupHandler.ListGroups)
			groups.POST("/join", groupHandler.JoinGroup)
			groups.GET("/:id", middleware.RequireGroupAccess(), groupHandler.GetGroup)
			groups.PUT("/:id", middleware.RequireGroupAccess(), groupHandler.UpdateGroup)
			groups.DELETE("/:id", middleware.RequireGroupAccess(), groupHandler.DeleteGroup)
			groups.POST("/:id/leave", middleware.RequireGroupAccess(), groupHandler.LeaveGroup)
			groups.POST("/:id/regenerate-code", middleware.RequireGroupAccess(), groupHandler.RegenerateJoinCode)
			groups.GET("/:id/members", middleware.RequireGroupAccess(), groupHandler.ListMembers)
			groups.DELETE("/:id/members/:user_id", middleware.RequireGroupAccess(), groupHandler.RemoveMember)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", middleware.RequireTaskAccess(), taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
			tasks.GET("/:id/assignments", middleware.RequireTaskAccess(), taskHandler.ListTaskAssignments)
		}

		api.GET("/assignments", middleware.RequireAuth(), taskHandler.ListMyAssignments)

		invitations := api.Group("/invitations")
		invitations.Use(middleware.RequireAuth())
		{
			invitations.POST("", invHandler.CreateInvitation)
			invitations.GET("", invHandler.ListInvitations)
			invitations.POST("/:id/respond", invHandler.RespondInvitation)
		}
	}

	logger.Info("server starting", zap.String("addr", ":8080"))
	if err := r.Run(":8080"); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
