package main

import (
	"log"

	"ghostmedia/backend/internal/auth"
	"ghostmedia/backend/internal/config"
	"ghostmedia/backend/internal/database"
	"ghostmedia/backend/internal/handler"
	"ghostmedia/backend/internal/hub"
	"ghostmedia/backend/internal/repository"
	"ghostmedia/backend/internal/scheduler"
	"ghostmedia/backend/internal/service"
	"ghostmedia/backend/pkg/logger"
	"ghostmedia/backend/pkg/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// Swagger imports
	_ "ghostmedia/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           GhostMedia API
// @version         1.0
// @description     Social backend with realtime presence and ephemeral (ghost) content.
// @host            localhost:5000
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init(config.AppConfig.ServerMode)
	defer logger.Log.Sync()

	monitoring.Init()
	database.Connect(config.AppConfig.DatabaseURL)

	if config.AppConfig.ServerMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	postRepo := repository.NewPostRepository(database.DB)
	friendRepo := repository.NewFriendshipRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)

	// Realtime hub, expiry scheduler and services
	realtimeHub := hub.GlobalHub
	sched := scheduler.New()
	friendSvc := service.NewFriendshipService(friendRepo, realtimeHub)
	postSvc := service.NewPostService(postRepo, realtimeHub, sched)
	messageSvc := service.NewMessageService(messageRepo, userRepo, realtimeHub, sched)
	realtimeHub.SetInbound(messageSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo)
	userHandler := handler.NewUserHandler(userRepo)
	postHandler := handler.NewPostHandler(postSvc)
	friendHandler := handler.NewFriendshipHandler(friendSvc, userRepo)
	messageHandler := handler.NewMessageHandler(messageSvc)
	adminHandler := handler.NewAdminHandler(userRepo, postRepo, friendRepo, messageRepo)

	router := gin.Default()
	router.Use(monitoring.MetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Swagger and metrics routes
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.String(200, "Pong")
	})

	// Realtime channel. Connections identify themselves with the
	// userConnected event after the upgrade.
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(realtimeHub, c.Writer, c.Request)
	})

	api := router.Group("/api")
	{
		// Auth routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// Feed reads work without a session, with one if present.
		feed := api.Group("")
		feed.Use(auth.OptionalAuthMiddleware())
		{
			feed.GET("/allPosts", postHandler.ListAll)
			feed.GET("/user/posts/:username", postHandler.ListByUser)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(auth.AuthMiddleware())
		{
			// Users
			protected.GET("/getUser/:username", userHandler.GetUser)
			protected.GET("/searchFriend/:username", userHandler.SearchUsers)
			protected.PUT("/updateUserProfile/:username", userHandler.UpdateProfile)
			protected.POST("/updateProfileImage", userHandler.UpdateAvatar)

			// Posts
			protected.POST("/user/createPost", postHandler.Create)
			protected.PUT("/post/:postId", postHandler.Update)
			protected.DELETE("/post/:postId", postHandler.Delete)

			// Friendship
			protected.POST("/sendFriendRequest", friendHandler.SendRequest)
			protected.POST("/respondToFriendRequest/:requestId", friendHandler.Respond)
			protected.DELETE("/cancelFriendRequest/:requestId", friendHandler.Cancel)
			protected.DELETE("/unfriend/:friendshipId", friendHandler.Unfriend)
			protected.GET("/checkFriendshipStatus/:currentUser/:otherUser", friendHandler.CheckStatus)
			protected.GET("/friendRequests/:username", friendHandler.PendingReceived)
			protected.GET("/sentFriendRequests/:username", friendHandler.PendingSent)
			protected.GET("/friends/:username", friendHandler.Friends)

			// Messages
			protected.POST("/messages", messageHandler.Send)
			protected.GET("/messages/conversations/:username", messageHandler.Conversations)
			protected.GET("/messages/:sender/:recipient", messageHandler.History)
			protected.PUT("/messages/read", messageHandler.MarkRead)
			protected.DELETE("/messages/:messageId", messageHandler.Delete)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.GET("/users", adminHandler.ListUsers)
			adminRoutes.PATCH("/users/:id", adminHandler.UpdateUserStatus)
			adminRoutes.DELETE("/users/:id", adminHandler.DeleteUser)
			adminRoutes.GET("/posts", adminHandler.ListPosts)
			adminRoutes.GET("/posts/:username", adminHandler.ListUserPosts)
			adminRoutes.DELETE("/posts/:id", adminHandler.DeletePost)
		}
	}

	addr := ":" + config.AppConfig.Port
	logger.Log.Info("server starting", zap.String("addr", addr))
	log.Fatal(router.Run(addr))
}
