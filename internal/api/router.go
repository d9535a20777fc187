package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/commonroom/community-platform/internal/api/handler"
	"github.com/commonroom/community-platform/internal/api/middleware"
	"github.com/commonroom/community-platform/internal/core/service"
	mongodb "github.com/commonroom/community-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/commonroom/community-platform/internal/infrastructure/db/redis"
	"github.com/commonroom/community-platform/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The deliverer is constructed (and started) by the caller so its worker
// lifecycle is owned by main.
func NewRouter(db *mongo.Database, rdb *redis.Client, deliverer service.Deliverer, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("community"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	communityRepo := mongodb.NewCommunityRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)
	chatRepo := mongodb.NewChatRepository(db)

	board := redisdb.NewLeaderboard(rdb)
	unread := redisdb.NewUnreadCounter(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	communityService := service.NewCommunityService(communityRepo, log)
	postService := service.NewPostService(postRepo, communityRepo, board, log)
	commentService := service.NewCommentService(commentRepo, postRepo, log)
	chatService := service.NewChatService(chatRepo, userRepo, unread, deliverer, log)

	authHandler := handler.NewAuthHandler(authService)
	communityHandler := handler.NewCommunityHandler(communityService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	chatHandler := handler.NewChatHandler(chatService)

	auth := middleware.Auth(jwtSecret)

	// --- Auth & profiles ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/users/:username", authHandler.Profile)
	e.PUT("/me", authHandler.UpdateProfile, auth)

	// --- Communities & membership ---
	e.POST("/communities", communityHandler.Create, auth)
	e.GET("/communities", communityHandler.List)
	e.GET("/communities/:id", communityHandler.Get)
	e.PUT("/communities/:id", communityHandler.Update, auth)
	e.DELETE("/communities/:id", communityHandler.Delete, auth)
	e.POST("/communities/:id/join", communityHandler.Join, auth)
	e.POST("/communities/:id/leave", communityHandler.Leave, auth)
	e.GET("/communities/:id/posts", postHandler.CommunityFeed)

	// --- Posts, votes, feeds ---
	e.POST("/posts", postHandler.Create, auth)
	e.GET("/posts/feed", postHandler.Feed)
	e.GET("/posts/popular", postHandler.Popular)
	e.GET("/posts/trending", postHandler.Trending)
	e.GET("/posts/:id", postHandler.Get)
	e.DELETE("/posts/:id", postHandler.Delete, auth)
	e.PUT("/posts/:id/upvote", postHandler.Upvote, auth)
	e.PUT("/posts/:id/downvote", postHandler.Downvote, auth)
	e.GET("/search", postHandler.Search)

	// --- Comments ---
	e.POST("/posts/:id/comments", commentHandler.Create, auth)
	e.GET("/posts/:id/comments", commentHandler.List)
	e.DELETE("/comments/:id", commentHandler.Delete, auth)

	// --- Chats ---
	e.POST("/chats", chatHandler.Open, auth)
	e.GET("/chats", chatHandler.List, auth)
	e.GET("/chats/:id/messages", chatHandler.Messages, auth)
	e.POST("/chats/:id/messages", chatHandler.Send, auth)

	// --- Health probes & metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
