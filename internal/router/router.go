package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "gamereview/backend/docs" // registers the generated swagger spec

	"gamereview/backend/internal/auth"
	"gamereview/backend/internal/handler"
	"gamereview/backend/internal/hub"
	"gamereview/backend/internal/metrics"
	"gamereview/backend/internal/middleware"
	"gamereview/backend/internal/service"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Auth    *service.AuthService
	Reviews *service.ReviewService
	Tokens  auth.TokenParser
	Hub     *hub.Hub
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// New builds the gin engine with every route mounted.
func New(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Hub == nil {
		d.Hub = hub.NewHub()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		metrics.Middleware(d.Metrics),
	)

	h := handler.New(d.Auth, d.Reviews, d.Hub, d.Metrics, d.Logger)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		userRoutes := api.Group("/users")
		{
			userRoutes.POST("/register", h.RegisterUser)
			userRoutes.POST("/login", h.LoginUser)
		}

		gameRoutes := api.Group("/games")
		{
			gameRoutes.GET("", h.GetGames)
			gameRoutes.GET("/:id", h.GetGameByID)
			gameRoutes.GET("/:id/events", h.GameEvents)
			gameRoutes.POST("/:id/review", auth.RequireToken(d.Tokens), h.AddReview)
		}
	}

	return router
}
