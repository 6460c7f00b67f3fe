package handler

import (
	"database/sql"
	"net/http"

	"credit_scoring/internal/client"
	"credit_scoring/internal/config"
	"credit_scoring/internal/middleware"
	"credit_scoring/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SetupHandler initializes all dependencies and routes.
func SetupHandler(db *sql.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigin))

	// Initialize repositories
	userRepo := user.NewUserRepository()
	clientRepo := client.NewClientRepository()

	// Initialize services
	userService := user.NewUserService(userRepo, db)
	clientService := client.NewClientService(clientRepo, db, redisClient)

	// Initialize controllers
	userController := user.NewUserController(userService, cfg.JWT.Secret)
	clientController := client.NewClientController(clientService)

	setupRoutes(r, userController, clientController, redisClient, cfg)

	return r
}

// setupRoutes configures all application routes.
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, clientCtrl *client.ClientController, redisClient *redis.Client, cfg *config.Config) {

	// Liveness
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Credit scoring API is running"})
	})

	// Authentication
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", userCtrl.Signup)
		authGroup.POST("/login",
			middleware.RateLimiterMiddleware(redisClient, middleware.LoginRateLimiterConfig()),
			userCtrl.Login,
		)
		authGroup.POST("/refresh", userCtrl.RefreshToken)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg.JWT.Secret), userCtrl.Me)
	}

	api := r.Group("/api")

	// Intake routes stay open: clients are registered and listed before an
	// analyst account touches them.
	api.POST("/clients", clientCtrl.Create)
	api.GET("/clients", clientCtrl.List)

	// Everything touching a single record requires a bearer token.
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		protected.GET("/clients/:id", clientCtrl.Get)
		protected.PATCH("/clients/:id", clientCtrl.Update)
		protected.DELETE("/clients/:id", clientCtrl.Delete)
		protected.GET("/statistics", clientCtrl.Statistics)
	}
}
