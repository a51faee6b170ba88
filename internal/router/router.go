package router

import (
	"github.com/gin-gonic/gin"

	"github.com/platewise/recipe-api/internal/api"
	"github.com/platewise/recipe-api/internal/middleware"
)

// SetupRouter configures the application routes.
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	validator middleware.TokenValidator,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	authHandler.RegisterPublicRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		authHandler.RegisterProtectedRoutes(protected)
		recipeHandler.RegisterRoutes(protected)
		tagHandler.RegisterRoutes(protected)
		ingredientHandler.RegisterRoutes(protected)
	}

	return router
}
