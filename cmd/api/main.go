package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platewise/recipe-api/config"
	"github.com/platewise/recipe-api/internal/api"
	"github.com/platewise/recipe-api/internal/database"
	"github.com/platewise/recipe-api/internal/middleware"
	"github.com/platewise/recipe-api/internal/router"
	"github.com/platewise/recipe-api/internal/server"
	"github.com/platewise/recipe-api/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Rate limiting degrades to open when Redis is unavailable, so a failed
	// connection only logs a warning.
	var writeLimiter, uploadLimiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, rate limiting disabled: %v", err)
	} else {
		writeLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
		uploadLimiter = middleware.NewImageUploadRateLimiter(redisClient)
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)
	imageService := service.NewImageService(s3Config)

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService, imageService, writeLimiter, uploadLimiter)
	tagHandler := api.NewTagHandler(tagService)
	ingredientHandler := api.NewIngredientHandler(ingredientService)

	engine := router.SetupRouter(authHandler, recipeHandler, tagHandler, ingredientHandler, authService)
	srv := server.New(engine)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
