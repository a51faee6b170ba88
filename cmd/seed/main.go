package main

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"github.com/platewise/recipe-api/config"
	"github.com/platewise/recipe-api/internal/apperrors"
	"github.com/platewise/recipe-api/internal/database"
	"github.com/platewise/recipe-api/internal/models"
	"github.com/platewise/recipe-api/internal/service"
)

// Seeds demo accounts and a handful of recipes for local development.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)

	demoUsers := []struct {
		name     string
		email    string
		password string
	}{
		{"Demo Cook", "demo@example.com", "demopass1"},
		{"Second Cook", "second@example.com", "demopass2"},
	}

	for _, u := range demoUsers {
		if _, err := authService.Register(ctx, u.name, u.email, u.password); err != nil {
			if errors.Is(err, apperrors.ErrEmailTaken) {
				log.Printf("User %s already exists, skipping", u.email)
				continue
			}
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}
		log.Printf("Seeded user %s", u.email)
	}

	var owner models.User
	if err := db.First(&owner, "email = ?", "demo@example.com").Error; err != nil {
		log.Fatalf("Failed to look up demo user: %v", err)
	}

	var count int64
	if err := db.Model(&models.Recipe{}).Where("user_id = ?", owner.ID).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count recipes: %v", err)
	}
	if count > 0 {
		log.Printf("Demo user already has %d recipes, skipping recipe seed", count)
		return
	}

	recipes := []service.RecipeInput{
		{
			Title:       "Thai Prawn Curry",
			TimeMinutes: 30,
			Price:       decimal.NewFromFloat(12.50),
			Description: "A fragrant red curry with king prawns.",
			Tags:        []service.TagInput{{Name: "Thai"}, {Name: "Dinner"}},
			Ingredients: []service.IngredientInput{{Name: "Prawns"}, {Name: "Coconut milk"}, {Name: "Red curry paste"}},
		},
		{
			Title:       "Avocado Toast",
			TimeMinutes: 10,
			Price:       decimal.NewFromFloat(4.00),
			Description: "Sourdough, smashed avocado, chili flakes.",
			Tags:        []service.TagInput{{Name: "Breakfast"}, {Name: "Vegan"}},
			Ingredients: []service.IngredientInput{{Name: "Avocado"}, {Name: "Sourdough bread"}},
		},
		{
			Title:       "Pad Thai",
			TimeMinutes: 25,
			Price:       decimal.NewFromFloat(9.75),
			Description: "Rice noodles with tamarind and peanuts.",
			Tags:        []service.TagInput{{Name: "Thai"}},
			Ingredients: []service.IngredientInput{{Name: "Rice noodles"}, {Name: "Peanuts"}, {Name: "Tamarind paste"}},
		},
	}

	for _, input := range recipes {
		if _, err := recipeService.CreateRecipe(ctx, owner.ID, input); err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", input.Title, err)
		}
		log.Printf("Seeded recipe %q", input.Title)
	}

	log.Println("Seeding complete")
}
