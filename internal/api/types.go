package api

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/platewise/recipe-api/internal/models"
	"github.com/platewise/recipe-api/internal/service"
)

// CreateRecipeRequest is the payload for POST and PUT. Title, time_minutes
// and price are required; tags/ingredients replace the whole set when the key
// is present and are left untouched when absent.
type CreateRecipeRequest struct {
	Title       string                     `json:"title" binding:"required"`
	TimeMinutes *int                       `json:"time_minutes" binding:"required"`
	Price       *decimal.Decimal           `json:"price" binding:"required"`
	Description string                     `json:"description"`
	Link        string                     `json:"link"`
	Tags        *[]service.TagInput        `json:"tags"`
	Ingredients *[]service.IngredientInput `json:"ingredients"`
}

// UpdateRecipeRequest is the PATCH payload. Every field is optional; absent
// fields leave the stored value unchanged. There is no owner field, so a
// client-supplied user_id is never bound and never applied.
type UpdateRecipeRequest struct {
	Title       *string                    `json:"title"`
	TimeMinutes *int                       `json:"time_minutes"`
	Price       *decimal.Decimal           `json:"price"`
	Description *string                    `json:"description"`
	Link        *string                    `json:"link"`
	Tags        *[]service.TagInput        `json:"tags"`
	Ingredients *[]service.IngredientInput `json:"ingredients"`
}

// TagResponse is the wire shape of a tag.
type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// IngredientResponse is the wire shape of an ingredient.
type IngredientResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecipeSummary is the list-view shape; it omits the description.
type RecipeSummary struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       string               `json:"price"`
	Link        string               `json:"link"`
	ImageURL    string               `json:"image_url"`
	Tags        []TagResponse        `json:"tags"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

// RecipeDetail is the detail-view shape.
type RecipeDetail struct {
	RecipeSummary
	Description string `json:"description"`
}

// recipeAction selects which response shape an endpoint renders.
type recipeAction int

const (
	actionList recipeAction = iota
	actionDetail
)

func toTagResponses(tags []models.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name}
	}
	return out
}

func toIngredientResponses(ingredients []models.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		out[i] = IngredientResponse{ID: ing.ID, Name: ing.Name}
	}
	return out
}

func toRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		ImageURL:    r.ImageURL,
		Tags:        toTagResponses(r.Tags),
		Ingredients: toIngredientResponses(r.Ingredients),
	}
}

func toRecipeDetail(r *models.Recipe) RecipeDetail {
	return RecipeDetail{
		RecipeSummary: toRecipeSummary(r),
		Description:   r.Description,
	}
}

// renderRecipe maps an action to its output shape.
func renderRecipe(action recipeAction, r *models.Recipe) interface{} {
	if action == actionList {
		return toRecipeSummary(r)
	}
	return toRecipeDetail(r)
}
