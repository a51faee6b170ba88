package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/platewise/recipe-api/internal/apperrors"
	"github.com/platewise/recipe-api/internal/models"
)

// RecipeInput carries the fields for creating a recipe.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	Tags        []TagInput
	Ingredients []IngredientInput
}

// RecipePatch carries a partial update. Nil fields are left unchanged. A
// non-nil Tags or Ingredients pointer (including a pointer to an empty slice)
// replaces the whole set; nil leaves the set untouched. There is deliberately
// no owner field: ownership is immutable after creation.
type RecipePatch struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]TagInput
	Ingredients *[]IngredientInput
}

// RecipeService orchestrates recipes together with their tag and ingredient
// sets. All reads and writes are scoped to the owning user.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a recipe bound to owner, reconciling any named tags
// and ingredients to existing-or-new rows inside one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, owner uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeFields(input.Title, input.TimeMinutes, input.Price); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		UserID:      owner,
		Title:       input.Title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Description: input.Description,
		Link:        input.Link,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}

		tags, err := reconcileTags(tx, owner, input.Tags)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}

		ingredients, err := reconcileIngredients(tx, owner, input.Ingredients)
		if err != nil {
			return err
		}
		if len(ingredients) > 0 {
			if err := tx.Model(&recipe).Association("Ingredients").Append(&ingredients); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, owner, recipe.ID)
}

// GetRecipe retrieves a recipe owned by owner. A recipe owned by someone else
// is reported as not found, same as a missing one.
func (s *RecipeService) GetRecipe(ctx context.Context, owner, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		First(&recipe, "id = ? AND user_id = ?", id, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe applies a partial or full update. When the patch names a tag
// or ingredient set, the current set is cleared and repopulated from the
// reconciler within the same transaction, so a concurrent reader never
// observes the cleared-but-not-repopulated intermediate state.
func (s *RecipeService) UpdateRecipe(ctx context.Context, owner, id uuid.UUID, patch RecipePatch) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if patch.Title != nil {
			recipe.Title = *patch.Title
		}
		if patch.TimeMinutes != nil {
			recipe.TimeMinutes = *patch.TimeMinutes
		}
		if patch.Price != nil {
			recipe.Price = *patch.Price
		}
		if patch.Description != nil {
			recipe.Description = *patch.Description
		}
		if patch.Link != nil {
			recipe.Link = *patch.Link
		}
		if err := validateRecipeFields(recipe.Title, recipe.TimeMinutes, recipe.Price); err != nil {
			return err
		}

		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		if patch.Tags != nil {
			if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
				return err
			}
			tags, err := reconcileTags(tx, owner, *patch.Tags)
			if err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
					return err
				}
			}
		}

		if patch.Ingredients != nil {
			if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
				return err
			}
			ingredients, err := reconcileIngredients(tx, owner, *patch.Ingredients)
			if err != nil {
				return err
			}
			if len(ingredients) > 0 {
				if err := tx.Model(&recipe).Association("Ingredients").Append(&ingredients); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, owner, id)
}

// DeleteRecipe removes a recipe and its join rows. Tags and ingredients
// themselves are left intact for other recipes or future use.
func (s *RecipeService) DeleteRecipe(ctx context.Context, owner, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// ListRecipes lists the owner's recipes, most recently created first.
func (s *RecipeService) ListRecipes(ctx context.Context, owner uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SetRecipeImage records the opaque image reference returned by blob storage.
func (s *RecipeService) SetRecipeImage(ctx context.Context, owner, id uuid.UUID, imageURL string) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	recipe.ImageURL = imageURL
	if err := s.db.WithContext(ctx).Model(recipe).Update("image_url", imageURL).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

func validateRecipeFields(title string, timeMinutes int, price decimal.Decimal) error {
	if title == "" {
		return apperrors.NewValidationError("title", "is required")
	}
	if timeMinutes < 0 {
		return apperrors.NewValidationError("time_minutes", "must not be negative")
	}
	if price.IsNegative() {
		return apperrors.NewValidationError("price", "must not be negative")
	}
	return nil
}
