package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/recipe-api/internal/apperrors"
	"github.com/platewise/recipe-api/internal/models"
)

// IngredientService mirrors TagService for ingredients.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// ListIngredients lists the owner's ingredients by name descending,
// optionally restricted to those assigned to at least one recipe.
func (s *IngredientService) ListIngredients(ctx context.Context, owner uuid.UUID, assignedOnly bool) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Where("ingredients.user_id = ?", owner)
	if assignedOnly {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
			Distinct("ingredients.*")
	}

	var ingredients []models.Ingredient
	if err := query.Order("ingredients.name DESC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// UpdateIngredient renames an ingredient owned by owner.
func (s *IngredientService) UpdateIngredient(ctx context.Context, owner, id uuid.UUID, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}

	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ? AND user_id = ?", id, owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	ingredient.Name = name
	if err := s.db.WithContext(ctx).Save(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return &ingredient, nil
}

// DeleteIngredient removes an ingredient and detaches it from recipes.
func (s *IngredientService) DeleteIngredient(ctx context.Context, owner, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.First(&ingredient, "id = ? AND user_id = ?", id, owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&ingredient).Association("Recipes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
}
