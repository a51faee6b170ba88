package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/recipe-api/internal/apperrors"
	"github.com/platewise/recipe-api/internal/models"
)

// TagInput names a tag to attach to a recipe.
type TagInput struct {
	Name string `json:"name" binding:"required"`
}

// IngredientInput names an ingredient to attach to a recipe.
type IngredientInput struct {
	Name string `json:"name" binding:"required"`
}

// reconcileTags resolves each descriptor to an existing or newly created tag
// owned by the given user. The lookup-then-create runs inside the caller's
// transaction; the (user_id, name) unique index is the backstop for the window
// between lookup and insert. A duplicate-key failure means a concurrent
// request created the same name first and surfaces as ErrConflict so the
// caller can retry. Duplicate names in the input collapse to one reference.
func reconcileTags(tx *gorm.DB, owner uuid.UUID, descriptors []TagInput) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(descriptors))
	seen := make(map[string]bool, len(descriptors))

	for _, d := range descriptors {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true

		var tag models.Tag
		err := tx.Where("user_id = ? AND name = ?", owner, d.Name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{UserID: owner, Name: d.Name}
			if err := tx.Create(&tag).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, fmt.Errorf("tag %q: %w", d.Name, apperrors.ErrConflict)
				}
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// reconcileIngredients is the ingredient counterpart of reconcileTags, with
// its own uniqueness scope.
func reconcileIngredients(tx *gorm.DB, owner uuid.UUID, descriptors []IngredientInput) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(descriptors))
	seen := make(map[string]bool, len(descriptors))

	for _, d := range descriptors {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true

		var ingredient models.Ingredient
		err := tx.Where("user_id = ? AND name = ?", owner, d.Name).First(&ingredient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ingredient = models.Ingredient{UserID: owner, Name: d.Name}
			if err := tx.Create(&ingredient).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, fmt.Errorf("ingredient %q: %w", d.Name, apperrors.ErrConflict)
				}
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}

		ingredients = append(ingredients, ingredient)
	}

	return ingredients, nil
}
