package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/recipe-api/internal/apperrors"
	"github.com/platewise/recipe-api/internal/models"
)

// TagService manages a user's tags. Tags are created only through recipe
// reconciliation; this service lists, renames and deletes them.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ListTags lists the owner's tags by name descending. With assignedOnly set,
// only tags attached to at least one recipe are returned, each exactly once
// no matter how many recipes reference it.
func (s *TagService) ListTags(ctx context.Context, owner uuid.UUID, assignedOnly bool) ([]models.Tag, error) {
	query := s.db.WithContext(ctx).Where("tags.user_id = ?", owner)
	if assignedOnly {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
			Distinct("tags.*")
	}

	var tags []models.Tag
	if err := query.Order("tags.name DESC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// UpdateTag renames a tag owned by owner. Renaming onto an existing name for
// the same user violates the unique index and reports a conflict.
func (s *TagService) UpdateTag(ctx context.Context, owner, id uuid.UUID, name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}

	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ? AND user_id = ?", id, owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	tag.Name = name
	if err := s.db.WithContext(ctx).Save(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag and detaches it from any recipes that reference it.
func (s *TagService) DeleteTag(ctx context.Context, owner, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, "id = ? AND user_id = ?", id, owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&tag).Association("Recipes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
