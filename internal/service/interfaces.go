package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/platewise/recipe-api/internal/types"
)

// IImageService abstracts blob storage for recipe images.
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, data []byte, filename string) (string, error)
}

// IAuthService is the token surface handlers and middleware depend on.
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}
