package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/platewise/recipe-api/internal/apperrors"
	"github.com/platewise/recipe-api/internal/models"
	"github.com/platewise/recipe-api/internal/types"
)

const tokenTTL = 24 * time.Hour

// AuthService manages user accounts and access tokens.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user with a hashed password and returns an access token.
// The email's domain part is lowercased before storing.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	if len(password) < 5 {
		return "", apperrors.NewValidationError("password", "must be at least 5 characters")
	}
	if email == "" {
		return "", apperrors.NewValidationError("email", "is required")
	}
	email = models.NormalizeEmail(email)

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return "", apperrors.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Losing the race on the unique email index is still a taken email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperrors.ErrEmailTaken
		}
		return "", err
	}

	return s.GenerateToken(user.ID)
}

// Login verifies credentials and returns an access token. All failure modes
// report the same error so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = models.NormalizeEmail(email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.GenerateToken(user.ID)
}

// GetUser returns the user with the given ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserPatch carries the updatable account fields; nil means leave unchanged.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateUser applies a partial update to the authenticated user's account.
func (s *AuthService) UpdateUser(ctx context.Context, userID uuid.UUID, patch UserPatch) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		if *patch.Email == "" {
			return nil, apperrors.NewValidationError("email", "is required")
		}
		user.Email = models.NormalizeEmail(*patch.Email)
	}
	if patch.Password != nil {
		if len(*patch.Password) < 5 {
			return nil, apperrors.NewValidationError("password", "must be at least 5 characters")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// GenerateToken signs a token for the given user.
func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*types.TokenClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
