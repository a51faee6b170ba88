package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	UserID      uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	TimeMinutes int             `gorm:"not null" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	Link        string          `gorm:"size:255" json:"link"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	Tags        []Tag           `gorm:"many2many:recipe_tags;" json:"tags"`
	Ingredients []Ingredient    `gorm:"many2many:recipe_ingredients;" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Tag is a short label owned by a single user. Names repeat across users but
// are unique per owner, which the composite index enforces at the store level.
type Tag struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:uidx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:uidx_tags_user_name" json:"name"`
	Recipes   []Recipe  `gorm:"many2many:recipe_tags;" json:"-"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Ingredient has the same shape and ownership rules as Tag but its own
// uniqueness scope and join table.
type Ingredient struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:uidx_ingredients_user_name" json:"user_id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:uidx_ingredients_user_name" json:"name"`
	Recipes   []Recipe  `gorm:"many2many:recipe_ingredients;" json:"-"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
