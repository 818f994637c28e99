package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Restaurant is a tenant of the ordering platform. Menu categories, menu
// items and orders all hang off a restaurant.
type Restaurant struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Slug             string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug" validate:"required,min=2,max=150"`
	Address          string         `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	Phone            string         `gorm:"type:varchar(30)" json:"phone" validate:"max=30"`
	Timezone         string         `gorm:"type:varchar(50);default:'America/New_York'" json:"timezone"`
	SquareLocationID string         `gorm:"type:varchar(64);index" json:"square_location_id"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Restaurant) Validate() error {
	v := validator.New()
	return v.Struct(r)
}

func FindRestaurantBySlug(db *gorm.DB, slug string) (*Restaurant, error) {
	var restaurant Restaurant
	err := db.Where("slug = ? AND is_active = ?", slug, true).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}
