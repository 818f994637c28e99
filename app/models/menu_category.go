package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// MenuCategory groups menu items on a restaurant's public menu.
type MenuCategory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID uint           `gorm:"not null;index;index:ux_menu_categories_restaurant_slug,unique,priority:1" json:"restaurant_id"`
	Restaurant   Restaurant     `gorm:"foreignKey:RestaurantID" json:"-"`
	Name         string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Slug         string         `gorm:"type:varchar(150);index:ux_menu_categories_restaurant_slug,unique,priority:2" json:"slug" validate:"required,min=1,max=150"`
	Description  string         `gorm:"type:text" json:"description"`
	SortOrder    int            `gorm:"default:0" json:"sort_order"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Unique slug per restaurant, not globally.
func (MenuCategory) TableName() string {
	return "menu_categories"
}

func (mc *MenuCategory) Validate() error {
	v := validator.New()
	return v.Struct(mc)
}
