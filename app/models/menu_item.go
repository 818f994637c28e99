package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem is a single orderable dish. Price is stored as an exact decimal;
// the Square money fields on orders remain integer minor units until
// normalization at webhook time.
type MenuItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   uint            `gorm:"not null;index" json:"category_id"`
	Category     MenuCategory    `gorm:"foreignKey:CategoryID" json:"-"`
	Name         string          `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency     string          `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	ImageURL     string          `gorm:"type:varchar(255)" json:"image_url" validate:"max=255"`
	IsAvailable  bool            `gorm:"default:true" json:"is_available"`
	SortOrder    int             `gorm:"default:0" json:"sort_order"`
	OrderCount   uint64          `gorm:"default:0" json:"order_count"`
	ViewCount    uint64          `gorm:"default:0" json:"view_count"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (mi *MenuItem) Validate() error {
	v := validator.New()
	return v.Struct(mi)
}
