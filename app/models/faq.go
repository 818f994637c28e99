package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Faq struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Question  string         `gorm:"type:varchar(500);not null" json:"question" validate:"required,min=3,max=500"`
	Answer    string         `gorm:"type:text;not null" json:"answer" validate:"required,min=1"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f *Faq) Validate() error {
	v := validator.New()
	return v.Struct(f)
}
