package repository

import (
	"github.com/LukasWeidner/DishPatch/app/models"
	"gorm.io/gorm"
)

// faqRepository implements the FaqRepository interface
type faqRepository struct {
	db *gorm.DB
}

// NewFaqRepository creates a new FAQ repository instance
func NewFaqRepository(db *gorm.DB) FaqRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(faq *models.Faq) error {
	return r.db.Create(faq).Error
}

func (r *faqRepository) GetByID(id uint) (*models.Faq, error) {
	var faq models.Faq
	err := r.db.First(&faq, id).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *faqRepository) GetActive() ([]models.Faq, error) {
	var faqs []models.Faq
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").Find(&faqs).Error
	return faqs, err
}

func (r *faqRepository) GetAll() ([]models.Faq, error) {
	var faqs []models.Faq
	err := r.db.Order("sort_order ASC, id ASC").Find(&faqs).Error
	return faqs, err
}

func (r *faqRepository) Update(faq *models.Faq) error {
	return r.db.Save(faq).Error
}

func (r *faqRepository) Delete(id uint) error {
	return r.db.Delete(&models.Faq{}, id).Error
}
