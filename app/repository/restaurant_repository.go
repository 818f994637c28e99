package repository

import (
	"github.com/LukasWeidner/DishPatch/app/models"
	"gorm.io/gorm"
)

// restaurantRepository implements the RestaurantRepository interface
type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository instance
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// Create creates a new restaurant in the database
func (r *restaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

// GetByID retrieves a restaurant by its ID
func (r *restaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// GetBySlug retrieves a restaurant by its slug
func (r *restaurantRepository) GetBySlug(slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.Where("slug = ?", slug).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// GetActive retrieves all active restaurants
func (r *restaurantRepository) GetActive() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&restaurants).Error
	return restaurants, err
}

// GetAll retrieves all restaurants
func (r *restaurantRepository) GetAll() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Order("name ASC").Find(&restaurants).Error
	return restaurants, err
}

// Update updates an existing restaurant in the database
func (r *restaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

// Delete soft deletes a restaurant by its ID
func (r *restaurantRepository) Delete(id uint) error {
	return r.db.Delete(&models.Restaurant{}, id).Error
}

// Count returns the total number of restaurants
func (r *restaurantRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).Count(&count).Error
	return count, err
}
