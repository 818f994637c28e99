package repository

import (
	"github.com/LukasWeidner/DishPatch/app/models"
	"gorm.io/gorm"
)

// menuRepository implements the MenuRepository interface
type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository instance
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) CreateCategory(category *models.MenuCategory) error {
	return r.db.Create(category).Error
}

func (r *menuRepository) GetCategoryByID(id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *menuRepository) GetCategoriesByRestaurant(restaurantID uint) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.Where("restaurant_id = ?", restaurantID).
		Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *menuRepository) UpdateCategory(category *models.MenuCategory) error {
	return r.db.Save(category).Error
}

// DeleteCategory soft deletes a category and its items
func (r *menuRepository) DeleteCategory(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MenuCategory{}, id).Error
	})
}

func (r *menuRepository) CreateItem(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

func (r *menuRepository) GetItemByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) GetItemsByCategory(categoryID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Where("category_id = ?", categoryID).
		Order("sort_order ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *menuRepository) GetItemsByIDs(ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *menuRepository) UpdateItem(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

func (r *menuRepository) DeleteItem(id uint) error {
	return r.db.Delete(&models.MenuItem{}, id).Error
}

// GetFullMenu returns active categories with their available items in
// display order. This is the payload the public menu endpoint caches.
func (r *menuRepository) GetFullMenu(restaurantID uint) ([]CategoryWithItems, error) {
	var categories []models.MenuCategory
	err := r.db.Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("sort_order ASC, name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	menu := make([]CategoryWithItems, 0, len(categories))
	for _, category := range categories {
		var items []models.MenuItem
		err := r.db.Where("category_id = ? AND is_available = ?", category.ID, true).
			Order("sort_order ASC, name ASC").Find(&items).Error
		if err != nil {
			return nil, err
		}
		menu = append(menu, CategoryWithItems{Category: category, Items: items})
	}
	return menu, nil
}

func (r *menuRepository) CountItems() (int64, error) {
	var count int64
	err := r.db.Model(&models.MenuItem{}).Count(&count).Error
	return count, err
}
