package repository

import (
	"github.com/LukasWeidner/DishPatch/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// RestaurantRepository defines the interface for restaurant operations
type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (*models.Restaurant, error)
	GetBySlug(slug string) (*models.Restaurant, error)
	GetActive() ([]models.Restaurant, error)
	GetAll() ([]models.Restaurant, error)
	Update(restaurant *models.Restaurant) error
	Delete(id uint) error
	Count() (int64, error)
}

// MenuRepository defines the interface for menu category and item operations
type MenuRepository interface {
	CreateCategory(category *models.MenuCategory) error
	GetCategoryByID(id uint) (*models.MenuCategory, error)
	GetCategoriesByRestaurant(restaurantID uint) ([]models.MenuCategory, error)
	UpdateCategory(category *models.MenuCategory) error
	DeleteCategory(id uint) error

	CreateItem(item *models.MenuItem) error
	GetItemByID(id uint) (*models.MenuItem, error)
	GetItemsByCategory(categoryID uint) ([]models.MenuItem, error)
	GetItemsByIDs(ids []uint) ([]models.MenuItem, error)
	UpdateItem(item *models.MenuItem) error
	DeleteItem(id uint) error

	// GetFullMenu returns the ordered category tree with available items,
	// the shape the public menu endpoint serves (and caches).
	GetFullMenu(restaurantID uint) ([]CategoryWithItems, error)
	CountItems() (int64, error)
}

// OrderRepository defines the interface for order persistence, including the
// webhook reconciliation operations.
type OrderRepository interface {
	CreatePending(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Order, error)
	GetByRestaurant(restaurantID uint, status string, offset, limit int) ([]models.Order, error)
	UpdateStatus(id uint, from, to string) error
	Count() (int64, error)
	CountByStatus(status string) (int64, error)

	// FindPaidBySquareOrderID queries across all restaurants for an order
	// already marked paid with the given provider order id. This is the
	// webhook's idempotency fast path.
	FindPaidBySquareOrderID(squareOrderID string) (*models.Order, error)

	// UpsertPaid merge-writes the reconciled order keyed by
	// (restaurant_id, square_order_id) inside a transaction that re-checks
	// the paid status under a row lock. Returns ErrAlreadyPaid when a
	// concurrent delivery won the race.
	UpsertPaid(order *models.Order) error
}

// FaqRepository defines the interface for FAQ operations
type FaqRepository interface {
	Create(faq *models.Faq) error
	GetByID(id uint) (*models.Faq, error)
	GetActive() ([]models.Faq, error)
	GetAll() ([]models.Faq, error)
	Update(faq *models.Faq) error
	Delete(id uint) error
}

// BlogRepository defines the interface for blog post operations
type BlogRepository interface {
	Create(post *models.BlogPost) error
	GetByID(id uint64) (*models.BlogPost, error)
	GetBySlug(slug string) (*models.BlogPost, error)
	GetPublished(offset, limit int) ([]models.BlogPost, error)
	GetAll(offset, limit int) ([]models.BlogPost, error)
	Update(post *models.BlogPost) error
	Delete(id uint64) error
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint64) (bool, error)
}

// PageRepository defines the interface for site-content page operations
type PageRepository interface {
	Create(page *models.Page) error
	GetByID(id uint) (*models.Page, error)
	GetBySlug(slug string) (*models.Page, error)
	GetAll() ([]models.Page, error)
	GetActive() ([]models.Page, error)
	Update(page *models.Page) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// CategoryWithItems is the public menu shape: one category and its
// available items in display order.
type CategoryWithItems struct {
	Category models.MenuCategory `json:"category"`
	Items    []models.MenuItem   `json:"items"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Restaurant RestaurantRepository
	Menu       MenuRepository
	Order      OrderRepository
	Faq        FaqRepository
	Blog       BlogRepository
	Page       PageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Restaurant: NewRestaurantRepository(db),
		Menu:       NewMenuRepository(db),
		Order:      NewOrderRepository(db),
		Faq:        NewFaqRepository(db),
		Blog:       NewBlogRepository(db),
		Page:       NewPageRepository(db),
	}
}
