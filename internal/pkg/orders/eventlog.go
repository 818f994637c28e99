package orders

import (
	"time"

	"github.com/LukasWeidner/DishPatch/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventLog persists every received webhook delivery for audit and
// event-level deduplication. The unique (provider, provider_event_id) pair
// makes redelivered events detectable without touching order state.
type EventLog interface {
	CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

type gormEventLog struct {
	db *gorm.DB
}

// NewEventLog creates an event log backed by GORM.
func NewEventLog(db *gorm.DB) EventLog {
	return &gormEventLog{db: db}
}

// CreateIfNotExists inserts the event unless the (provider, event id) pair
// was already recorded. Returns created=false for duplicates, along with
// the stored row.
func (l *gormEventLog) CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	res := l.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if res.Error != nil {
		return false, nil, res.Error
	}

	created := res.RowsAffected > 0
	if created {
		return true, event, nil
	}

	var existing models.PaymentWebhookEvent
	err := l.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&existing).Error
	if err != nil {
		return false, nil, err
	}
	return false, &existing, nil
}

// MarkProcessed stamps the event with the processing outcome.
func (l *gormEventLog) MarkProcessed(id uint, processingError string) error {
	now := time.Now()
	return l.db.Model(&models.PaymentWebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_at":     &now,
			"processing_error": processingError,
		}).Error
}
