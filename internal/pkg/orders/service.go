package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/env"
	"github.com/LukasWeidner/DishPatch/internal/pkg/square"
)

// Config holds the webhook processing configuration. Values are
// presence-checked here, not validated further; a missing signature key or
// notification URL is a deployment fault, not a traffic problem.
type Config struct {
	SignatureKey    string
	NotificationURL string
	AccessToken     string
}

// ConfigFromEnv reads the Square webhook configuration from the process
// environment.
func ConfigFromEnv() Config {
	return Config{
		SignatureKey:    strings.TrimSpace(env.GetEnv("SQUARE_WEBHOOK_SIGNATURE_KEY", "")),
		NotificationURL: strings.TrimSpace(env.GetEnv("SQUARE_WEBHOOK_NOTIFICATION_URL", "")),
		AccessToken:     strings.TrimSpace(env.GetEnv("SQUARE_ACCESS_TOKEN", "")),
	}
}

// ProviderClient is the slice of the Square API the reconciliation needs.
type ProviderClient interface {
	RetrieveOrder(ctx context.Context, orderID string) (*square.Order, error)
}

// OrderStore is the slice of the order repository the reconciliation needs.
type OrderStore interface {
	FindPaidBySquareOrderID(squareOrderID string) (*models.Order, error)
	UpsertPaid(order *models.Order) error
}

// Notifier reacts to a successful paid write (confirmation email, counters).
// Calls are best-effort; failures must not affect the webhook response.
type Notifier interface {
	OrderPaid(order *models.Order)
}

// Service reconciles Square payment webhooks into local order records.
type Service struct {
	cfg      Config
	client   ProviderClient
	store    OrderStore
	events   EventLog
	notifier Notifier
}

// NewService wires the reconciliation service. notifier may be nil.
func NewService(cfg Config, client ProviderClient, store OrderStore, events EventLog, notifier Notifier) *Service {
	return &Service{cfg: cfg, client: client, store: store, events: events, notifier: notifier}
}

// Outcome is the terminal result of processing one webhook delivery. Code
// is the HTTP status the transport answers with; Square retries the whole
// delivery on anything outside 2xx, so the status code is the entire
// recovery contract.
type Outcome struct {
	Code    int
	Message string
}

// ProcessWebhook runs the full reconciliation for one inbound delivery:
// signature verification, event classification, paid gate, dedup,
// authoritative fetch, metadata validation/decode, and the merge write.
// Every terminal branch maps to a distinct status reflecting why
// processing stopped. Nothing is retried internally.
func (s *Service) ProcessWebhook(ctx context.Context, rawBody []byte, signatureHeader string) Outcome {
	if s.cfg.SignatureKey == "" || s.cfg.NotificationURL == "" {
		log.Error("[Webhook] signature key or notification URL not configured")
		return Outcome{http.StatusInternalServerError, "server configuration error"}
	}

	ok, err := square.VerifySignature(s.cfg.NotificationURL, rawBody, signatureHeader, s.cfg.SignatureKey)
	if err != nil {
		log.Warnf("[Webhook] malformed signature header: %v", err)
		return Outcome{http.StatusBadRequest, "malformed signature"}
	}
	if !ok {
		log.Warn("[Webhook] signature verification failed")
		return Outcome{http.StatusForbidden, "signature verification failed"}
	}

	var event square.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warnf("[Webhook] undecodable event payload: %v", err)
		return Outcome{http.StatusBadRequest, "malformed event payload"}
	}

	// Audit log with event-level dedup. Signature is verified by now, so
	// touching the store is allowed. A log failure is not a processing
	// failure; reconciliation still runs.
	var eventRowID uint
	created, stored, logErr := s.events.CreateIfNotExists(&models.PaymentWebhookEvent{
		Provider:        models.PaymentProviderSquare,
		ProviderEventID: event.EventID,
		EventType:       event.Type,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	switch {
	case logErr != nil:
		log.Errorf("[Webhook] event %s: audit log write failed: %v", event.EventID, logErr)
	case !created && stored.ProcessedAt != nil:
		log.Infof("[Webhook] event %s: duplicate delivery, already handled", event.EventID)
		return Outcome{http.StatusOK, "event already received"}
	default:
		eventRowID = stored.ID
	}

	var orderID string
	var paid bool
	switch event.Type {
	case square.EventTypePaymentUpdated:
		if p := event.Data.Object.Payment; p != nil {
			orderID = p.OrderID
			paid = p.Status == square.PaymentStatusCompleted
		}
	case square.EventTypeOrderUpdated:
		if o := event.Data.Object.Order; o != nil {
			orderID = o.ID
			paid = o.State == square.OrderStateCompleted && o.HasPositiveTender()
		}
	default:
		// Unknown event types are accepted, not rejected; a non-2xx would
		// only make Square redeliver them forever.
		return s.finish(eventRowID, "", Outcome{http.StatusOK, "event type ignored"})
	}

	if !paid {
		return s.finish(eventRowID, "", Outcome{http.StatusOK, "payment not completed"})
	}
	if orderID == "" {
		return s.finish(eventRowID, "missing order id", Outcome{http.StatusBadRequest, "missing order id"})
	}

	// Idempotency fast path: an order already marked paid is never
	// reprocessed, and no second provider fetch happens for it.
	if existing, err := s.store.FindPaidBySquareOrderID(orderID); err == nil && existing != nil {
		log.Infof("[Webhook] event %s: order %s already paid, skipping", event.EventID, orderID)
		return s.finish(eventRowID, "", Outcome{http.StatusOK, "order already processed"})
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("[Webhook] event %s: dedup lookup failed: %v", event.EventID, err)
		return s.finish(eventRowID, err.Error(), Outcome{http.StatusInternalServerError, "order lookup failed"})
	}

	if s.cfg.AccessToken == "" {
		log.Error("[Webhook] access token not configured, cannot fetch order")
		return s.finish(eventRowID, "access token not configured", Outcome{http.StatusInternalServerError, "server configuration error"})
	}

	providerOrder, err := s.client.RetrieveOrder(ctx, orderID)
	if err != nil || providerOrder == nil {
		log.Errorf("[Webhook] event %s: order fetch failed for %s: %v", event.EventID, orderID, err)
		return s.finish(eventRowID, "order fetch failed", Outcome{http.StatusInternalServerError, "failed to retrieve order details"})
	}

	if len(providerOrder.Metadata) == 0 {
		return s.finish(eventRowID, "missing order metadata", Outcome{http.StatusBadRequest, "missing order metadata"})
	}

	meta := providerOrder.Metadata
	userIDStr := strings.TrimSpace(meta[square.MetadataKeyUserID])
	restaurantIDStr := strings.TrimSpace(meta[square.MetadataKeyRestaurantID])
	addressJSON := meta[square.MetadataKeyDeliveryAddress]
	cartJSON := meta[square.MetadataKeyCartItems]
	if userIDStr == "" || restaurantIDStr == "" || addressJSON == "" || cartJSON == "" {
		return s.finish(eventRowID, "incomplete order metadata", Outcome{http.StatusBadRequest, "incomplete order metadata"})
	}

	userID, uerr := strconv.ParseUint(userIDStr, 10, 32)
	restaurantID, rerr := strconv.ParseUint(restaurantIDStr, 10, 32)
	if uerr != nil || rerr != nil {
		return s.finish(eventRowID, "unparsable metadata ids", Outcome{http.StatusBadRequest, "incomplete order metadata"})
	}

	// The metadata strings were written by our own checkout code, so a
	// decode failure is a server-side fault, not bad inbound traffic.
	if !json.Valid([]byte(addressJSON)) || !json.Valid([]byte(cartJSON)) {
		log.Errorf("[Webhook] event %s: undecodable metadata for order %s", event.EventID, orderID)
		return s.finish(eventRowID, "undecodable metadata", Outcome{http.StatusInternalServerError, "error processing order metadata"})
	}

	order, err := s.buildOrder(&event, providerOrder, uint(userID), uint(restaurantID), addressJSON, cartJSON)
	if err != nil {
		log.Errorf("[Webhook] event %s: normalize failed: %v", event.EventID, err)
		return s.finish(eventRowID, err.Error(), Outcome{http.StatusInternalServerError, "internal server error"})
	}

	if err := s.store.UpsertPaid(order); err != nil {
		if errors.Is(err, repository.ErrAlreadyPaid) {
			log.Infof("[Webhook] event %s: lost the write race for order %s, already paid", event.EventID, orderID)
			return s.finish(eventRowID, "", Outcome{http.StatusOK, "order already processed"})
		}
		log.Errorf("[Webhook] event %s: order write failed: %v", event.EventID, err)
		return s.finish(eventRowID, err.Error(), Outcome{http.StatusInternalServerError, "failed to persist order"})
	}

	if s.notifier != nil {
		s.notifier.OrderPaid(order)
	}

	log.Infof("[Webhook] event %s: order %s recorded as paid for restaurant %d", event.EventID, orderID, order.RestaurantID)
	return s.finish(eventRowID, "", Outcome{http.StatusOK, "order recorded"})
}

// buildOrder normalizes the provider order plus event payment details into
// the locally persisted record.
func (s *Service) buildOrder(event *square.WebhookEvent, po *square.Order, userID, restaurantID uint, addressJSON, cartJSON string) (*models.Order, error) {
	var amountMinor int64
	currency := "USD"
	if po.TotalMoney != nil {
		amountMinor = po.TotalMoney.Amount
		if po.TotalMoney.Currency != "" {
			currency = po.TotalMoney.Currency
		}
	}

	// Optional sub-fields stay individually null instead of dropping the
	// whole block.
	var paymentDetails datatypes.JSON
	if p := event.Data.Object.Payment; p != nil {
		details := map[string]interface{}{
			"id":         p.ID,
			"status":     p.Status,
			"cardBrand":  nil,
			"last4":      nil,
			"sourceType": nil,
		}
		if p.CardDetails != nil {
			details["cardBrand"] = p.CardDetails.Card.CardBrand
			details["last4"] = p.CardDetails.Card.Last4
		}
		if p.SourceType != "" {
			details["sourceType"] = p.SourceType
		}
		data, err := json.Marshal(details)
		if err != nil {
			return nil, err
		}
		paymentDetails = data
	}

	snapshot, err := json.Marshal(map[string]interface{}{
		"id":                 po.ID,
		"state":              po.State,
		"version":            po.Version,
		"netAmountDueMoney":  po.NetAmountDueMoney,
		"totalTaxMoney":      po.TotalTaxMoney,
		"totalDiscountMoney": po.TotalDiscountMoney,
		"tenders":            po.Tenders,
		"source":             po.Source,
	})
	if err != nil {
		return nil, err
	}

	return &models.Order{
		SquareOrderID:    po.ID,
		UserID:           userID,
		RestaurantID:     restaurantID,
		CartItems:        datatypes.JSON(cartJSON),
		DeliveryAddress:  datatypes.JSON(addressJSON),
		Status:           models.OrderStatusPaid,
		TotalAmount:      AmountFromMinorUnits(amountMinor),
		Currency:         currency,
		PaymentProvider:  models.PaymentProviderSquare,
		PaymentDetails:   paymentDetails,
		SquareSnapshot:   snapshot,
		WebhookEventID:   event.EventID,
		WebhookEventType: event.Type,
	}, nil
}

func (s *Service) finish(eventRowID uint, processingError string, out Outcome) Outcome {
	if eventRowID != 0 {
		if err := s.events.MarkProcessed(eventRowID, processingError); err != nil {
			log.Errorf("[Webhook] marking event %d processed failed: %v", eventRowID, err)
		}
	}
	return out
}
