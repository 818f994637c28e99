package orders

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/app/repository"
	"github.com/LukasWeidner/DishPatch/internal/pkg/square"
)

const (
	testSignatureKey    = "test-signature-key"
	testNotificationURL = "https://dishpatch.example.com/webhooks/square"
	testAccessToken     = "test-access-token"
)

type fakeClient struct {
	order *square.Order
	err   error
	calls int
}

func (f *fakeClient) RetrieveOrder(_ context.Context, _ string) (*square.Order, error) {
	f.calls++
	return f.order, f.err
}

type fakeStore struct {
	paid      *models.Order
	findErr   error
	upsertErr error
	upserted  *models.Order
	findCalls int
}

func (f *fakeStore) FindPaidBySquareOrderID(_ string) (*models.Order, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.paid != nil {
		return f.paid, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) UpsertPaid(order *models.Order) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = order
	return nil
}

type markedEvent struct {
	id      uint
	procErr string
}

type fakeEventLog struct {
	duplicate   bool
	processedAt *time.Time
	createErr   error
	creates     int
	marked      []markedEvent
}

func (f *fakeEventLog) CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	f.creates++
	if f.createErr != nil {
		return false, nil, f.createErr
	}
	stored := *event
	stored.ID = 7
	if f.duplicate {
		stored.ProcessedAt = f.processedAt
		return false, &stored, nil
	}
	return true, &stored, nil
}

func (f *fakeEventLog) MarkProcessed(id uint, processingError string) error {
	f.marked = append(f.marked, markedEvent{id: id, procErr: processingError})
	return nil
}

type fakeNotifier struct {
	notified []*models.Order
}

func (f *fakeNotifier) OrderPaid(order *models.Order) {
	f.notified = append(f.notified, order)
}

func testConfig() Config {
	return Config{
		SignatureKey:    testSignatureKey,
		NotificationURL: testNotificationURL,
		AccessToken:     testAccessToken,
	}
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSignatureKey))
	mac.Write([]byte(testNotificationURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func paymentUpdatedBody(eventID, orderID, status string) []byte {
	return []byte(fmt.Sprintf(`{
		"merchant_id": "MERCHANT1",
		"type": "payment.updated",
		"event_id": %q,
		"created_at": "2025-05-12T10:00:00Z",
		"data": {
			"type": "payment",
			"id": "pay-1",
			"object": {
				"payment": {
					"id": "pay-1",
					"order_id": %q,
					"status": %q,
					"source_type": "CARD",
					"card_details": {
						"status": "CAPTURED",
						"card": {"card_brand": "VISA", "last_4": "1111"}
					},
					"amount_money": {"amount": 2599, "currency": "USD"}
				}
			}
		}
	}`, eventID, orderID, status))
}

func orderUpdatedBody(eventID, orderID, state string, tenderAmount int64) []byte {
	tenders := "[]"
	if tenderAmount != 0 {
		tenders = fmt.Sprintf(`[{"id": "tender-1", "type": "CARD", "amount_money": {"amount": %d, "currency": "USD"}}]`, tenderAmount)
	}
	return []byte(fmt.Sprintf(`{
		"merchant_id": "MERCHANT1",
		"type": "order.updated",
		"event_id": %q,
		"created_at": "2025-05-12T10:00:00Z",
		"data": {
			"type": "order",
			"id": %q,
			"object": {
				"order": {"id": %q, "state": %q, "tenders": %s}
			}
		}
	}`, eventID, orderID, orderID, state, tenders))
}

func completedProviderOrder(orderID string) *square.Order {
	return &square.Order{
		ID:      orderID,
		State:   square.OrderStateCompleted,
		Version: 3,
		Metadata: map[string]string{
			square.MetadataKeyUserID:          "42",
			square.MetadataKeyRestaurantID:    "7",
			square.MetadataKeyDeliveryAddress: `{"street":"Hauptstr. 1","city":"Berlin","zip":"10115"}`,
			square.MetadataKeyCartItems:       `[{"itemId":3,"name":"Margherita","quantity":2,"price":"12.50"}]`,
		},
		TotalMoney: &square.Money{Amount: 2599, Currency: "USD"},
		Tenders: []square.Tender{
			{ID: "tender-1", Type: "CARD", AmountMoney: &square.Money{Amount: 2599, Currency: "USD"}},
		},
	}
}

func newTestService(cfg Config, client *fakeClient, store *fakeStore, events *fakeEventLog, notifier Notifier) *Service {
	return NewService(cfg, client, store, events, notifier)
}

func TestProcessWebhookMissingConfiguration(t *testing.T) {
	for name, cfg := range map[string]Config{
		"no signature key":    {NotificationURL: testNotificationURL, AccessToken: testAccessToken},
		"no notification url": {SignatureKey: testSignatureKey, AccessToken: testAccessToken},
	} {
		t.Run(name, func(t *testing.T) {
			events := &fakeEventLog{}
			svc := newTestService(cfg, &fakeClient{}, &fakeStore{}, events, nil)
			body := paymentUpdatedBody("evt-1", "sq-order-1", square.PaymentStatusCompleted)

			out := svc.ProcessWebhook(context.Background(), body, signBody(body))

			assert.Equal(t, http.StatusInternalServerError, out.Code)
			assert.Zero(t, events.creates, "must not touch the store before configuration is verified")
		})
	}
}

func TestProcessWebhookInvalidSignature(t *testing.T) {
	store := &fakeStore{}
	events := &fakeEventLog{}
	svc := newTestService(testConfig(), &fakeClient{}, store, events, nil)
	body := paymentUpdatedBody("evt-1", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody([]byte("different body")))

	assert.Equal(t, http.StatusForbidden, out.Code)
	assert.Zero(t, events.creates)
	assert.Zero(t, store.findCalls, "signature failure must not reach the store")
}

func TestProcessWebhookMalformedSignatureHeader(t *testing.T) {
	events := &fakeEventLog{}
	svc := newTestService(testConfig(), &fakeClient{}, &fakeStore{}, events, nil)
	body := paymentUpdatedBody("evt-1", "sq-order-1", square.PaymentStatusCompleted)

	for _, header := range []string{"", "not/base64!!!"} {
		out := svc.ProcessWebhook(context.Background(), body, header)
		assert.Equal(t, http.StatusBadRequest, out.Code)
	}
	assert.Zero(t, events.creates)
}

func TestProcessWebhookMalformedPayload(t *testing.T) {
	svc := newTestService(testConfig(), &fakeClient{}, &fakeStore{}, &fakeEventLog{}, nil)
	body := []byte(`{"type": "payment.updated", "event_id":`)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestProcessWebhookIgnoredEventType(t *testing.T) {
	client := &fakeClient{}
	store := &fakeStore{}
	events := &fakeEventLog{}
	svc := newTestService(testConfig(), client, store, events, nil)
	body := []byte(`{"merchant_id": "MERCHANT1", "type": "invoice.created", "event_id": "evt-9", "data": {}}`)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Zero(t, client.calls)
	assert.Zero(t, store.findCalls)
	require.Len(t, events.marked, 1)
	assert.Empty(t, events.marked[0].procErr)
}

func TestProcessWebhookPaymentNotCompleted(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(testConfig(), client, &fakeStore{}, &fakeEventLog{}, nil)
	body := paymentUpdatedBody("evt-1", "sq-order-1", "APPROVED")

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Zero(t, client.calls, "non-completed payment must not trigger an order fetch")
}

func TestProcessWebhookOrderCompletedWithoutTender(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(testConfig(), client, &fakeStore{}, &fakeEventLog{}, nil)
	body := orderUpdatedBody("evt-2", "sq-order-1", square.OrderStateCompleted, 0)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Zero(t, client.calls, "completed order without a positive tender is not paid")
}

func TestProcessWebhookMissingOrderID(t *testing.T) {
	svc := newTestService(testConfig(), &fakeClient{}, &fakeStore{}, &fakeEventLog{}, nil)
	body := paymentUpdatedBody("evt-3", "", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestProcessWebhookDuplicateEvent(t *testing.T) {
	processed := time.Now().Add(-time.Minute)
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	store := &fakeStore{}
	events := &fakeEventLog{duplicate: true, processedAt: &processed}
	svc := newTestService(testConfig(), client, store, events, nil)
	body := paymentUpdatedBody("evt-1", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Zero(t, client.calls, "handled duplicate must short-circuit before any fetch")
	assert.Zero(t, store.findCalls)
}

func TestProcessWebhookDuplicateEventNotYetProcessed(t *testing.T) {
	// A redelivery of an event whose first attempt crashed mid-way is
	// reprocessed, not dropped.
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	store := &fakeStore{}
	events := &fakeEventLog{duplicate: true}
	svc := newTestService(testConfig(), client, store, events, nil)
	body := paymentUpdatedBody("evt-1", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, 1, client.calls)
	require.NotNil(t, store.upserted)
}

func TestProcessWebhookAlreadyPaidOrder(t *testing.T) {
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	store := &fakeStore{paid: &models.Order{ID: 99, SquareOrderID: "sq-order-1", Status: models.OrderStatusPaid}}
	svc := newTestService(testConfig(), client, store, &fakeEventLog{}, nil)
	body := paymentUpdatedBody("evt-4", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Zero(t, client.calls, "already paid order must not be fetched again")
	assert.Nil(t, store.upserted)
}

func TestProcessWebhookMissingAccessToken(t *testing.T) {
	cfg := testConfig()
	cfg.AccessToken = ""
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	svc := newTestService(cfg, client, &fakeStore{}, &fakeEventLog{}, nil)
	body := paymentUpdatedBody("evt-5", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusInternalServerError, out.Code)
	assert.Zero(t, client.calls)
}

func TestProcessWebhookOrderFetchFails(t *testing.T) {
	for name, client := range map[string]*fakeClient{
		"fetch error": {err: square.ErrOrderNotFound},
		"empty order": {},
	} {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(testConfig(), client, &fakeStore{}, &fakeEventLog{}, nil)
			body := paymentUpdatedBody("evt-6", "sq-order-1", square.PaymentStatusCompleted)

			out := svc.ProcessWebhook(context.Background(), body, signBody(body))

			assert.Equal(t, http.StatusInternalServerError, out.Code)
		})
	}
}

func TestProcessWebhookMetadataValidation(t *testing.T) {
	tests := map[string]struct {
		mutate   func(o *square.Order)
		wantCode int
	}{
		"no metadata at all": {
			mutate:   func(o *square.Order) { o.Metadata = nil },
			wantCode: http.StatusBadRequest,
		},
		"missing user id": {
			mutate:   func(o *square.Order) { delete(o.Metadata, square.MetadataKeyUserID) },
			wantCode: http.StatusBadRequest,
		},
		"missing restaurant id": {
			mutate:   func(o *square.Order) { delete(o.Metadata, square.MetadataKeyRestaurantID) },
			wantCode: http.StatusBadRequest,
		},
		"missing delivery address": {
			mutate:   func(o *square.Order) { delete(o.Metadata, square.MetadataKeyDeliveryAddress) },
			wantCode: http.StatusBadRequest,
		},
		"missing cart items": {
			mutate:   func(o *square.Order) { delete(o.Metadata, square.MetadataKeyCartItems) },
			wantCode: http.StatusBadRequest,
		},
		"non-numeric user id": {
			mutate:   func(o *square.Order) { o.Metadata[square.MetadataKeyUserID] = "user-42" },
			wantCode: http.StatusBadRequest,
		},
		"undecodable cart items": {
			mutate:   func(o *square.Order) { o.Metadata[square.MetadataKeyCartItems] = `[{"itemId":` },
			wantCode: http.StatusInternalServerError,
		},
		"undecodable delivery address": {
			mutate:   func(o *square.Order) { o.Metadata[square.MetadataKeyDeliveryAddress] = `{"street"` },
			wantCode: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			order := completedProviderOrder("sq-order-1")
			tt.mutate(order)
			store := &fakeStore{}
			svc := newTestService(testConfig(), &fakeClient{order: order}, store, &fakeEventLog{}, nil)
			body := paymentUpdatedBody("evt-7", "sq-order-1", square.PaymentStatusCompleted)

			out := svc.ProcessWebhook(context.Background(), body, signBody(body))

			assert.Equal(t, tt.wantCode, out.Code)
			assert.Nil(t, store.upserted)
		})
	}
}

func TestProcessWebhookPaymentUpdatedSuccess(t *testing.T) {
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	store := &fakeStore{}
	events := &fakeEventLog{}
	notifier := &fakeNotifier{}
	svc := newTestService(testConfig(), client, store, events, notifier)
	body := paymentUpdatedBody("evt-8", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	require.NotNil(t, store.upserted)

	order := store.upserted
	assert.Equal(t, "sq-order-1", order.SquareOrderID)
	assert.Equal(t, uint(42), order.UserID)
	assert.Equal(t, uint(7), order.RestaurantID)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, models.PaymentProviderSquare, order.PaymentProvider)
	assert.Equal(t, "USD", order.Currency)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.99")),
		"minor units must convert losslessly, got %s", order.TotalAmount)
	assert.Equal(t, "evt-8", order.WebhookEventID)
	assert.Equal(t, square.EventTypePaymentUpdated, order.WebhookEventType)
	assert.JSONEq(t, `{"street":"Hauptstr. 1","city":"Berlin","zip":"10115"}`, string(order.DeliveryAddress))
	assert.Contains(t, string(order.PaymentDetails), `"cardBrand":"VISA"`)
	assert.Contains(t, string(order.PaymentDetails), `"last4":"1111"`)
	assert.Contains(t, string(order.SquareSnapshot), `"state":"COMPLETED"`)

	require.Len(t, events.marked, 1)
	assert.Equal(t, uint(7), events.marked[0].id)
	assert.Empty(t, events.marked[0].procErr)
	require.Len(t, notifier.notified, 1)
}

func TestProcessWebhookOrderUpdatedSuccess(t *testing.T) {
	provider := completedProviderOrder("sq-order-2")
	provider.ID = "sq-order-2"
	provider.TotalMoney = &square.Money{Amount: 1050}
	client := &fakeClient{order: provider}
	store := &fakeStore{}
	svc := newTestService(testConfig(), client, store, &fakeEventLog{}, nil)
	body := orderUpdatedBody("evt-9", "sq-order-2", square.OrderStateCompleted, 1050)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	require.NotNil(t, store.upserted)
	assert.Equal(t, "USD", store.upserted.Currency, "missing currency defaults to USD")
	assert.True(t, store.upserted.TotalAmount.Equal(decimal.RequireFromString("10.50")))
	assert.Nil(t, store.upserted.PaymentDetails, "order.updated carries no payment details")
}

func TestProcessWebhookUpsertRace(t *testing.T) {
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	store := &fakeStore{upsertErr: repository.ErrAlreadyPaid}
	svc := newTestService(testConfig(), client, store, &fakeEventLog{}, nil)
	body := paymentUpdatedBody("evt-10", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
}

func TestProcessWebhookUpsertFails(t *testing.T) {
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	store := &fakeStore{upsertErr: gorm.ErrInvalidTransaction}
	events := &fakeEventLog{}
	svc := newTestService(testConfig(), client, store, events, nil)
	body := paymentUpdatedBody("evt-11", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusInternalServerError, out.Code)
	require.Len(t, events.marked, 1)
	assert.NotEmpty(t, events.marked[0].procErr)
}

func TestProcessWebhookAuditLogFailureDoesNotBlock(t *testing.T) {
	client := &fakeClient{order: completedProviderOrder("sq-order-1")}
	store := &fakeStore{}
	events := &fakeEventLog{createErr: gorm.ErrInvalidDB}
	svc := newTestService(testConfig(), client, store, events, nil)
	body := paymentUpdatedBody("evt-12", "sq-order-1", square.PaymentStatusCompleted)

	out := svc.ProcessWebhook(context.Background(), body, signBody(body))

	assert.Equal(t, http.StatusOK, out.Code)
	require.NotNil(t, store.upserted, "audit log trouble must not lose the payment")
	assert.Empty(t, events.marked)
}
