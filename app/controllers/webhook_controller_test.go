package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LukasWeidner/DishPatch/app/models"
	"github.com/LukasWeidner/DishPatch/internal/pkg/orders"
	"github.com/LukasWeidner/DishPatch/internal/pkg/square"
)

const (
	webhookTestSignatureKey = "whk-test-key"
	webhookTestURL          = "https://dishpatch.example.com/webhooks/square"
)

type stubProvider struct {
	order *square.Order
	calls int
}

func (s *stubProvider) RetrieveOrder(_ context.Context, _ string) (*square.Order, error) {
	s.calls++
	return s.order, nil
}

type stubOrderStore struct {
	upserted *models.Order
}

func (s *stubOrderStore) FindPaidBySquareOrderID(_ string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderStore) UpsertPaid(order *models.Order) error {
	s.upserted = order
	return nil
}

type stubEventLog struct{}

func (s *stubEventLog) CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	stored := *event
	stored.ID = 1
	return true, &stored, nil
}

func (s *stubEventLog) MarkProcessed(_ uint, _ string) error { return nil }

func newWebhookTestApp(store *stubOrderStore, provider *stubProvider) *fiber.App {
	cfg := orders.Config{
		SignatureKey:    webhookTestSignatureKey,
		NotificationURL: webhookTestURL,
		AccessToken:     "test-token",
	}
	SetWebhookService(orders.NewService(cfg, provider, store, &stubEventLog{}, nil))

	app := fiber.New()
	app.All("/webhooks/square", HandleSquareWebhook)
	return app
}

func signWebhookBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookTestSignatureKey))
	mac.Write([]byte(webhookTestURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func paidPaymentEvent(orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"merchant_id": "M1",
		"type": "payment.updated",
		"event_id": "evt-ctrl-1",
		"created_at": "2025-05-12T10:00:00Z",
		"data": {
			"type": "payment",
			"id": "pay-1",
			"object": {
				"payment": {"id": "pay-1", "order_id": %q, "status": "COMPLETED"}
			}
		}
	}`, orderID))
}

func TestHandleSquareWebhookRejectsNonPost(t *testing.T) {
	app := newWebhookTestApp(&stubOrderStore{}, &stubProvider{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/webhooks/square", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
	}
}

func TestHandleSquareWebhookRejectsBadSignature(t *testing.T) {
	store := &stubOrderStore{}
	app := newWebhookTestApp(store, &stubProvider{})

	body := paidPaymentEvent("sq-order-1")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/square", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, signWebhookBody([]byte("someone else's body")))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Nil(t, store.upserted)
}

func TestHandleSquareWebhookRejectsMalformedSignature(t *testing.T) {
	app := newWebhookTestApp(&stubOrderStore{}, &stubProvider{})

	body := paidPaymentEvent("sq-order-1")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/square", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, "%%%not-base64%%%")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleSquareWebhookRecordsPaidOrder(t *testing.T) {
	provider := &stubProvider{order: &square.Order{
		ID:    "sq-order-1",
		State: square.OrderStateCompleted,
		Metadata: map[string]string{
			square.MetadataKeyUserID:          "42",
			square.MetadataKeyRestaurantID:    "7",
			square.MetadataKeyDeliveryAddress: `{"street":"Hauptstr. 1","city":"Berlin","zip":"10115"}`,
			square.MetadataKeyCartItems:       `[{"itemId":3,"quantity":1,"price":"9.99"}]`,
		},
		TotalMoney: &square.Money{Amount: 999, Currency: "USD"},
	}}
	store := &stubOrderStore{}
	app := newWebhookTestApp(store, provider)

	body := paidPaymentEvent("sq-order-1")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/square", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, signWebhookBody(body))

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, store.upserted)
	assert.Equal(t, "sq-order-1", store.upserted.SquareOrderID)
	assert.Equal(t, uint(42), store.upserted.UserID)
	assert.Equal(t, uint(7), store.upserted.RestaurantID)
	assert.Equal(t, models.OrderStatusPaid, store.upserted.Status)
	assert.Equal(t, 1, provider.calls)
}
