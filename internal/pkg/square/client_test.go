package square

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := &Client{
		AccessToken: "test-token",
		BaseURL:     srv.URL,
		HTTPClient:  srv.Client(),
	}
	return c, srv
}

func TestRetrieveOrder(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/orders/ord1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order":{"id":"ord1","state":"COMPLETED","version":3,
			"metadata":{"userId":"7","restaurantId":"1"},
			"total_money":{"amount":2599,"currency":"USD"},
			"tenders":[{"amount_money":{"amount":2599}}]}}`))
	}))
	defer srv.Close()

	order, err := c.RetrieveOrder(context.Background(), "ord1")
	require.NoError(t, err)
	assert.Equal(t, "ord1", order.ID)
	assert.Equal(t, OrderStateCompleted, order.State)
	assert.Equal(t, int64(3), order.Version)
	assert.Equal(t, "7", order.Metadata[MetadataKeyUserID])
	assert.Equal(t, int64(2599), order.TotalMoney.Amount)
	assert.True(t, order.HasPositiveTender())
}

func TestRetrieveOrder_NotFound(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"NOT_FOUND"}]}`))
	}))
	defer srv.Close()

	_, err := c.RetrieveOrder(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestRetrieveOrder_EmptyBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := c.RetrieveOrder(context.Background(), "ord1")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestRetrieveOrder_MissingToken(t *testing.T) {
	c := &Client{BaseURL: "http://localhost:1", HTTPClient: http.DefaultClient}
	_, err := c.RetrieveOrder(context.Background(), "ord1")
	assert.Error(t, err)
}

func TestCreateOrder_SendsMetadata(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"order":{"id":"new-ord","state":"OPEN","metadata":{"userId":"7"}}}`))
	}))
	defer srv.Close()

	order, err := c.CreateOrder(context.Background(), "idem-key", &NewOrder{
		LocationID: "loc1",
		LineItems:  []NewLineItem{{Name: "Margherita", Quantity: "2", BasePriceMoney: &Money{Amount: 1299, Currency: "USD"}}},
		Metadata:   map[string]string{MetadataKeyUserID: "7"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-ord", order.ID)
}
