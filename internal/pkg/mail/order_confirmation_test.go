package mail

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/LukasWeidner/DishPatch/app/models"
)

func TestBuildOrderConfirmation(t *testing.T) {
	order := &models.Order{
		SquareOrderID: "sq-order-123",
		CartItems:     datatypes.JSON(`[{"itemId":4,"name":"Margherita","quantity":2,"price":"12.50"},{"itemId":9,"name":"Tiramisu","quantity":1,"price":"5.00"}]`),
		TotalAmount:   decimal.RequireFromString("30.00"),
		Currency:      "USD",
	}
	restaurant := &models.Restaurant{Name: "Luigi's"}

	subject, body := BuildOrderConfirmation(order, restaurant, "Anna")

	assert.Equal(t, "Your order at Luigi's is confirmed", subject)
	assert.Contains(t, body, "Hi Anna")
	assert.Contains(t, body, "Margherita")
	assert.Contains(t, body, "Tiramisu")
	assert.Contains(t, body, "30.00 USD")
	assert.Contains(t, body, "sq-order-123")
}

func TestBuildOrderConfirmationEscapesContent(t *testing.T) {
	order := &models.Order{
		SquareOrderID: "sq-1",
		CartItems:     datatypes.JSON(`[{"itemId":1,"name":"<script>alert(1)</script>","quantity":1,"price":"1.00"}]`),
		TotalAmount:   decimal.RequireFromString("1.00"),
		Currency:      "USD",
	}
	restaurant := &models.Restaurant{Name: "A & B"}

	_, body := BuildOrderConfirmation(order, restaurant, "<b>Eve</b>")

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "A &amp; B")
	assert.Contains(t, body, "&lt;b&gt;Eve&lt;/b&gt;")
}

func TestBuildOrderConfirmationUnreadableCart(t *testing.T) {
	order := &models.Order{
		SquareOrderID: "sq-2",
		CartItems:     datatypes.JSON(`not json`),
		TotalAmount:   decimal.RequireFromString("9.99"),
		Currency:      "EUR",
	}
	restaurant := &models.Restaurant{Name: "Chez Nous"}

	_, body := BuildOrderConfirmation(order, restaurant, "Sam")

	// No item table, but the total still renders.
	assert.NotContains(t, body, "<table>")
	assert.Contains(t, body, "9.99 EUR")
}
