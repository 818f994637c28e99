package mail

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LukasWeidner/DishPatch/app/models"
)

type confirmationLine struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// BuildOrderConfirmation renders the confirmation email for a paid order.
// CartItems is the decoded metadata that arrived via the payment provider,
// so unknown fields are tolerated and missing names fall back to the item id.
func BuildOrderConfirmation(order *models.Order, restaurant *models.Restaurant, recipientName string) (subject string, body string) {
	subject = fmt.Sprintf("Your order at %s is confirmed", restaurant.Name)

	var lines []confirmationLine
	if err := json.Unmarshal(order.CartItems, &lines); err != nil {
		lines = nil
	}

	var b strings.Builder
	b.WriteString("<h1>Thank you for your order!</h1>")
	fmt.Fprintf(&b, "<p>Hi %s, your payment was received and <strong>%s</strong> is preparing your order.</p>",
		html.EscapeString(recipientName), html.EscapeString(restaurant.Name))

	if len(lines) > 0 {
		b.WriteString("<table><tr><th>Item</th><th>Qty</th></tr>")
		for _, line := range lines {
			name := line.Name
			if name == "" {
				name = "Item"
			}
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td></tr>", html.EscapeString(name), line.Quantity)
		}
		b.WriteString("</table>")
	}

	fmt.Fprintf(&b, "<p>Total: <strong>%s %s</strong></p>", order.TotalAmount.StringFixed(2), order.Currency)
	fmt.Fprintf(&b, "<p>Order reference: %s</p>", html.EscapeString(order.SquareOrderID))

	return subject, b.String()
}
