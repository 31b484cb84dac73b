package receipt_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
	"kioskpos/internal/receipt"
)

func sampleOrder() domain.Order {
	usd := func(amount string) domain.Money {
		return domain.Money{
			Amount:   decimal.RequireFromString(amount),
			Currency: currency.USD,
		}
	}

	return domain.Order{
		ID:       uuid.New(),
		MemberID: uuid.New(),
		Number:   "ORD-1756400000000-A1B2",
		Total:    usd("15.25"),
		Status:   domain.OrderStatusCompleted,
		Items: []domain.OrderItem{
			{ProductID: uuid.New(), ProductName: "Latte", UnitPrice: usd("4.50"), Quantity: 2},
			{ProductID: uuid.New(), ProductName: "Cheesecake", UnitPrice: usd("6.25"), Quantity: 1},
		},
		CreatedAt: time.Date(2026, 8, 28, 14, 30, 0, 0, time.Local),
	}
}

func TestRender(t *testing.T) {
	engine, err := receipt.NewEngine()
	require.NoError(t, err)

	text, err := engine.Render(sampleOrder(), "Alex Kim", false)
	require.NoError(t, err)

	assert.Contains(t, text, "Order #: ORD-1756400000000-A1B2")
	assert.Contains(t, text, "Date: 2026-08-28 14:30:00")
	assert.Contains(t, text, "Customer: Alex Kim")
	assert.Contains(t, text, "2x Latte @ 4.50 USD = 9.00 USD")
	assert.Contains(t, text, "1x Cheesecake @ 6.25 USD = 6.25 USD")
	assert.Contains(t, text, "Total: 15.25 USD")
	assert.Contains(t, text, "Status: COMPLETED")
	assert.Contains(t, text, "Thank you for your business!")

	assert.NotContains(t, text, "REPRINT")
}

func TestRenderReprint(t *testing.T) {
	engine, err := receipt.NewEngine()
	require.NoError(t, err)

	text, err := engine.Render(sampleOrder(), "Alex Kim", true)
	require.NoError(t, err)

	assert.Contains(t, text, "RECEIPT (REPRINT)")
}
