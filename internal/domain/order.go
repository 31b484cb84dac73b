package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is immutable once placed, only Status changes afterwards.
type Order struct {
	ID       uuid.UUID
	MemberID uuid.UUID
	Number   string
	Total    Money
	Status   OrderStatus
	Items    []OrderItem

	// ProductIDs holds one entry per purchased unit, a legacy flattened
	// form consumed by the POS listing view.
	ProductIDs []uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots the product at purchase time so later catalog edits
// never alter historical totals or receipts.
type OrderItem struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   Money
	Quantity    int32
}

func (i OrderItem) LineTotal() Money {
	return i.UnitPrice.MulInt(int64(i.Quantity))
}

// OrderLine is a placement request line, quantity of one catalog product.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

// OrderWithMember enriches an order with display fields of its member.
type OrderWithMember struct {
	Order

	MemberName  string
	MemberEmail string
}
