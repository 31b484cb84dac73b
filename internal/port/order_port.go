package port

import (
	"context"

	"github.com/google/uuid"

	"kioskpos/internal/domain"
)

type OrderRepository interface {
	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// ListOrdersWithMembers returns orders newest first, enriched with member
	// name and email. A nil status returns all orders.
	ListOrdersWithMembers(ctx context.Context, status *domain.OrderStatus) ([]domain.OrderWithMember, error)

	// UpdateOrderStatus moves the order from expected to next and fails with
	// domain.ErrInvalidTransition if the order is no longer in expected.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, expected, next domain.OrderStatus) error
}

type ReceiptRepository interface {
	InsertReceipt(ctx context.Context, receipt domain.Receipt) (uuid.UUID, error)

	// GetLatestReceipt returns the most recently printed receipt of an order.
	GetLatestReceipt(ctx context.Context, orderID uuid.UUID) (domain.Receipt, error)
}
