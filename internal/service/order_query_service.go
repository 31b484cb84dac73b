package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
	"kioskpos/pkg/logger"
)

const (
	orderHistoryLimit = 20
	posFeedLimit      = 50
)

// POSOrder is the pending-order feed entry shown on the staff terminal.
type POSOrder struct {
	OrderID     uuid.UUID    `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	Time        time.Time    `json:"time"`
	Items       []string     `json:"items"`
	TotalAmount domain.Money `json:"total_amount"`
	MemberID    uuid.UUID    `json:"member_id"`
}

type OrderDetailItem struct {
	ProductID uuid.UUID    `json:"product_id"`
	Name      string       `json:"name"`
	Quantity  int32        `json:"quantity"`
	UnitPrice domain.Money `json:"unit_price"`
}

type OrderDetail struct {
	OrderTime   time.Time          `json:"order_time"`
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Status      domain.OrderStatus `json:"status"`
	MemberName  string             `json:"member_name"`
	MemberEmail string             `json:"member_email"`
	Items       []OrderDetailItem  `json:"items"`
	TotalPrice  domain.Money       `json:"total_price"`

	// PaymentAmount equals TotalPrice, prepaid cards cover orders in full.
	PaymentAmount domain.Money `json:"payment_amount"`
}

type OrderQueryServiceInterface interface {
	GetOrderHistory(ctx context.Context, memberID uuid.UUID) ([]domain.Order, error)
	ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.OrderWithMember, error)
	GetOrderDetail(ctx context.Context, orderID uuid.UUID) (OrderDetail, error)
	GetOrderByNumber(ctx context.Context, number string) (domain.Order, error)
	PendingOrdersForPOS(ctx context.Context) ([]POSOrder, error)
}

type OrderQueryService struct {
	orders  port.OrderRepository
	members port.MemberRepository
	logger  *logger.Logger
}

func NewOrderQueryService(orders port.OrderRepository, members port.MemberRepository, logger *logger.Logger) *OrderQueryService {
	return &OrderQueryService{
		orders:  orders,
		members: members,
		logger:  logger.WithComponent("order_query_service"),
	}
}

// GetOrderHistory returns the member's most recent orders, newest first.
func (s *OrderQueryService) GetOrderHistory(ctx context.Context, memberID uuid.UUID) ([]domain.Order, error) {
	orders, err := s.orders.SearchOrders(ctx, domain.OrderFilter{
		MemberIDs: []uuid.UUID{memberID},
		Limit:     orderHistoryLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderQueryService) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]domain.OrderWithMember, error) {
	orders, err := s.orders.ListOrdersWithMembers(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrdersWithMembers: %w", err)
	}

	return orders, nil
}

func (s *OrderQueryService) GetOrderDetail(ctx context.Context, orderID uuid.UUID) (OrderDetail, error) {
	var d OrderDetail

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return d, fmt.Errorf("orders.GetOrder: %w", err)
	}

	member, err := s.members.GetMember(ctx, order.MemberID)
	if err != nil {
		return d, fmt.Errorf("members.GetMember: %w", err)
	}

	items := lo.Map(order.Items, func(item domain.OrderItem, _ int) OrderDetailItem {
		return OrderDetailItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	})

	return OrderDetail{
		OrderTime:     order.CreatedAt,
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		Status:        order.Status,
		MemberName:    member.Name,
		MemberEmail:   member.Email,
		Items:         items,
		TotalPrice:    order.Total,
		PaymentAmount: order.Total,
	}, nil
}

func (s *OrderQueryService) GetOrderByNumber(ctx context.Context, number string) (domain.Order, error) {
	order, err := s.orders.GetOrderByNumber(ctx, number)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrderByNumber: %w", err)
	}

	return order, nil
}

func (s *OrderQueryService) PendingOrdersForPOS(ctx context.Context) ([]POSOrder, error) {
	orders, err := s.orders.SearchOrders(ctx, domain.OrderFilter{
		Statuses: []domain.OrderStatus{domain.OrderStatusPending},
		Limit:    posFeedLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	results := lo.Map(orders, func(order domain.Order, _ int) POSOrder {
		items := lo.Map(order.Items, func(item domain.OrderItem, _ int) string {
			return fmt.Sprintf("%dx %s - %s", item.Quantity, item.ProductName, item.UnitPrice)
		})

		return POSOrder{
			OrderID:     order.ID,
			OrderNumber: order.Number,
			Time:        order.CreatedAt,
			Items:       items,
			TotalAmount: order.Total,
			MemberID:    order.MemberID,
		}
	})

	return results, nil
}
