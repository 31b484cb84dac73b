package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kioskpos/internal/domain"
	"kioskpos/internal/repository"
	"kioskpos/pkg/logger"
)

type LifecycleServiceInterface interface {
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
}

// LifecycleService moves orders out of pending. Terminal states are final:
// re-completing or re-cancelling fails instead of double-applying effects.
type LifecycleService struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewLifecycleService(pool *pgxpool.Pool, logger *logger.Logger) *LifecycleService {
	return &LifecycleService{
		pool:   pool,
		logger: logger.WithComponent("lifecycle_service"),
	}
}

// CompleteOrder marks a pending order completed. The balance was already
// debited at placement, so there is no money movement here.
func (s *LifecycleService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := repository.RunInTx(ctx, s.pool, func(tx pgx.Tx) (domain.Order, error) {
		orders := repository.NewOrderWithTx(tx)

		err := orders.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPending, domain.OrderStatusCompleted)
		if err != nil {
			return o, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
		}

		completed, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("orders.GetOrder: %w", err)
		}

		return completed, nil
	})
	if err != nil {
		s.logger.Warn("Order completion failed", "order_id", orderID, "error", err)
		return o, err
	}

	s.logger.Info("Order completed", "order_id", orderID, "order_number", order.Number)

	return order, nil
}

// CancelOrder refunds the full total to the member's balance and marks the
// order cancelled, atomically. A missing balance row aborts the cancellation:
// swallowing it would make the refund silently disappear.
func (s *LifecycleService) CancelOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := repository.RunInTx(ctx, s.pool, func(tx pgx.Tx) (domain.Order, error) {
		orders := repository.NewOrderWithTx(tx)
		members := repository.NewMemberWithTx(tx)

		order, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("orders.GetOrder: %w", err)
		}

		if order.Status != domain.OrderStatusPending {
			return o, fmt.Errorf("order is %s: %w", order.Status, domain.ErrInvalidTransition)
		}

		if _, err := members.AddBalance(ctx, order.MemberID, order.Total.Amount); err != nil {
			if errors.Is(err, domain.ErrBalanceNotFound) {
				s.logger.Error("Refund target balance is missing",
					"order_id", orderID, "member_id", order.MemberID)
			}
			return o, fmt.Errorf("members.AddBalance: %w", err)
		}

		err = orders.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPending, domain.OrderStatusCancelled)
		if err != nil {
			return o, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
		}

		cancelled, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("orders.GetOrder: %w", err)
		}

		return cancelled, nil
	})
	if err != nil {
		s.logger.Warn("Order cancellation failed", "order_id", orderID, "error", err)
		return o, err
	}

	s.logger.Info("Order cancelled",
		"order_id", orderID,
		"order_number", order.Number,
		"refund", order.Total.String())

	return order, nil
}
