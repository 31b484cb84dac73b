package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
	"kioskpos/internal/repository"
	"kioskpos/pkg/logger"
)

type SettlementServiceInterface interface {
	PlaceOrder(ctx context.Context, memberID uuid.UUID, lines []domain.OrderLine) (domain.Order, error)
}

// SettlementService validates an order request against member and catalog
// state, debits the balance and persists the order, all in one transaction.
type SettlementService struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewSettlementService(pool *pgxpool.Pool, logger *logger.Logger) *SettlementService {
	return &SettlementService{
		pool:   pool,
		logger: logger.WithComponent("settlement_service"),
	}
}

func (s *SettlementService) PlaceOrder(ctx context.Context, memberID uuid.UUID, lines []domain.OrderLine) (domain.Order, error) {
	var o domain.Order

	if memberID == uuid.Nil {
		return o, errors.New("memberID is empty")
	}
	if len(lines) == 0 {
		return o, errors.New("no lines in order")
	}
	for i, line := range lines {
		if line.Quantity <= 0 {
			return o, fmt.Errorf("line[%d]: quantity must be positive, got %d", i, line.Quantity)
		}
	}

	// The balance row is locked for the duration of the transaction, so two
	// simultaneous orders for one member cannot both pass the balance check.
	order, err := repository.RunInTx(ctx, s.pool, func(tx pgx.Tx) (domain.Order, error) {
		members := repository.NewMemberWithTx(tx)
		products := repository.NewProductWithTx(tx)
		orders := repository.NewOrderWithTx(tx)

		member, err := members.GetMember(ctx, memberID)
		if err != nil {
			if errors.Is(err, domain.ErrMemberNotFound) {
				return o, domain.ErrInvalidMember
			}
			return o, fmt.Errorf("members.GetMember: %w", err)
		}
		if !member.Active {
			return o, domain.ErrInvalidMember
		}

		balance, err := members.GetBalanceForUpdate(ctx, memberID)
		if err != nil {
			return o, fmt.Errorf("members.GetBalanceForUpdate: %w", err)
		}

		total := domain.Money{Amount: decimal.Zero, Currency: balance.Amount.Currency}

		var (
			items      []domain.OrderItem
			productIDs []uuid.UUID
		)

		for _, line := range lines {
			product, err := products.GetProduct(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return o, fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrProductUnavailable)
				}
				return o, fmt.Errorf("products.GetProduct: %w", err)
			}
			if !product.Available {
				return o, fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrProductUnavailable)
			}

			if !product.Price.SameCurrency(balance.Amount) {
				return o, fmt.Errorf("product[%s] is priced in %s, balance is %s: %w",
					line.ProductID, product.Price.Currency, balance.Amount.Currency, domain.ErrCurrencyMismatch)
			}

			items = append(items, domain.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
			})
			total = total.Add(product.Price.MulInt(int64(line.Quantity)))

			// one entry per unit, the POS listing view consumes this form
			for range line.Quantity {
				productIDs = append(productIDs, product.ID)
			}
		}

		if balance.Amount.LessThan(total) {
			return o, fmt.Errorf("total %s exceeds balance %s: %w",
				total, balance.Amount, domain.ErrInsufficientBalance)
		}

		orderID, err := s.insertWithFreshNumber(ctx, orders, domain.Order{
			MemberID:   memberID,
			Total:      total,
			Items:      items,
			ProductIDs: productIDs,
		})
		if err != nil {
			return o, fmt.Errorf("s.insertWithFreshNumber: %w", err)
		}

		if _, err := members.AddBalance(ctx, memberID, total.Amount.Neg()); err != nil {
			return o, fmt.Errorf("members.AddBalance: %w", err)
		}

		created, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("orders.GetOrder: %w", err)
		}

		return created, nil
	})
	if err != nil {
		s.logger.Warn("Order placement failed", "member_id", memberID, "error", err)
		return o, err
	}

	s.logger.Info("Order placed",
		"order_id", order.ID,
		"order_number", order.Number,
		"member_id", memberID,
		"total", order.Total.String())

	return order, nil
}

// insertWithFreshNumber retries once on an order-number collision, the
// 4-char suffix is random and the store enforces uniqueness.
func (s *SettlementService) insertWithFreshNumber(ctx context.Context, orders port.OrderRepository, order domain.Order) (uuid.UUID, error) {
	order.Number = newOrderNumber()

	orderID, err := orders.InsertOrder(ctx, order)
	if errors.Is(err, domain.ErrDuplicateOrderNumber) {
		order.Number = newOrderNumber()
		orderID, err = orders.InsertOrder(ctx, order)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	return orderID, nil
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func newOrderNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}

	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(string(suffix)))
}
