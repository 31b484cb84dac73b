package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
)

type orderRepository struct {
	db DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

const orderColumns = `id, member_id, order_number, total_amount, total_currency, status, product_ids, created_at, updated_at`

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}
	if order.Number == "" {
		return uuid.Nil, errors.New("order number is empty")
	}

	orderID, err := withTx(ctx, r.db, func(db DBTX) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := db.QueryRow(ctx,
			`INSERT INTO orders (member_id, order_number, total_amount, total_currency, product_ids)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			order.MemberID,
			order.Number,
			order.Total.Amount,
			order.Total.Currency.String(),
			uuidsToStrings(order.ProductIDs),
		).Scan(&orderID)
		if err != nil {
			if isUniqueViolation(err) {
				return uuid.Nil, fmt.Errorf("insert order: %w", domain.ErrDuplicateOrderNumber)
			}
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		// TODO: batch once order sizes grow beyond kiosk scale
		for _, item := range order.Items {
			_, err := db.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, price_amount, price_currency, quantity)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				orderID,
				item.ProductID,
				item.ProductName,
				item.UnitPrice.Amount,
				item.UnitPrice.Currency.String(),
				item.Quantity,
			)
			if err != nil {
				return uuid.Nil, fmt.Errorf("insert order item: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return r.getOrder(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
}

func (r *orderRepository) GetOrderByNumber(ctx context.Context, number string) (domain.Order, error) {
	return r.getOrder(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, number)
}

func (r *orderRepository) getOrder(ctx context.Context, query string, arg any) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.db, func(db DBTX) (domain.Order, error) {
		row := db.QueryRow(ctx, query, arg)

		order, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, domain.ErrOrderNotFound
			}
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		items, err := getOrderItems(ctx, db, []uuid.UUID{order.ID})
		if err != nil {
			return o, fmt.Errorf("getOrderItems: %w", err)
		}
		order.Items = items[order.ID]

		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var createdAfter, createdBefore any
	if filter.CreatedAt != nil {
		if filter.CreatedAt.After != nil {
			createdAfter = *filter.CreatedAt.After
		}
		if filter.CreatedAt.Before != nil {
			createdBefore = *filter.CreatedAt.Before
		}
	}

	var statuses []string
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}

	orders, err := withTx(ctx, r.db, func(db DBTX) ([]domain.Order, error) {
		rows, err := db.Query(ctx,
			`SELECT `+orderColumns+` FROM orders
			 WHERE ($1::text[] IS NULL OR id::text = ANY($1))
			   AND ($2::text[] IS NULL OR member_id::text = ANY($2))
			   AND ($3::text[] IS NULL OR order_number = ANY($3))
			   AND ($4::text[] IS NULL OR status = ANY($4))
			   AND ($5::timestamptz IS NULL OR created_at >= $5)
			   AND ($6::timestamptz IS NULL OR created_at <= $6)
			 ORDER BY created_at DESC
			 LIMIT NULLIF($7, 0)`,
			nilSliceIfEmpty(uuidsToStrings(filter.IDs)),
			nilSliceIfEmpty(uuidsToStrings(filter.MemberIDs)),
			nilSliceIfEmpty(filter.Numbers),
			nilSliceIfEmpty(statuses),
			createdAfter,
			createdBefore,
			filter.Limit,
		)
		if err != nil {
			return nil, fmt.Errorf("query orders: %w", err)
		}
		defer rows.Close()

		var orders []domain.Order
		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return nil, fmt.Errorf("scanOrder: %w", err)
			}
			orders = append(orders, order)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows.Err: %w", err)
		}

		orderIDs := lo.Map(orders, func(o domain.Order, _ int) uuid.UUID { return o.ID })

		items, err := getOrderItems(ctx, db, orderIDs)
		if err != nil {
			return nil, fmt.Errorf("getOrderItems: %w", err)
		}

		for i := range orders {
			orders[i].Items = items[orders[i].ID]
		}

		return orders, nil
	})
	if err != nil {
		return nil, fmt.Errorf("withTx: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) ListOrdersWithMembers(ctx context.Context, status *domain.OrderStatus) ([]domain.OrderWithMember, error) {
	var statusArg *string
	if status != nil {
		statusArg = lo.ToPtr(string(*status))
	}

	results, err := withTx(ctx, r.db, func(db DBTX) ([]domain.OrderWithMember, error) {
		rows, err := db.Query(ctx,
			`SELECT o.id, o.member_id, o.order_number, o.total_amount, o.total_currency,
			        o.status, o.product_ids, o.created_at, o.updated_at,
			        m.name, m.email
			 FROM orders o
			 JOIN members m ON m.id = o.member_id
			 WHERE $1::text IS NULL OR o.status = $1
			 ORDER BY o.created_at DESC`,
			statusArg,
		)
		if err != nil {
			return nil, fmt.Errorf("query orders: %w", err)
		}
		defer rows.Close()

		var results []domain.OrderWithMember
		for rows.Next() {
			var (
				owm        domain.OrderWithMember
				amount     decimal.Decimal
				currCode   string
				statusStr  string
				productIDs []string
			)

			err := rows.Scan(&owm.ID, &owm.MemberID, &owm.Number, &amount, &currCode,
				&statusStr, &productIDs, &owm.CreatedAt, &owm.UpdatedAt,
				&owm.MemberName, &owm.MemberEmail)
			if err != nil {
				return nil, fmt.Errorf("scan order: %w", err)
			}

			if err := fillOrderFields(&owm.Order, amount, currCode, statusStr, productIDs); err != nil {
				return nil, err
			}

			results = append(results, owm)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows.Err: %w", err)
		}

		orderIDs := lo.Map(results, func(o domain.OrderWithMember, _ int) uuid.UUID { return o.ID })

		items, err := getOrderItems(ctx, db, orderIDs)
		if err != nil {
			return nil, fmt.Errorf("getOrderItems: %w", err)
		}

		for i := range results {
			results[i].Items = items[results[i].ID]
		}

		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("withTx: %w", err)
	}

	return results, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, expected, next domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return errors.New("orderID is empty")
	}
	if !expected.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", expected, next, domain.ErrInvalidTransition)
	}

	if _, err := withTx(ctx, r.db, func(db DBTX) (struct{}, error) {
		var zero struct{}

		cmdTag, err := db.Exec(ctx,
			`UPDATE orders SET status = $3, updated_at = now()
			 WHERE id = $1 AND status = $2`,
			orderID, string(expected), string(next))
		if err != nil {
			return zero, fmt.Errorf("update order: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			// Either the order is gone or it already left the expected state.
			var current string
			err := db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
			if errors.Is(err, pgx.ErrNoRows) {
				return zero, domain.ErrOrderNotFound
			}
			if err != nil {
				return zero, fmt.Errorf("scan status: %w", err)
			}
			return zero, fmt.Errorf("order is %s: %w", current, domain.ErrInvalidTransition)
		}

		return zero, nil
	}); err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func getOrderItems(ctx context.Context, db DBTX, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	result := make(map[uuid.UUID][]domain.OrderItem)
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := db.Query(ctx,
		`SELECT order_id, product_id, product_name, price_amount, price_currency, quantity
		 FROM order_items
		 WHERE order_id::text = ANY($1)
		 ORDER BY id`,
		uuidsToStrings(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID  uuid.UUID
			item     domain.OrderItem
			amount   decimal.Decimal
			currCode string
		)

		err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &amount, &currCode, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}

		parsedCurrency, err := currency.ParseISO(currCode)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
		}
		item.UnitPrice = domain.Money{Amount: amount, Currency: parsedCurrency}

		result[orderID] = append(result[orderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return result, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o          domain.Order
		amount     decimal.Decimal
		currCode   string
		statusStr  string
		productIDs []string
	)

	err := row.Scan(&o.ID, &o.MemberID, &o.Number, &amount, &currCode,
		&statusStr, &productIDs, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	if err := fillOrderFields(&o, amount, currCode, statusStr, productIDs); err != nil {
		return o, err
	}

	return o, nil
}

func fillOrderFields(o *domain.Order, amount decimal.Decimal, currCode, statusStr string, productIDs []string) error {
	parsedCurrency, err := currency.ParseISO(currCode)
	if err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}
	o.Total = domain.Money{Amount: amount, Currency: parsedCurrency}

	status, err := domain.ToOrderStatus(statusStr)
	if err != nil {
		return fmt.Errorf("domain.ToOrderStatus[%s]: %w", statusStr, err)
	}
	o.Status = status

	o.ProductIDs, err = stringsToUUIDs(productIDs)
	if err != nil {
		return fmt.Errorf("stringsToUUIDs: %w", err)
	}

	return nil
}

func uuidsToStrings(ids []uuid.UUID) []string {
	return lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() })
}

func stringsToUUIDs(ids []string) ([]uuid.UUID, error) {
	var result []uuid.UUID
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("uuid.Parse[%s]: %w", s, err)
		}
		result = append(result, id)
	}
	return result, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
