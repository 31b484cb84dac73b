package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
)

type receiptRepository struct {
	db DBTX
}

func NewReceipt(pool *pgxpool.Pool) port.ReceiptRepository {
	return &receiptRepository{db: pool}
}

func NewReceiptWithTx(tx pgx.Tx) port.ReceiptRepository {
	return &receiptRepository{db: tx}
}

func (r *receiptRepository) InsertReceipt(ctx context.Context, receipt domain.Receipt) (uuid.UUID, error) {
	if receipt.Number == "" {
		return uuid.Nil, errors.New("receipt number is empty")
	}

	var id uuid.UUID

	err := r.db.QueryRow(ctx,
		`INSERT INTO receipts (order_id, receipt_number, content, printed_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		receipt.OrderID, receipt.Number, receipt.Content, receipt.PrintedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert receipt: %w", err)
	}

	return id, nil
}

func (r *receiptRepository) GetLatestReceipt(ctx context.Context, orderID uuid.UUID) (domain.Receipt, error) {
	var receipt domain.Receipt

	err := r.db.QueryRow(ctx,
		`SELECT id, order_id, receipt_number, content, printed_at
		 FROM receipts
		 WHERE order_id = $1
		 ORDER BY printed_at DESC
		 LIMIT 1`,
		orderID,
	).Scan(&receipt.ID, &receipt.OrderID, &receipt.Number, &receipt.Content, &receipt.PrintedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return receipt, domain.ErrReceiptNotFound
		}
		return receipt, fmt.Errorf("scan receipt: %w", err)
	}

	return receipt, nil
}
