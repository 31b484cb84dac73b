package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
	"kioskpos/internal/receipt"
	"kioskpos/pkg/logger"
)

type ReceiptServiceInterface interface {
	ReprintReceipt(ctx context.Context, orderID uuid.UUID) (domain.Receipt, error)
}

type ReceiptService struct {
	orders   port.OrderRepository
	members  port.MemberRepository
	receipts port.ReceiptRepository
	engine   receipt.Engine
	logger   *logger.Logger
}

func NewReceiptService(
	orders port.OrderRepository,
	members port.MemberRepository,
	receipts port.ReceiptRepository,
	engine receipt.Engine,
	logger *logger.Logger,
) *ReceiptService {
	return &ReceiptService{
		orders:   orders,
		members:  members,
		receipts: receipts,
		engine:   engine,
		logger:   logger.WithComponent("receipt_service"),
	}
}

// ReprintReceipt renders the order as receipt text from the snapshot stored
// with the order, records the print and returns it. Reprinting never reads
// the live catalog, so a later price edit cannot change an old receipt.
func (s *ReceiptService) ReprintReceipt(ctx context.Context, orderID uuid.UUID) (domain.Receipt, error) {
	var rcpt domain.Receipt

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return rcpt, fmt.Errorf("orders.GetOrder: %w", err)
	}

	member, err := s.members.GetMember(ctx, order.MemberID)
	if err != nil {
		return rcpt, fmt.Errorf("members.GetMember: %w", err)
	}

	content, err := s.engine.Render(order, member.Name, true)
	if err != nil {
		return rcpt, fmt.Errorf("engine.Render: %w", err)
	}

	now := time.Now()

	rcpt = domain.Receipt{
		OrderID:   order.ID,
		Number:    fmt.Sprintf("RPT-%s-%d", order.Number, now.UnixMilli()),
		Content:   content,
		PrintedAt: now,
	}

	rcpt.ID, err = s.receipts.InsertReceipt(ctx, rcpt)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("receipts.InsertReceipt: %w", err)
	}

	s.logger.Info("Receipt reprinted",
		"order_id", orderID,
		"receipt_number", rcpt.Number)

	return rcpt, nil
}
