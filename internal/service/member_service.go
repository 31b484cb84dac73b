package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
	"kioskpos/pkg/logger"
)

type CreateMemberRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	CardNumber     string          `json:"card_number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type MemberServiceInterface interface {
	CreateMember(ctx context.Context, req CreateMemberRequest) (uuid.UUID, error)
	AddBalance(ctx context.Context, memberID uuid.UUID, amount decimal.Decimal) (domain.Balance, error)
	GetMemberByCardNumber(ctx context.Context, cardNumber string) (domain.Member, error)
	GetBalance(ctx context.Context, memberID uuid.UUID) (domain.Balance, error)
	SetMemberActive(ctx context.Context, memberID uuid.UUID, active bool) error
}

type MemberService struct {
	members  port.MemberRepository
	currency currency.Unit
	logger   *logger.Logger
}

// NewMemberService creates a MemberService, unit is the currency new
// balances are denominated in.
func NewMemberService(members port.MemberRepository, unit currency.Unit, logger *logger.Logger) *MemberService {
	return &MemberService{
		members:  members,
		currency: unit,
		logger:   logger.WithComponent("member_service"),
	}
}

func (s *MemberService) CreateMember(ctx context.Context, req CreateMemberRequest) (uuid.UUID, error) {
	if req.Name == "" {
		return uuid.Nil, errors.New("name is empty")
	}
	if req.CardNumber == "" {
		return uuid.Nil, errors.New("card number is empty")
	}
	if req.InitialBalance.IsNegative() {
		return uuid.Nil, errors.New("initial balance is negative")
	}

	member := domain.Member{
		Name:       req.Name,
		Email:      req.Email,
		CardNumber: req.CardNumber,
		Active:     true,
	}

	initialBalance := domain.Money{Amount: req.InitialBalance, Currency: s.currency}

	memberID, err := s.members.CreateMember(ctx, member, initialBalance)
	if err != nil {
		s.logger.Warn("Member creation failed", "card_number", req.CardNumber, "error", err)
		return uuid.Nil, fmt.Errorf("members.CreateMember: %w", err)
	}

	s.logger.Info("Member created", "member_id", memberID, "card_number", req.CardNumber)

	return memberID, nil
}

func (s *MemberService) AddBalance(ctx context.Context, memberID uuid.UUID, amount decimal.Decimal) (domain.Balance, error) {
	balance, err := s.members.AddBalance(ctx, memberID, amount)
	if err != nil {
		s.logger.Warn("Balance top-up failed", "member_id", memberID, "error", err)
		return domain.Balance{}, fmt.Errorf("members.AddBalance: %w", err)
	}

	s.logger.Info("Balance updated",
		"member_id", memberID,
		"delta", amount.String(),
		"balance", balance.Amount.String())

	return balance, nil
}

func (s *MemberService) GetMemberByCardNumber(ctx context.Context, cardNumber string) (domain.Member, error) {
	member, err := s.members.GetMemberByCardNumber(ctx, cardNumber)
	if err != nil {
		return domain.Member{}, fmt.Errorf("members.GetMemberByCardNumber: %w", err)
	}

	return member, nil
}

func (s *MemberService) GetBalance(ctx context.Context, memberID uuid.UUID) (domain.Balance, error) {
	balance, err := s.members.GetBalance(ctx, memberID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("members.GetBalance: %w", err)
	}

	return balance, nil
}

func (s *MemberService) SetMemberActive(ctx context.Context, memberID uuid.UUID, active bool) error {
	if err := s.members.SetMemberActive(ctx, memberID, active); err != nil {
		return fmt.Errorf("members.SetMemberActive: %w", err)
	}

	s.logger.Info("Member active flag changed", "member_id", memberID, "active", active)

	return nil
}
