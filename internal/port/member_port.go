package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kioskpos/internal/domain"
)

type MemberRepository interface {
	// CreateMember inserts the member and its initial balance as one unit.
	CreateMember(ctx context.Context, member domain.Member, initialBalance domain.Money) (uuid.UUID, error)

	GetMember(ctx context.Context, memberID uuid.UUID) (domain.Member, error)
	GetMemberByCardNumber(ctx context.Context, cardNumber string) (domain.Member, error)

	SetMemberActive(ctx context.Context, memberID uuid.UUID, active bool) error

	GetBalance(ctx context.Context, memberID uuid.UUID) (domain.Balance, error)

	// GetBalanceForUpdate locks the balance row for the rest of the enclosing
	// transaction. Only meaningful on a repository bound to a transaction.
	GetBalanceForUpdate(ctx context.Context, memberID uuid.UUID) (domain.Balance, error)

	// AddBalance applies a signed delta to the balance and returns the result.
	AddBalance(ctx context.Context, memberID uuid.UUID, delta decimal.Decimal) (domain.Balance, error)
}
