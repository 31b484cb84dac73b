package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
)

type memberRepository struct {
	db DBTX
}

func NewMember(pool *pgxpool.Pool) port.MemberRepository {
	return &memberRepository{db: pool}
}

func NewMemberWithTx(tx pgx.Tx) port.MemberRepository {
	return &memberRepository{db: tx}
}

func (r *memberRepository) CreateMember(ctx context.Context, member domain.Member, initialBalance domain.Money) (uuid.UUID, error) {
	if member.CardNumber == "" {
		return uuid.Nil, errors.New("card number is empty")
	}
	if initialBalance.IsNegative() {
		return uuid.Nil, errors.New("initial balance is negative")
	}

	memberID, err := withTx(ctx, r.db, func(db DBTX) (uuid.UUID, error) {
		var id uuid.UUID

		err := db.QueryRow(ctx,
			`INSERT INTO members (name, email, card_number, active)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			member.Name, member.Email, member.CardNumber, member.Active,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return uuid.Nil, fmt.Errorf("insert member: %w", domain.ErrDuplicateCardNumber)
			}
			return uuid.Nil, fmt.Errorf("insert member: %w", err)
		}

		// The balance row lives and dies with its member.
		_, err = db.Exec(ctx,
			`INSERT INTO balances (member_id, amount, currency)
			 VALUES ($1, $2, $3)`,
			id, initialBalance.Amount, initialBalance.Currency.String(),
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert balance: %w", err)
		}

		return id, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return memberID, nil
}

func (r *memberRepository) GetMember(ctx context.Context, memberID uuid.UUID) (domain.Member, error) {
	return r.getMember(ctx,
		`SELECT id, name, email, card_number, active, created_at
		 FROM members WHERE id = $1`, memberID)
}

func (r *memberRepository) GetMemberByCardNumber(ctx context.Context, cardNumber string) (domain.Member, error) {
	return r.getMember(ctx,
		`SELECT id, name, email, card_number, active, created_at
		 FROM members WHERE card_number = $1`, cardNumber)
}

func (r *memberRepository) getMember(ctx context.Context, query string, arg any) (domain.Member, error) {
	var m domain.Member

	err := r.db.QueryRow(ctx, query, arg).
		Scan(&m.ID, &m.Name, &m.Email, &m.CardNumber, &m.Active, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, domain.ErrMemberNotFound
		}
		return m, fmt.Errorf("scan member: %w", err)
	}

	return m, nil
}

func (r *memberRepository) SetMemberActive(ctx context.Context, memberID uuid.UUID, active bool) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE members SET active = $2 WHERE id = $1`, memberID, active)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

func (r *memberRepository) GetBalance(ctx context.Context, memberID uuid.UUID) (domain.Balance, error) {
	return r.getBalance(ctx, memberID, false)
}

func (r *memberRepository) GetBalanceForUpdate(ctx context.Context, memberID uuid.UUID) (domain.Balance, error) {
	return r.getBalance(ctx, memberID, true)
}

func (r *memberRepository) getBalance(ctx context.Context, memberID uuid.UUID, forUpdate bool) (domain.Balance, error) {
	var b domain.Balance

	query := `SELECT member_id, amount, currency, updated_at FROM balances WHERE member_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		amount   decimal.Decimal
		currCode string
	)

	err := r.db.QueryRow(ctx, query, memberID).
		Scan(&b.MemberID, &amount, &currCode, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return b, domain.ErrBalanceNotFound
		}
		return b, fmt.Errorf("scan balance: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(currCode)
	if err != nil {
		return b, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}

	b.Amount = domain.Money{Amount: amount, Currency: parsedCurrency}

	return b, nil
}

func (r *memberRepository) AddBalance(ctx context.Context, memberID uuid.UUID, delta decimal.Decimal) (domain.Balance, error) {
	var b domain.Balance

	var (
		amount    decimal.Decimal
		currCode  string
		updatedAt time.Time
	)

	err := r.db.QueryRow(ctx,
		`UPDATE balances
		 SET amount = amount + $2, updated_at = now()
		 WHERE member_id = $1
		 RETURNING amount, currency, updated_at`,
		memberID, delta,
	).Scan(&amount, &currCode, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return b, domain.ErrBalanceNotFound
		}
		return b, fmt.Errorf("update balance: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(currCode)
	if err != nil {
		return b, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}

	return domain.Balance{
		MemberID:  memberID,
		Amount:    domain.Money{Amount: amount, Currency: parsedCurrency},
		UpdatedAt: updatedAt,
	}, nil
}
