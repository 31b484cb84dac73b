package domain

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID         uuid.UUID
	Name       string
	Email      string
	CardNumber string
	Active     bool

	CreatedAt time.Time
}

// Balance is the member's spendable prepaid amount, exactly one per member.
type Balance struct {
	MemberID uuid.UUID
	Amount   Money

	UpdatedAt time.Time
}
