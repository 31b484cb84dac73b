package domain

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is a regenerable text rendering of an order. The order record
// stays the source of truth, a receipt row only records what was printed.
type Receipt struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Number    string
	Content   string
	PrintedAt time.Time
}
