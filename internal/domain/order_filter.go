package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderFilter has AND semantics across fields, OR semantics within each field slice.
// A zero Limit means no limit.
type OrderFilter struct {
	IDs       []uuid.UUID
	MemberIDs []uuid.UUID
	Numbers   []string
	Statuses  []OrderStatus
	CreatedAt *TimeRange

	Limit int
}

func (f OrderFilter) Validate() error {
	if f.Limit < 0 {
		return errors.New("limit is negative")
	}

	for _, status := range f.Statuses {
		if _, err := ToOrderStatus(string(status)); err != nil {
			return fmt.Errorf("status[%s]: %w", status, err)
		}
	}

	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	return nil
}

type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return errors.New("both Before and After are nil")
	}

	if t.Before != nil && t.After != nil {
		if t.Before.Before(*t.After) {
			return fmt.Errorf("before is before After")
		}
	}

	return nil
}
