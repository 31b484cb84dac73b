package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskpos/internal/domain"
)

func TestToOrderStatus(t *testing.T) {
	for _, status := range domain.OrderStatuses() {
		parsed, err := domain.ToOrderStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := domain.ToOrderStatus("shipped")
	require.EqualError(t, err, "invalid order status")

	_, err = domain.ToOrderStatus("")
	require.Error(t, err)
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, domain.OrderStatusPending.Terminal())
	assert.True(t, domain.OrderStatusCompleted.Terminal())
	assert.True(t, domain.OrderStatusCancelled.Terminal())
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusCompleted, true},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusPending, false},
		{domain.OrderStatusCompleted, domain.OrderStatusCancelled, false},
		{domain.OrderStatusCompleted, domain.OrderStatusPending, false},
		{domain.OrderStatusCancelled, domain.OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
