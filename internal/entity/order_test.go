package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to OrderStatus
	}{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusShipped},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}

	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to),
			"expected %s -> %s to be allowed", tc.from, tc.to)
	}

	// Все остальные пары запрещены
	statuses := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	}
	allowedSet := map[[2]OrderStatus]bool{}
	for _, tc := range allowed {
		allowedSet[[2]OrderStatus{tc.from, tc.to}] = true
	}

	for _, from := range statuses {
		for _, to := range statuses {
			if allowedSet[[2]OrderStatus{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to),
				"expected %s -> %s to be rejected", from, to)
		}
	}
}

func TestCanTransition_TerminalStatesHaveNoEdges(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, terminal.IsTerminal())
		assert.Empty(t, statusTransitions[terminal])
	}
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input string
		want  OrderStatus
		ok    bool
	}{
		{"pending", OrderStatusPending, true},
		{"confirmed", OrderStatusConfirmed, true},
		{"shipped", OrderStatusShipped, true},
		{"delivered", OrderStatusDelivered, true},
		{"cancelled", OrderStatusCancelled, true},
		{"PENDING", OrderStatusUnspecified, false},
		{"", OrderStatusUnspecified, false},
		{"refunded", OrderStatusUnspecified, false},
	}

	for _, tc := range tests {
		got, ok := ParseOrderStatus(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}
