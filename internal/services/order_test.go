package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/uteshop/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{"pending to processing", models.OrderPending, models.OrderProcessing, true},
		{"pending to cancelled", models.OrderPending, models.OrderCancelled, true},
		{"pending to prepared skips a step", models.OrderPending, models.OrderPrepared, false},
		{"pending to delivered skips steps", models.OrderPending, models.OrderDelivered, false},
		{"processing to prepared", models.OrderProcessing, models.OrderPrepared, true},
		{"processing to cancelled", models.OrderProcessing, models.OrderCancelled, true},
		{"processing back to pending", models.OrderProcessing, models.OrderPending, false},
		{"prepared to shipped", models.OrderPrepared, models.OrderShipped, true},
		{"prepared to cancelled", models.OrderPrepared, models.OrderCancelled, true},
		{"prepared back to processing", models.OrderPrepared, models.OrderProcessing, false},
		{"shipped to delivered", models.OrderShipped, models.OrderDelivered, true},
		{"shipped to cancelled", models.OrderShipped, models.OrderCancelled, true},
		{"shipped back to prepared", models.OrderShipped, models.OrderPrepared, false},
		{"delivered is terminal", models.OrderDelivered, models.OrderCancelled, false},
		{"delivered cannot revert", models.OrderDelivered, models.OrderShipped, false},
		{"cancelled is terminal", models.OrderCancelled, models.OrderPending, false},
		{"cancelled cannot deliver", models.OrderCancelled, models.OrderDelivered, false},
		{"self transition is not listed", models.OrderPending, models.OrderPending, false},
		{"unknown status has no exits", models.OrderStatus("bogus"), models.OrderProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []models.OrderStatus{
		models.OrderPending, models.OrderProcessing, models.OrderPrepared,
		models.OrderShipped, models.OrderDelivered, models.OrderCancelled,
	}
	for _, to := range all {
		assert.False(t, CanTransition(models.OrderDelivered, to), "delivered -> %s", to)
		assert.False(t, CanTransition(models.OrderCancelled, to), "cancelled -> %s", to)
	}
}

func TestEveryNonTerminalStateCanCancel(t *testing.T) {
	for _, from := range []models.OrderStatus{
		models.OrderPending, models.OrderProcessing,
		models.OrderPrepared, models.OrderShipped,
	} {
		assert.True(t, CanTransition(from, models.OrderCancelled), "%s -> cancelled", from)
	}
}
