package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderDelivered.Terminal())
	assert.True(t, OrderCancelled.Terminal())

	for _, s := range []OrderStatus{OrderPending, OrderProcessing, OrderPrepared, OrderShipped} {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCOD, PaymentMomo, PaymentZaloPay, PaymentStripe} {
		assert.True(t, ValidPaymentMethod(m))
	}
	assert.False(t, ValidPaymentMethod(PaymentMethod("paypal")))
	assert.False(t, ValidPaymentMethod(PaymentMethod("")))
}
