package models

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPendingConfirmation, OrderStatusPreparing, true},
		{OrderStatusPendingConfirmation, OrderStatusCancelled, true},
		{OrderStatusPendingConfirmation, OrderStatusDelivered, false},
		{OrderStatusPreparing, OrderStatusShipping, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusShipping, OrderStatusDelivered, true},
		{OrderStatusShipping, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipping, false},
		{OrderStatusCancelled, OrderStatusPreparing, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Errorf("%s -> %s = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestOrderStatusCancellable(t *testing.T) {
	if !OrderStatusPendingConfirmation.Cancellable() || !OrderStatusPreparing.Cancellable() {
		t.Error("orders should be cancellable before shipping")
	}
	if OrderStatusShipping.Cancellable() || OrderStatusDelivered.Cancellable() || OrderStatusCancelled.Cancellable() {
		t.Error("orders past preparation must not be cancellable")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, ok := ParseOrderStatus("PREPARING"); !ok {
		t.Error("PREPARING rejected")
	}
	if _, ok := ParseOrderStatus("preparing"); ok {
		t.Error("lowercase accepted")
	}
	if _, ok := ParseOrderStatus("EATEN"); ok {
		t.Error("unknown status accepted")
	}
}

func TestParsePaymentStatusExcludesRefunded(t *testing.T) {
	for _, s := range []string{"PENDING", "PAID", "FAILED"} {
		if _, ok := ParsePaymentStatus(s); !ok {
			t.Errorf("%s rejected", s)
		}
	}
	// REFUNDED is only reachable through the refund operation.
	if _, ok := ParsePaymentStatus("REFUNDED"); ok {
		t.Error("REFUNDED accepted as a direct status")
	}
}
