package domain

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "Shipped", "Delivered", "Cancelled"} {
		if _, ok := ParseOrderStatus(valid); !ok {
			t.Errorf("ParseOrderStatus(%q) rejected a valid status", valid)
		}
	}
	for _, invalid := range []string{"", "pending", "Lost", "DELIVERED"} {
		if _, ok := ParseOrderStatus(invalid); ok {
			t.Errorf("ParseOrderStatus(%q) accepted an invalid status", invalid)
		}
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to OrderStatus
	}{
		{OrderPending, OrderShipped},
		{OrderPending, OrderCancelled},
		{OrderShipped, OrderDelivered},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Errorf("%s -> %s should be allowed", tt.from, tt.to)
		}
	}
	forbidden := []struct {
		from, to OrderStatus
	}{
		{OrderPending, OrderDelivered},
		{OrderShipped, OrderCancelled},
		{OrderDelivered, OrderCancelled},
		{OrderDelivered, OrderPending},
		{OrderCancelled, OrderPending},
		{OrderCancelled, OrderShipped},
	}
	for _, tt := range forbidden {
		if tt.from.CanTransitionTo(tt.to) {
			t.Errorf("%s -> %s must be rejected", tt.from, tt.to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if OrderPending.Terminal() || OrderShipped.Terminal() {
		t.Error("Pending and Shipped are not terminal")
	}
	if !OrderDelivered.Terminal() || !OrderCancelled.Terminal() {
		t.Error("Delivered and Cancelled are terminal")
	}
}
