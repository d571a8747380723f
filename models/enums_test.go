package models_test

import (
	"testing"

	"github.com/bizflowhq/bizflow_backend/models"
)

func TestNextOrderStatus(t *testing.T) {
	cases := []struct {
		current models.OrderStatus
		event   models.OrderEvent
		next    models.OrderStatus
		ok      bool
	}{
		{models.OrderStatusNew, models.OrderEventConfirm, models.OrderStatusConfirmed, true},
		{models.OrderStatusNew, models.OrderEventCancel, models.OrderStatusCanceled, true},
		{models.OrderStatusNew, models.OrderEventComplete, "", false},
		{models.OrderStatusConfirmed, models.OrderEventComplete, models.OrderStatusCompleted, true},
		{models.OrderStatusConfirmed, models.OrderEventCancel, models.OrderStatusCanceled, true},
		{models.OrderStatusConfirmed, models.OrderEventConfirm, "", false},
		{models.OrderStatusCompleted, models.OrderEventCancel, "", false},
		{models.OrderStatusCompleted, models.OrderEventConfirm, "", false},
		{models.OrderStatusCanceled, models.OrderEventConfirm, "", false},
		{models.OrderStatusCanceled, models.OrderEventCancel, "", false},
	}
	for _, c := range cases {
		next, ok := models.NextOrderStatus(c.current, c.event)
		if ok != c.ok {
			t.Errorf("%s x %s: ok = %v, want %v", c.current, c.event, ok, c.ok)
			continue
		}
		if ok && next != c.next {
			t.Errorf("%s x %s: next = %s, want %s", c.current, c.event, next, c.next)
		}
	}
}

func TestHasPermission(t *testing.T) {
	if !models.HasPermission(models.RoleOwner, "manage_orders") {
		t.Error("owner should manage orders")
	}
	if models.HasPermission(models.RoleEmployee, "manage_debt") {
		t.Error("employee must not manage debt")
	}
	if !models.HasPermission(models.RoleEmployee, "create_orders") {
		t.Error("employee should create orders")
	}
}
