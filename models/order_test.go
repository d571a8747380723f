package models_test

import (
	"testing"
	"time"

	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
)

func TestComputeLineTotal(t *testing.T) {
	qty := mustDecimal(t, "2.5")
	price := mustDecimal(t, "5000")
	discount := mustDecimal(t, "500")

	got := models.ComputeLineTotal(qty, price, discount)
	if !got.Equal(mustDecimal(t, "12000")) {
		t.Errorf("line total = %s, want 12000", got)
	}
}

func TestRecomputeTotalAndRemaining(t *testing.T) {
	order := models.Order{
		Lines: []models.OrderLine{
			{LineTotal: mustDecimal(t, "10000")},
			{LineTotal: mustDecimal(t, "2500.50")},
		},
		PaidAmount: mustDecimal(t, "5000"),
	}
	order.RecomputeTotal()
	if !order.TotalAmount.Equal(mustDecimal(t, "12500.50")) {
		t.Errorf("total = %s, want 12500.50", order.TotalAmount)
	}
	if !order.RemainingAmount().Equal(mustDecimal(t, "7500.50")) {
		t.Errorf("remaining = %s, want 7500.50", order.RemainingAmount())
	}
}

func TestMarkConfirmedStampsConfirmer(t *testing.T) {
	order := models.Order{Status: models.OrderStatusNew}
	at := time.Now()
	if err := order.MarkConfirmed(7, at); err != nil {
		t.Fatalf("MarkConfirmed: %v", err)
	}
	if order.Status != models.OrderStatusConfirmed {
		t.Errorf("status = %s, want confirmed", order.Status)
	}
	if order.ConfirmedByUserId == nil || *order.ConfirmedByUserId != 7 {
		t.Error("confirmer not stamped")
	}
	if order.ConfirmedAt == nil || !order.ConfirmedAt.Equal(at) {
		t.Error("confirmation time not stamped")
	}
}

func TestMarkConfirmedTwice(t *testing.T) {
	order := models.Order{Status: models.OrderStatusNew}
	if err := order.MarkConfirmed(1, time.Now()); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	err := order.MarkConfirmed(1, time.Now())
	if !utils.IsCode(err, utils.CodeOrderConfirmed) {
		t.Errorf("second confirm error = %v, want %s", err, utils.CodeOrderConfirmed)
	}
}

func TestCompletedOrderRejectsEvents(t *testing.T) {
	order := models.Order{Status: models.OrderStatusCompleted}
	if err := order.MarkCanceled(); !utils.IsCode(err, utils.CodeInvalidTransition) {
		t.Errorf("cancel on completed = %v, want %s", err, utils.CodeInvalidTransition)
	}
	if err := order.MarkCompleted(); !utils.IsCode(err, utils.CodeInvalidTransition) {
		t.Errorf("complete on completed = %v, want %s", err, utils.CodeInvalidTransition)
	}
}

func TestFormatOrderNumber(t *testing.T) {
	got := models.FormatOrderNumber(12, "260825", 3)
	if got != "ORD0122608250003" {
		t.Errorf("order number = %s, want ORD0122608250003", got)
	}
}

func TestCanExtendDebt(t *testing.T) {
	unlimited := models.Customer{DebtLimit: decimal.Zero, DebtBalance: mustDecimal(t, "9000000")}
	if !unlimited.CanExtendDebt(mustDecimal(t, "1000000")) {
		t.Error("zero limit must mean unlimited")
	}

	limited := models.Customer{
		DebtLimit:   mustDecimal(t, "1000000"),
		DebtBalance: mustDecimal(t, "800000"),
	}
	if !limited.CanExtendDebt(mustDecimal(t, "200000")) {
		t.Error("exactly at limit should be allowed")
	}
	if limited.CanExtendDebt(mustDecimal(t, "200000.01")) {
		t.Error("over limit must be rejected")
	}
}
