package workflow_test

import (
	"testing"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/bizflowhq/bizflow_backend/workflow"
)

func TestRecordCustomerPayment(t *testing.T) {
	f := setup(t)
	f.importStock(t, "100")
	order := f.newOrder(t, "100", true)
	if _, err := workflow.ConfirmOrder(f.ctx, order.ID); err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	payment, err := workflow.RecordCustomerPayment(f.ctx, &models.NewCustomerPayment{
		CustomerId: f.customer.ID,
		Amount:     mustDecimal(t, "200000"),
		Method:     models.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("RecordCustomerPayment: %v", err)
	}
	if !f.debt(t).Equal(mustDecimal(t, "300000")) {
		t.Errorf("debt = %s, want 300000", f.debt(t))
	}

	var entry models.LedgerEntry
	err = config.GetDB().Where("store_id = ? AND ref_type = ? AND ref_id = ?",
		f.store.ID, models.LedgerRefPayment, payment.ID).First(&entry).Error
	if err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.EntryType != models.LedgerEntryTypePaymentIn {
		t.Errorf("entry type = %s, want payment_in", entry.EntryType)
	}
	if !entry.Amount.Equal(mustDecimal(t, "200000")) {
		t.Errorf("entry amount = %s, want 200000", entry.Amount)
	}
}

// An overpayment clamps the balance to zero instead of going negative.
func TestRecordCustomerPaymentOverpay(t *testing.T) {
	f := setup(t)
	f.importStock(t, "10")
	order := f.newOrder(t, "10", true) // 50000 debt
	if _, err := workflow.ConfirmOrder(f.ctx, order.ID); err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	_, err := workflow.RecordCustomerPayment(f.ctx, &models.NewCustomerPayment{
		CustomerId: f.customer.ID,
		Amount:     mustDecimal(t, "80000"),
	})
	if err != nil {
		t.Fatalf("RecordCustomerPayment: %v", err)
	}
	if !f.debt(t).IsZero() {
		t.Errorf("debt = %s, want 0", f.debt(t))
	}
}

func TestRecordCustomerPaymentValidation(t *testing.T) {
	f := setup(t)

	_, err := workflow.RecordCustomerPayment(f.ctx, &models.NewCustomerPayment{
		CustomerId: f.customer.ID,
		Amount:     mustDecimal(t, "0"),
	})
	if !utils.IsCode(err, utils.CodeValidationError) {
		t.Errorf("zero amount = %v, want %s", err, utils.CodeValidationError)
	}

	_, err = workflow.RecordCustomerPayment(f.ctx, &models.NewCustomerPayment{
		CustomerId: 9999,
		Amount:     mustDecimal(t, "100"),
	})
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("unknown customer = %v, want %s", err, utils.CodeNotFound)
	}
}
