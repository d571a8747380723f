package workflow_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/bizflowhq/bizflow_backend/workflow"
)

func (f *fixtures) newDraft(t *testing.T, qty string) *models.DraftOrder {
	t.Helper()
	parsed := fmt.Sprintf(`{"lines":[{"product_unit_id":%d,"quantity":"%s"}]}`, f.baseUnit.ID, qty)
	draft, err := models.CreateDraftOrder(f.ctx, f.store.ID, f.owner.ID, &models.NewDraftOrder{
		SourceText: fmt.Sprintf("%s bags of rice please", qty),
		ParsedData: json.RawMessage(parsed),
	})
	if err != nil {
		t.Fatalf("CreateDraftOrder: %v", err)
	}
	return draft
}

func TestConfirmDraftOrderCreatesLinkedOrder(t *testing.T) {
	f := setup(t)
	f.importStock(t, "100")
	draft := f.newDraft(t, "3")

	order, err := workflow.ConfirmDraftOrder(f.ctx, draft.ID, nil)
	if err != nil {
		t.Fatalf("ConfirmDraftOrder: %v", err)
	}
	if order.Status != models.OrderStatusNew {
		t.Errorf("order status = %s, want new", order.Status)
	}
	if order.SourceDraftId == nil || *order.SourceDraftId != draft.ID {
		t.Error("order not linked to draft")
	}
	if !order.TotalAmount.Equal(mustDecimal(t, "15000")) {
		t.Errorf("total = %s, want 15000", order.TotalAmount)
	}

	reloaded, err := models.GetDraftOrder(f.ctx, f.store.ID, draft.ID)
	if err != nil {
		t.Fatalf("GetDraftOrder: %v", err)
	}
	if reloaded.Status != models.DraftOrderStatusConfirmed {
		t.Errorf("draft status = %s, want confirmed", reloaded.Status)
	}
	if reloaded.OrderId == nil || *reloaded.OrderId != order.ID {
		t.Error("draft not linked to order")
	}

	// materializing does not touch stock; only ConfirmOrder does
	if !f.stock(t).Equal(mustDecimal(t, "100")) {
		t.Errorf("stock = %s, want 100", f.stock(t))
	}
}

// Each draft produces at most one order.
func TestConfirmDraftOrderTwice(t *testing.T) {
	f := setup(t)
	f.importStock(t, "100")
	draft := f.newDraft(t, "3")

	if _, err := workflow.ConfirmDraftOrder(f.ctx, draft.ID, nil); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	_, err := workflow.ConfirmDraftOrder(f.ctx, draft.ID, nil)
	if !utils.IsCode(err, utils.CodeDraftProcessed) {
		t.Errorf("second confirm = %v, want %s", err, utils.CodeDraftProcessed)
	}
}

// A corrected payload from the reviewer replaces the parsed candidate.
func TestConfirmDraftOrderWithOverrides(t *testing.T) {
	f := setup(t)
	f.importStock(t, "100")
	draft := f.newDraft(t, "3")

	order, err := workflow.ConfirmDraftOrder(f.ctx, draft.ID, &models.NewOrder{
		Lines: []models.NewOrderLine{
			{ProductUnitId: f.baseUnit.ID, Quantity: mustDecimal(t, "7")},
		},
	})
	if err != nil {
		t.Fatalf("ConfirmDraftOrder: %v", err)
	}
	if !order.TotalAmount.Equal(mustDecimal(t, "35000")) {
		t.Errorf("total = %s, want 35000", order.TotalAmount)
	}
}

func TestRejectDraftOrder(t *testing.T) {
	f := setup(t)
	draft := f.newDraft(t, "3")

	rejected, err := workflow.RejectDraftOrder(f.ctx, draft.ID, "nonsense text")
	if err != nil {
		t.Fatalf("RejectDraftOrder: %v", err)
	}
	if rejected.Status != models.DraftOrderStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if rejected.RejectReason != "nonsense text" {
		t.Errorf("reason = %q", rejected.RejectReason)
	}

	// rejected is terminal
	if _, err := workflow.ConfirmDraftOrder(f.ctx, draft.ID, nil); !utils.IsCode(err, utils.CodeDraftProcessed) {
		t.Errorf("confirm after reject = %v, want %s", err, utils.CodeDraftProcessed)
	}

	if _, err := workflow.RejectDraftOrder(f.ctx, draft.ID, ""); !utils.IsCode(err, utils.CodeValidationError) {
		t.Errorf("empty reason accepted; want %s", utils.CodeValidationError)
	}
}
