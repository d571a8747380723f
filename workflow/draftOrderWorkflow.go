package workflow

import (
	"context"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"gorm.io/gorm"
)

// ConfirmDraftOrder turns a reviewed draft into a real NEW order and
// links the two, atomically. The draft row is locked first so two
// reviewers cannot both materialize it. The created order still goes
// through ConfirmOrder separately for its stock and ledger effects.
func ConfirmDraftOrder(ctx context.Context, draftId int, overrides *models.NewOrder) (*models.Order, error) {
	logger := config.GetLogger()
	user, storeId, _, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var order *models.Order
	for attempt := 1; attempt <= maxPostingRetries; attempt++ {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			draft, err := models.LockDraftOrder(tx, storeId, draftId)
			if err != nil {
				return err
			}
			if draft.Status != models.DraftOrderStatusDraft {
				return utils.NewAppError(utils.CodeDraftProcessed, "draft order has already been processed")
			}

			input := overrides
			if input == nil {
				input, err = draft.Candidate()
				if err != nil {
					return err
				}
			}
			order, err = buildOrder(tx, user, storeId, input)
			if err != nil {
				return err
			}
			order.SourceDraftId = &draft.ID
			if err := persistNewOrder(tx, order); err != nil {
				return err
			}
			return draft.MarkConfirmed(tx, order.ID, user.ID, time.Now().UTC())
		})
		if err == nil {
			return order, nil
		}
		if !isDuplicateKey(err) {
			if utils.ErrorCode(err) == "" {
				config.LogError(logger, "draftOrderWorkflow.go", "ConfirmDraftOrder", "ConfirmTransaction", draftId, err)
			}
			return nil, err
		}
	}
	return nil, utils.ConflictError("could not allocate a unique order number, retry")
}

// RejectDraftOrder marks the draft rejected with the reviewer's reason.
func RejectDraftOrder(ctx context.Context, draftId int, reason string) (*models.DraftOrder, error) {
	user, storeId, _, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, utils.ValidationError("reject reason is required")
	}

	db := config.GetDB()
	var draft *models.DraftOrder
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		draft, err = models.LockDraftOrder(tx, storeId, draftId)
		if err != nil {
			return err
		}
		return draft.MarkRejected(tx, reason, user.ID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}
