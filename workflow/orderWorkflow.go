package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxPostingRetries = 3

// actingContext resolves the current user, target store, and correlation
// id shared by every workflow entry point.
func actingContext(ctx context.Context) (*models.User, int, string, error) {
	user, err := models.CurrentUser(ctx)
	if err != nil {
		return nil, 0, "", err
	}
	storeId, ok := utils.GetStoreIdFromContext(ctx)
	if !ok || storeId == 0 {
		return nil, 0, "", utils.ValidationError("store not resolved from request")
	}
	if !user.CanAccessStore(ctx, storeId) {
		return nil, 0, "", utils.AuthorizationError("no access to this store")
	}
	correlationId, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || correlationId == "" {
		correlationId = uuid.NewString()
	}
	return user, storeId, correlationId, nil
}

// buildOrder validates and prices the input into an unsaved NEW order.
// Shared by direct creation and draft confirmation. dbtx is whatever
// handle the caller is on, plain or transactional.
func buildOrder(dbtx *gorm.DB, user *models.User, storeId int, input *models.NewOrder) (*models.Order, error) {
	if input.IsCredit && input.CustomerId == nil {
		return nil, utils.ValidationError("credit sale requires a customer")
	}
	if input.CustomerId != nil {
		if _, err := models.GetCustomerTx(dbtx, storeId, *input.CustomerId); err != nil {
			return nil, err
		}
	}
	if len(input.Lines) == 0 {
		return nil, utils.ValidationError("order needs at least one line")
	}

	lines := make([]models.OrderLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.Quantity.IsNegative() || l.Quantity.IsZero() {
			return nil, utils.ValidationError("line quantity must be positive")
		}
		if l.Discount.IsNegative() {
			return nil, utils.ValidationError("line discount cannot be negative")
		}
		unit, product, err := models.GetProductUnitTx(dbtx, l.ProductUnitId)
		if err != nil {
			return nil, err
		}
		if product.StoreId != storeId {
			return nil, utils.ValidationError("product unit %d does not belong to this store", l.ProductUnitId)
		}
		unitPrice := unit.Price
		if l.UnitPrice != nil {
			if l.UnitPrice.IsNegative() {
				return nil, utils.ValidationError("line unit price cannot be negative")
			}
			unitPrice = *l.UnitPrice
		}
		lineTotal := models.ComputeLineTotal(l.Quantity, unitPrice, l.Discount)
		if lineTotal.IsNegative() {
			return nil, utils.ValidationError("discount exceeds line amount for product %s", product.Name)
		}
		lines = append(lines, models.OrderLine{
			ProductId:     product.ID,
			ProductUnitId: unit.ID,
			ProductName:   product.Name,
			UnitName:      unit.UnitName,
			Quantity:      l.Quantity,
			UnitPrice:     unitPrice,
			Discount:      l.Discount,
			LineTotal:     lineTotal,
		})
	}

	order := models.Order{
		StoreId:         storeId,
		CustomerId:      input.CustomerId,
		Status:          models.OrderStatusNew,
		IsCredit:        input.IsCredit,
		Notes:           input.Notes,
		CreatedByUserId: user.ID,
		Lines:           lines,
	}
	order.RecomputeTotal()
	if !order.IsCredit {
		order.PaidAmount = order.TotalAmount
	}
	return &order, nil
}

// persistNewOrder claims a number and inserts inside tx.
func persistNewOrder(tx *gorm.DB, order *models.Order) error {
	number, err := models.ClaimOrderNumber(tx, order.StoreId, time.Now().UTC())
	if err != nil {
		return err
	}
	order.OrderNumber = number
	return tx.Create(order).Error
}

// CreateOrder validates the input, prices the lines, claims an order
// number, and persists the order as NEW. A NEW order has zero effect on
// stock, debt, or the ledger until confirmed.
func CreateOrder(ctx context.Context, input *models.NewOrder) (*models.Order, error) {
	logger := config.GetLogger()
	user, storeId, _, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	order, err := buildOrder(db.WithContext(ctx), user, storeId, input)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxPostingRetries; attempt++ {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return persistNewOrder(tx, order)
		})
		if err == nil {
			return order, nil
		}
		if !isDuplicateKey(err) {
			config.LogError(logger, "orderWorkflow.go", "CreateOrder", "CreateTransaction", order.OrderNumber, err)
			return nil, err
		}
		order.ID = 0
		for i := range order.Lines {
			order.Lines[i].ID = 0
			order.Lines[i].OrderId = 0
		}
	}
	return nil, utils.ConflictError("could not allocate a unique order number, retry")
}

// ConfirmOrder posts the order in one transaction under the per-store
// posting lock: feasibility across every line first (all-or-nothing),
// then one negative movement per line, exactly one ledger entry for the
// total, the debt increase for credit sales, and the status flip.
func ConfirmOrder(ctx context.Context, orderId int) (*models.Order, error) {
	logger := config.GetLogger()
	user, storeId, correlationId, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var order *models.Order
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		release, err := AcquireStorePostingLock(ctx, tx, storeId)
		if err != nil {
			return err
		}
		defer release()

		order, err = models.LockOrder(tx, storeId, orderId)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := order.MarkConfirmed(user.ID, now); err != nil {
			return err
		}

		// Feasibility across all lines before any write. Quantities are
		// folded per product so two lines of the same product cannot each
		// pass against the same stock.
		type lineNeed struct {
			baseQty  decimal.Decimal
			unitCost decimal.Decimal
		}
		needs := make([]lineNeed, 0, len(order.Lines))
		needByProduct := make(map[int]decimal.Decimal)
		for _, line := range order.Lines {
			unit, _, err := models.GetProductUnitTx(tx, line.ProductUnitId)
			if err != nil {
				return err
			}
			baseQty := models.ConvertToBaseUnits(line.Quantity, unit)
			needs = append(needs, lineNeed{baseQty: baseQty, unitCost: unit.CostPrice})
			needByProduct[unit.ProductId] = needByProduct[unit.ProductId].Add(baseQty)
		}
		for productId, needed := range needByProduct {
			stock, err := models.CurrentStockForUpdate(tx, storeId, productId)
			if err != nil {
				return err
			}
			if stock.LessThan(needed) {
				return utils.InsufficientStockError(
					"product %d has %s in stock, order needs %s", productId, stock, needed)
			}
		}

		for i, line := range order.Lines {
			movement := models.InventoryMovement{
				StoreId:         storeId,
				ProductId:       line.ProductId,
				ProductUnitId:   line.ProductUnitId,
				QtyChange:       needs[i].baseQty.Neg(),
				RefType:         models.MovementRefOrder,
				RefId:           order.ID,
				UnitCost:        needs[i].unitCost,
				CreatedByUserId: user.ID,
				CorrelationId:   correlationId,
			}
			if err := models.AppendMovement(tx, &movement); err != nil {
				return err
			}
		}

		entryType := models.LedgerEntryTypeRevenue
		description := fmt.Sprintf("Order %s", order.OrderNumber)
		if order.IsCredit {
			entryType = models.LedgerEntryTypeDebtIn
			description = fmt.Sprintf("Order %s (credit)", order.OrderNumber)
			if _, err := models.AddCustomerDebt(tx, storeId, *order.CustomerId, order.TotalAmount); err != nil {
				return err
			}
		}
		entryDate, err := utils.ConvertToDate(now, "")
		if err != nil {
			return err
		}
		entry := models.LedgerEntry{
			StoreId:         storeId,
			EntryType:       entryType,
			RefType:         models.LedgerRefOrder,
			RefId:           order.ID,
			Amount:          order.TotalAmount,
			Description:     description,
			EntryDate:       entryDate,
			CreatedByUserId: user.ID,
			CorrelationId:   correlationId,
		}
		if err := models.AppendLedgerEntry(tx, &entry); err != nil {
			return err
		}

		return tx.Model(order).Updates(map[string]any{
			"status":               order.Status,
			"confirmed_by_user_id": order.ConfirmedByUserId,
			"confirmed_at":         order.ConfirmedAt,
		}).Error
	})
	if err != nil {
		if utils.ErrorCode(err) == "" {
			config.LogError(logger, "orderWorkflow.go", "ConfirmOrder", "ConfirmTransaction", orderId, err)
		}
		return nil, err
	}
	return order, nil
}

// CancelOrder reverses a confirmed order or discards a new one.
// Confirmed orders get one positive movement per line and, for credit
// sales, a clamped debt reduction with its debt_out entry. Completed
// orders cannot be canceled.
func CancelOrder(ctx context.Context, orderId int, reason string) (*models.Order, error) {
	logger := config.GetLogger()
	user, storeId, correlationId, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var order *models.Order
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		release, err := AcquireStorePostingLock(ctx, tx, storeId)
		if err != nil {
			return err
		}
		defer release()

		order, err = models.LockOrder(tx, storeId, orderId)
		if err != nil {
			return err
		}
		if order.Status == models.OrderStatusCompleted {
			return utils.ValidationError("completed orders cannot be canceled")
		}
		wasConfirmed := order.Status == models.OrderStatusConfirmed
		if err := order.MarkCanceled(); err != nil {
			return err
		}

		if wasConfirmed {
			for _, line := range order.Lines {
				unit, _, err := models.GetProductUnitTx(tx, line.ProductUnitId)
				if err != nil {
					return err
				}
				movement := models.InventoryMovement{
					StoreId:         storeId,
					ProductId:       line.ProductId,
					ProductUnitId:   line.ProductUnitId,
					QtyChange:       models.ConvertToBaseUnits(line.Quantity, unit),
					RefType:         models.MovementRefOrderCancel,
					RefId:           order.ID,
					UnitCost:        unit.CostPrice,
					CreatedByUserId: user.ID,
					CorrelationId:   correlationId,
				}
				if err := models.AppendMovement(tx, &movement); err != nil {
					return err
				}
			}

			now := time.Now().UTC()
			entryDate, err := utils.ConvertToDate(now, "")
			if err != nil {
				return err
			}
			entryType := models.LedgerEntryTypeExpense
			if order.IsCredit {
				entryType = models.LedgerEntryTypeDebtOut
				if _, err := models.ReduceCustomerDebt(tx, storeId, *order.CustomerId, order.TotalAmount); err != nil {
					return err
				}
			}
			entry := models.LedgerEntry{
				StoreId:         storeId,
				EntryType:       entryType,
				RefType:         models.LedgerRefOrder,
				RefId:           order.ID,
				Amount:          order.TotalAmount,
				Description:     fmt.Sprintf("Cancel order %s", order.OrderNumber),
				EntryDate:       entryDate,
				CreatedByUserId: user.ID,
				CorrelationId:   correlationId,
			}
			if err := models.AppendLedgerEntry(tx, &entry); err != nil {
				return err
			}
		}

		if reason != "" {
			if order.Notes != "" {
				order.Notes += "\n"
			}
			order.Notes += "Canceled: " + reason
		}
		return tx.Model(order).Updates(map[string]any{
			"status": order.Status,
			"notes":  order.Notes,
		}).Error
	})
	if err != nil {
		if utils.ErrorCode(err) == "" {
			config.LogError(logger, "orderWorkflow.go", "CancelOrder", "CancelTransaction", orderId, err)
		}
		return nil, err
	}
	return order, nil
}

// CompleteOrder is a pure status flip, CONFIRMED -> COMPLETED. All
// financial and stock effects already happened at confirmation.
func CompleteOrder(ctx context.Context, orderId int) (*models.Order, error) {
	_, storeId, _, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var order *models.Order
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err = models.LockOrder(tx, storeId, orderId)
		if err != nil {
			return err
		}
		if err := order.MarkCompleted(); err != nil {
			return err
		}
		return tx.Model(order).Update("status", order.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// isDuplicateKey detects unique-index violations on both backends.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "Duplicate entry")
}
