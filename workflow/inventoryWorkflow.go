package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockImportInput struct {
	ProductUnitId int             `json:"product_unit_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Notes         string          `json:"notes"`
	// RecordExpense writes an inventory_in ledger entry valued at cost.
	RecordExpense bool `json:"record_expense"`
}

// ImportStock appends a positive movement for received goods and, when
// asked, the inventory_in ledger entry valued at cost, in one tx.
func ImportStock(ctx context.Context, input *StockImportInput) (*models.InventoryMovement, error) {
	logger := config.GetLogger()
	user, storeId, correlationId, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}
	if input.Quantity.IsNegative() || input.Quantity.IsZero() {
		return nil, utils.ValidationError("import quantity must be positive")
	}
	if input.UnitCost.IsNegative() {
		return nil, utils.ValidationError("unit cost cannot be negative")
	}

	unit, product, err := models.GetProductUnit(ctx, input.ProductUnitId)
	if err != nil {
		return nil, err
	}
	if product.StoreId != storeId {
		return nil, utils.ValidationError("product unit %d does not belong to this store", input.ProductUnitId)
	}

	unitCost := input.UnitCost
	if unitCost.IsZero() {
		unitCost = unit.CostPrice
	}
	baseQty := models.ConvertToBaseUnits(input.Quantity, unit)

	movement := models.InventoryMovement{
		StoreId:         storeId,
		ProductId:       product.ID,
		ProductUnitId:   unit.ID,
		QtyChange:       baseQty,
		RefType:         models.MovementRefImport,
		UnitCost:        unitCost,
		Notes:           input.Notes,
		CreatedByUserId: user.ID,
		CorrelationId:   correlationId,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := models.AppendMovement(tx, &movement); err != nil {
			return err
		}
		if !input.RecordExpense {
			return nil
		}
		entryDate, err := utils.ConvertToDate(time.Now().UTC(), "")
		if err != nil {
			return err
		}
		entry := models.LedgerEntry{
			StoreId:         storeId,
			EntryType:       models.LedgerEntryTypeInventoryIn,
			RefType:         models.LedgerRefInventory,
			RefId:           movement.ID,
			Amount:          input.Quantity.Mul(unitCost),
			Description:     fmt.Sprintf("Stock import: %s", product.Name),
			EntryDate:       entryDate,
			CreatedByUserId: user.ID,
			CorrelationId:   correlationId,
		}
		return models.AppendLedgerEntry(tx, &entry)
	})
	if err != nil {
		if utils.ErrorCode(err) == "" {
			config.LogError(logger, "inventoryWorkflow.go", "ImportStock", "ImportTransaction", input.ProductUnitId, err)
		}
		return nil, err
	}
	return &movement, nil
}
