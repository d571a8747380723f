package models

import (
	"context"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryMovement is the append-only stock ledger. Rows are immutable:
// there is no update or delete path anywhere in the codebase, and current
// stock for a product is defined as the sum of its movements. QtyChange is
// signed and expressed in the product's base unit (positive = stock in).
type InventoryMovement struct {
	ID              int             `gorm:"primary_key" json:"id"`
	StoreId         int             `gorm:"index;not null" json:"store_id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	ProductUnitId   int             `gorm:"index" json:"product_unit_id"`
	QtyChange       decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"qty_change"`
	RefType         MovementRefType `gorm:"size:50;index" json:"ref_type"`
	RefId           int             `gorm:"index" json:"ref_id"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"unit_cost"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedByUserId int             `gorm:"not null" json:"created_by_user_id"`
	CorrelationId   string          `gorm:"size:36;index" json:"correlation_id"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// StockSummary caches the running total per (store, product). It is never
// written outside the same transaction that inserts the movement, so it can
// never drift from the movement log. The log remains the source of truth;
// cmd/inventory-rebuild recomputes summaries from it.
type StockSummary struct {
	StoreId    int             `gorm:"primaryKey;autoIncrement:false" json:"store_id"`
	ProductId  int             `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	CurrentQty decimal.Decimal `gorm:"type:decimal(15,4);not null;default:0" json:"current_qty"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// AppendMovement inserts a movement and folds it into the cached summary
// within the caller's transaction. The summary row is locked FOR UPDATE so
// concurrent confirmations on the same product serialize here.
func AppendMovement(tx *gorm.DB, m *InventoryMovement) error {
	if m.QtyChange.IsZero() {
		return utils.ValidationError("movement qty change cannot be zero")
	}
	if err := tx.Create(m).Error; err != nil {
		return err
	}

	summary, err := lockStockSummary(tx, m.StoreId, m.ProductId)
	if err != nil {
		return err
	}
	summary.CurrentQty = summary.CurrentQty.Add(m.QtyChange)
	return tx.Save(summary).Error
}

// lockStockSummary fetches (or creates) the summary row under a row lock.
func lockStockSummary(tx *gorm.DB, storeId, productId int) (*StockSummary, error) {
	var summary StockSummary
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND product_id = ?", storeId, productId).
		First(&summary).Error
	if err == gorm.ErrRecordNotFound {
		summary = StockSummary{StoreId: storeId, ProductId: productId, CurrentQty: decimal.Zero}
		if err := tx.Create(&summary).Error; err != nil {
			return nil, err
		}
		return &summary, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// CurrentStock reads the cached running total for a product.
func CurrentStock(ctx context.Context, storeId, productId int) (decimal.Decimal, error) {
	db := config.GetDB()
	return currentStockTx(db.WithContext(ctx), storeId, productId, false)
}

// CurrentStockForUpdate reads the running total under a row lock, inside
// the caller's transaction. Used by the feasibility check in confirm.
func CurrentStockForUpdate(tx *gorm.DB, storeId, productId int) (decimal.Decimal, error) {
	return currentStockTx(tx, storeId, productId, true)
}

func currentStockTx(tx *gorm.DB, storeId, productId int, forUpdate bool) (decimal.Decimal, error) {
	dbCtx := tx
	if forUpdate {
		dbCtx = dbCtx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var summary StockSummary
	err := dbCtx.Where("store_id = ? AND product_id = ?", storeId, productId).First(&summary).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return summary.CurrentQty, nil
}

// ProjectStock recomputes current stock straight from the movement log.
// This is the defining sum; summaries are checked against it in tests and
// rebuilt from it by cmd/inventory-rebuild.
func ProjectStock(ctx context.Context, storeId, productId int) (decimal.Decimal, error) {
	db := config.GetDB()
	var raw *string
	err := db.WithContext(ctx).Model(&InventoryMovement{}).
		Where("store_id = ? AND product_id = ?", storeId, productId).
		Select("CAST(SUM(qty_change) AS CHAR)").Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	return utils.ConvertToDecimal(*raw)
}

// ConvertToBaseUnits converts a quantity in the given unit into the
// product's base unit using exact decimal arithmetic.
func ConvertToBaseUnits(qty decimal.Decimal, unit *ProductUnit) decimal.Decimal {
	return qty.Mul(unit.ConversionFactor)
}

// WouldSatisfy reports whether the store currently holds at least qty of
// the product, with qty expressed in the given unit.
func WouldSatisfy(ctx context.Context, storeId int, unit *ProductUnit, qty decimal.Decimal) (bool, error) {
	stock, err := CurrentStock(ctx, storeId, unit.ProductId)
	if err != nil {
		return false, err
	}
	return stock.GreaterThanOrEqual(ConvertToBaseUnits(qty, unit)), nil
}

// RebuildStockSummaries recomputes every summary of a store from the
// movement log, inside one transaction. Stale summary rows whose product
// has no movements are reset to zero rather than deleted.
func RebuildStockSummaries(ctx context.Context, storeId int) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type productSum struct {
			ProductId int
			Total     string
		}
		var sums []productSum
		if err := tx.Model(&InventoryMovement{}).
			Where("store_id = ?", storeId).
			Select("product_id, CAST(SUM(qty_change) AS CHAR) AS total").
			Group("product_id").Scan(&sums).Error; err != nil {
			return err
		}

		rebuilt := make(map[int]struct{}, len(sums))
		for _, s := range sums {
			total, err := utils.ConvertToDecimal(s.Total)
			if err != nil {
				return err
			}
			summary, err := lockStockSummary(tx, storeId, s.ProductId)
			if err != nil {
				return err
			}
			summary.CurrentQty = total
			if err := tx.Save(summary).Error; err != nil {
				return err
			}
			rebuilt[s.ProductId] = struct{}{}
		}

		var stale []StockSummary
		if err := tx.Where("store_id = ?", storeId).Find(&stale).Error; err != nil {
			return err
		}
		for i := range stale {
			if _, ok := rebuilt[stale[i].ProductId]; ok {
				continue
			}
			stale[i].CurrentQty = decimal.Zero
			if err := tx.Save(&stale[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetStockLevels returns cached stock per product for a store.
func GetStockLevels(ctx context.Context, storeId int) (map[int]decimal.Decimal, error) {
	db := config.GetDB()
	var summaries []StockSummary
	if err := db.WithContext(ctx).Where("store_id = ?", storeId).Find(&summaries).Error; err != nil {
		return nil, err
	}
	levels := make(map[int]decimal.Decimal, len(summaries))
	for _, s := range summaries {
		levels[s.ProductId] = s.CurrentQty
	}
	return levels, nil
}

// GetMovements lists the movement history for a product, newest first.
func GetMovements(ctx context.Context, storeId, productId int, page, limit int) ([]*InventoryMovement, int64, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&InventoryMovement{}).
		Where("store_id = ? AND product_id = ?", storeId, productId)
	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var movements []*InventoryMovement
	err := dbCtx.Order("id DESC").Offset(pageOffset(page, limit)).Limit(limit).Find(&movements).Error
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
