package models_test

import (
	"testing"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func appendMovement(t *testing.T, f *fixtures, qty string) {
	t.Helper()
	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		return models.AppendMovement(tx, &models.InventoryMovement{
			StoreId:         f.store.ID,
			ProductId:       f.product.ID,
			ProductUnitId:   f.baseUnit.ID,
			QtyChange:       mustDecimal(t, qty),
			RefType:         models.MovementRefAdjustment,
			RefId:           1,
			CreatedByUserId: f.owner.ID,
		})
	})
	if err != nil {
		t.Fatalf("AppendMovement(%s): %v", qty, err)
	}
}

// The movement log is the source of truth: the cached summary and the
// projected sum must agree after any sequence of movements.
func TestStockSummaryMatchesProjection(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	for _, qty := range []string{"100", "-30", "2.5", "-0.5"} {
		appendMovement(t, f, qty)
	}

	want := mustDecimal(t, "72")
	cached, err := models.CurrentStock(f.ctx, f.store.ID, f.product.ID)
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if !cached.Equal(want) {
		t.Errorf("cached stock = %s, want %s", cached, want)
	}

	projected, err := models.ProjectStock(f.ctx, f.store.ID, f.product.ID)
	if err != nil {
		t.Fatalf("ProjectStock: %v", err)
	}
	if !projected.Equal(cached) {
		t.Errorf("projection %s != cached %s", projected, cached)
	}
}

func TestAppendMovementRejectsZeroQty(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		return models.AppendMovement(tx, &models.InventoryMovement{
			StoreId:         f.store.ID,
			ProductId:       f.product.ID,
			QtyChange:       decimal.Zero,
			CreatedByUserId: f.owner.ID,
		})
	})
	if !utils.IsCode(err, utils.CodeValidationError) {
		t.Errorf("zero qty error = %v, want %s", err, utils.CodeValidationError)
	}
}

func TestProjectStockEmptyLog(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	stock, err := models.ProjectStock(f.ctx, f.store.ID, f.product.ID)
	if err != nil {
		t.Fatalf("ProjectStock: %v", err)
	}
	if !stock.IsZero() {
		t.Errorf("empty log stock = %s, want 0", stock)
	}
}

func TestRebuildStockSummariesFixesDrift(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	appendMovement(t, f, "50")
	appendMovement(t, f, "-10")

	// Corrupt the cache directly; rebuild must restore it from the log.
	db := config.GetDB()
	err := db.Model(&models.StockSummary{}).
		Where("store_id = ? AND product_id = ?", f.store.ID, f.product.ID).
		Update("current_qty", 999).Error
	if err != nil {
		t.Fatalf("corrupt summary: %v", err)
	}

	if err := models.RebuildStockSummaries(f.ctx, f.store.ID); err != nil {
		t.Fatalf("RebuildStockSummaries: %v", err)
	}

	cached, err := models.CurrentStock(f.ctx, f.store.ID, f.product.ID)
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	if !cached.Equal(mustDecimal(t, "40")) {
		t.Errorf("rebuilt stock = %s, want 40", cached)
	}
}

func TestConvertToBaseUnits(t *testing.T) {
	unit := &models.ProductUnit{ConversionFactor: mustDecimal(t, "0.5")}
	got := models.ConvertToBaseUnits(mustDecimal(t, "3"), unit)
	if !got.Equal(mustDecimal(t, "1.5")) {
		t.Errorf("converted = %s, want 1.5", got)
	}
}

func TestWouldSatisfy(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)
	appendMovement(t, f, "10")

	boxUnit := models.ProductUnit{
		ProductId:        f.product.ID,
		UnitName:         "box",
		Price:            mustDecimal(t, "48000"),
		ConversionFactor: mustDecimal(t, "10"),
	}
	if err := config.GetDB().Create(&boxUnit).Error; err != nil {
		t.Fatalf("create box unit: %v", err)
	}

	ok, err := models.WouldSatisfy(f.ctx, f.store.ID, &boxUnit, mustDecimal(t, "1"))
	if err != nil {
		t.Fatalf("WouldSatisfy: %v", err)
	}
	if !ok {
		t.Error("one box of ten should fit in stock of ten")
	}

	ok, err = models.WouldSatisfy(f.ctx, f.store.ID, &boxUnit, mustDecimal(t, "1.1"))
	if err != nil {
		t.Fatalf("WouldSatisfy: %v", err)
	}
	if ok {
		t.Error("1.1 boxes must not fit in stock of ten")
	}
}
