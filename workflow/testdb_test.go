package workflow_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/bizflowhq/bizflow_backend/workflow"
	"github.com/shopspring/decimal"
)

type fixtures struct {
	ctx      context.Context
	owner    *models.User
	store    *models.Store
	product  *models.Product
	baseUnit *models.ProductUnit
	customer *models.Customer
}

// setup connects a fresh sqlite database and seeds an owner, store,
// product (base unit, price 5000) and a customer without a debt limit.
func setup(t *testing.T) *fixtures {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	if err := config.ConnectSqliteDatabase(dsn); err != nil {
		t.Fatalf("ConnectSqliteDatabase: %v", err)
	}
	models.MigrateTable()

	ctx := context.Background()
	owner, err := models.CreateUser(ctx, &models.NewUser{
		Email:    "owner@test.local",
		Password: "secret1",
		FullName: "Test Owner",
		Role:     models.RoleOwner,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	store, err := models.CreateStore(ctx, &models.NewStore{
		Name:    "Test Store",
		OwnerId: owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}

	ctx = utils.SetUserIdInContext(ctx, owner.ID)
	ctx = utils.SetStoreIdInContext(ctx, store.ID)

	product, err := models.CreateProduct(ctx, store.ID, &models.NewProduct{
		Name: "Rice 5kg",
		Units: []models.NewProductUnit{
			{UnitName: "bag", Price: decimal.NewFromInt(5000), CostPrice: decimal.NewFromInt(4000)},
		},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	customer, err := models.CreateCustomer(ctx, store.ID, &models.NewCustomer{
		Name: "Nguyen Van A",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	return &fixtures{
		ctx:      ctx,
		owner:    owner,
		store:    store,
		product:  product,
		baseUnit: &product.Units[0],
		customer: customer,
	}
}

func (f *fixtures) importStock(t *testing.T, qty string) {
	t.Helper()
	_, err := workflow.ImportStock(f.ctx, &workflow.StockImportInput{
		ProductUnitId: f.baseUnit.ID,
		Quantity:      mustDecimal(t, qty),
	})
	if err != nil {
		t.Fatalf("ImportStock(%s): %v", qty, err)
	}
}

func (f *fixtures) newOrder(t *testing.T, qty string, credit bool) *models.Order {
	t.Helper()
	input := &models.NewOrder{
		IsCredit: credit,
		Lines: []models.NewOrderLine{
			{ProductUnitId: f.baseUnit.ID, Quantity: mustDecimal(t, qty)},
		},
	}
	if credit {
		input.CustomerId = &f.customer.ID
	}
	order, err := workflow.CreateOrder(f.ctx, input)
	if err != nil {
		t.Fatalf("CreateOrder(qty=%s credit=%v): %v", qty, credit, err)
	}
	return order
}

func (f *fixtures) stock(t *testing.T) decimal.Decimal {
	t.Helper()
	stock, err := models.CurrentStock(f.ctx, f.store.ID, f.product.ID)
	if err != nil {
		t.Fatalf("CurrentStock: %v", err)
	}
	return stock
}

func (f *fixtures) debt(t *testing.T) decimal.Decimal {
	t.Helper()
	balance, err := models.CustomerDebtBalance(f.ctx, f.store.ID, f.customer.ID)
	if err != nil {
		t.Fatalf("CustomerDebtBalance: %v", err)
	}
	return balance
}

func (f *fixtures) ledgerCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := config.GetDB().Model(&models.LedgerEntry{}).Where("store_id = ?", f.store.ID).Count(&count).Error; err != nil {
		t.Fatalf("count ledger entries: %v", err)
	}
	return count
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
