package models_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
)

// setupTestDB points the global connection at a fresh sqlite database.
// One connection means transactions serialize like a single-writer MySQL.
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	if err := config.ConnectSqliteDatabase(dsn); err != nil {
		t.Fatalf("ConnectSqliteDatabase: %v", err)
	}
	models.MigrateTable()
}

type fixtures struct {
	ctx      context.Context
	owner    *models.User
	store    *models.Store
	product  *models.Product
	baseUnit *models.ProductUnit
	customer *models.Customer
}

// seedStore creates an owner, a store, a product with a base unit, and a
// customer, and returns a context acting as the owner on that store.
func seedStore(t *testing.T) *fixtures {
	t.Helper()
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
		Sku:  "RICE-5",
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

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
