package models_test

import (
	"testing"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"gorm.io/gorm"
)

func TestAddCustomerDebtEnforcesLimit(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	limited, err := models.CreateCustomer(f.ctx, f.store.ID, &models.NewCustomer{
		Name:      "Limited",
		DebtLimit: mustDecimal(t, "1000000"),
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	db := config.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := models.AddCustomerDebt(tx, f.store.ID, limited.ID, mustDecimal(t, "800000"))
		return err
	})
	if err != nil {
		t.Fatalf("first AddCustomerDebt: %v", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := models.AddCustomerDebt(tx, f.store.ID, limited.ID, mustDecimal(t, "300000"))
		return err
	})
	if !utils.IsCode(err, utils.CodeInsufficientBalance) {
		t.Errorf("over-limit error = %v, want %s", err, utils.CodeInsufficientBalance)
	}

	// Rejected mutation must not change the balance.
	balance, err := models.CustomerDebtBalance(f.ctx, f.store.ID, limited.ID)
	if err != nil {
		t.Fatalf("CustomerDebtBalance: %v", err)
	}
	if !balance.Equal(mustDecimal(t, "800000")) {
		t.Errorf("balance = %s, want 800000", balance)
	}
}

func TestReduceCustomerDebtClampsAtZero(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := models.AddCustomerDebt(tx, f.store.ID, f.customer.ID, mustDecimal(t, "500000"))
		return err
	})
	if err != nil {
		t.Fatalf("AddCustomerDebt: %v", err)
	}

	// Reduce twice by more than the balance. Second reduce must clamp,
	// never go negative.
	for i := 0; i < 2; i++ {
		err = db.Transaction(func(tx *gorm.DB) error {
			_, err := models.ReduceCustomerDebt(tx, f.store.ID, f.customer.ID, mustDecimal(t, "700000"))
			return err
		})
		if err != nil {
			t.Fatalf("ReduceCustomerDebt #%d: %v", i+1, err)
		}
	}

	balance, err := models.CustomerDebtBalance(f.ctx, f.store.ID, f.customer.ID)
	if err != nil {
		t.Fatalf("CustomerDebtBalance: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("balance = %s, want 0", balance)
	}
}

func TestAddCustomerDebtUnknownCustomer(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		_, err := models.AddCustomerDebt(tx, f.store.ID, 9999, mustDecimal(t, "100"))
		return err
	})
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("unknown customer error = %v, want %s", err, utils.CodeNotFound)
	}
}
