package models_test

import (
	"testing"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"gorm.io/gorm"
)

func claimNumber(t *testing.T, storeId int, at time.Time) string {
	t.Helper()
	var number string
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = models.ClaimOrderNumber(tx, storeId, at)
		return err
	})
	if err != nil {
		t.Fatalf("ClaimOrderNumber: %v", err)
	}
	return number
}

func TestClaimOrderNumberSequences(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	day := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	first := claimNumber(t, f.store.ID, day)
	second := claimNumber(t, f.store.ID, day)
	third := claimNumber(t, f.store.ID, day)

	want := models.FormatOrderNumber(f.store.ID, "260825", 1)
	if first != want {
		t.Errorf("first = %s, want %s", first, want)
	}
	if second == first || third == second {
		t.Errorf("numbers must be unique: %s %s %s", first, second, third)
	}
	if third != models.FormatOrderNumber(f.store.ID, "260825", 3) {
		t.Errorf("third = %s, want seq 3", third)
	}
}

func TestClaimOrderNumberResetsPerDay(t *testing.T) {
	setupTestDB(t)
	f := seedStore(t)

	day1 := time.Date(2026, 8, 25, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 26, 1, 0, 0, 0, time.UTC)

	claimNumber(t, f.store.ID, day1)
	claimNumber(t, f.store.ID, day1)
	next := claimNumber(t, f.store.ID, day2)

	if next != models.FormatOrderNumber(f.store.ID, "260826", 1) {
		t.Errorf("new day number = %s, want seq 1 of 260826", next)
	}
}
