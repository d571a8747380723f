package models

import (
	"log"

	"github.com/bizflowhq/bizflow_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Store{}, &User{},
		&Product{}, &ProductUnit{},
		&InventoryMovement{}, &StockSummary{},
		&Customer{}, &CustomerPayment{},
		&LedgerEntry{},
		&Order{}, &OrderLine{}, &OrderNumberSequence{},
		&DraftOrder{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
