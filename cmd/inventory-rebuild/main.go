// inventory-rebuild recomputes stock summaries from the movement log.
// The movement log is the source of truth; run this after manual data
// surgery or if a summary is suspected to have drifted.
//
// Usage:
//
//	go run ./cmd/inventory-rebuild -store-id 12
//	go run ./cmd/inventory-rebuild          # all stores
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
)

func main() {
	storeId := flag.Int("store-id", 0, "Optional: rebuild only one store. If 0, rebuilds all stores.")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	var storeIds []int
	if *storeId != 0 {
		storeIds = []int{*storeId}
	} else {
		if err := db.WithContext(ctx).Model(&models.Store{}).Pluck("id", &storeIds).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to list stores: %v\n", err)
			os.Exit(1)
		}
	}
	if len(storeIds) == 0 {
		fmt.Fprintln(os.Stderr, "no stores found to rebuild")
		return
	}

	for _, id := range storeIds {
		if err := models.RebuildStockSummaries(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "store %d: rebuild failed: %v\n", id, err)
			os.Exit(1)
		}
		fmt.Printf("store %d: stock summaries rebuilt\n", id)
	}
}
