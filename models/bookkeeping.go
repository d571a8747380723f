package models

import (
	"context"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is the regulatory bookkeeping trail. The table is strictly
// append-only: AppendLedgerEntry is the only write path, and nothing in the
// codebase updates or deletes rows. Amount is always non-negative; EntryType
// encodes direction. EntryDate is the reporting date and may differ from
// CreatedAt.
type LedgerEntry struct {
	ID              int             `gorm:"primary_key" json:"id"`
	StoreId         int             `gorm:"index;not null" json:"store_id"`
	EntryType       LedgerEntryType `gorm:"size:20;index;not null" json:"entry_type"`
	RefType         LedgerRefType   `gorm:"size:50;not null" json:"ref_type"`
	RefId           int             `gorm:"index;not null" json:"ref_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description     string          `gorm:"type:text" json:"description"`
	EntryDate       time.Time       `gorm:"index;not null" json:"entry_date"`
	CreatedByUserId int             `gorm:"not null" json:"created_by_user_id"`
	CorrelationId   string          `gorm:"size:36;index" json:"correlation_id"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// AppendLedgerEntry validates well-formedness and inserts within the
// caller's transaction.
func AppendLedgerEntry(tx *gorm.DB, entry *LedgerEntry) error {
	if entry.Amount.IsNegative() {
		return utils.ValidationError("ledger amount cannot be negative")
	}
	if entry.RefType == "" || entry.RefId == 0 {
		return utils.ValidationError("ledger entry requires a source document reference")
	}
	if entry.EntryDate.IsZero() {
		entry.EntryDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return tx.Create(entry).Error
}

type LedgerFilter struct {
	EntryType LedgerEntryType
	RefType   LedgerRefType
	FromDate  *time.Time
	ToDate    *time.Time
}

// GetLedgerEntries is an append-order scan filtered by store/date/type.
// Reporting aggregation happens in the caller.
func GetLedgerEntries(ctx context.Context, storeId int, filter LedgerFilter, page, limit int) ([]*LedgerEntry, int64, error) {
	db := config.GetDB()
	dbCtx := applyLedgerFilter(db.WithContext(ctx).Model(&LedgerEntry{}).Where("store_id = ?", storeId), filter)
	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []*LedgerEntry
	err := dbCtx.Order("id").Offset(pageOffset(page, limit)).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// GetAllLedgerEntries scans without pagination, for exports.
func GetAllLedgerEntries(ctx context.Context, storeId int, filter LedgerFilter) ([]*LedgerEntry, error) {
	db := config.GetDB()
	dbCtx := applyLedgerFilter(db.WithContext(ctx).Model(&LedgerEntry{}).Where("store_id = ?", storeId), filter)
	var entries []*LedgerEntry
	if err := dbCtx.Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func applyLedgerFilter(dbCtx *gorm.DB, filter LedgerFilter) *gorm.DB {
	if filter.EntryType != "" {
		dbCtx = dbCtx.Where("entry_type = ?", filter.EntryType)
	}
	if filter.RefType != "" {
		dbCtx = dbCtx.Where("ref_type = ?", filter.RefType)
	}
	if filter.FromDate != nil {
		dbCtx = dbCtx.Where("entry_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		dbCtx = dbCtx.Where("entry_date <= ?", *filter.ToDate)
	}
	return dbCtx
}
