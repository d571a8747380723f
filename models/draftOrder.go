package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftOrder holds an externally parsed order candidate awaiting staff
// review. Parsing happens outside this service; we store the source text
// and the structured candidate as-is. Confirming a draft creates a real
// order through the coordinator and links it back here.
type DraftOrder struct {
	ID              int              `gorm:"primary_key" json:"id"`
	StoreId         int              `gorm:"index;not null" json:"store_id"`
	SourceText      string           `gorm:"type:text" json:"source_text"`
	ParsedData      json.RawMessage  `gorm:"type:json" json:"parsed_data"`
	Warnings        json.RawMessage  `gorm:"type:json" json:"warnings"`
	Status          DraftOrderStatus `gorm:"size:20;index;not null" json:"status"`
	OrderId         *int             `gorm:"index" json:"order_id"`
	RejectReason    string           `gorm:"type:text" json:"reject_reason"`
	CreatedByUserId int              `gorm:"not null" json:"created_by_user_id"`
	ReviewedBy      *int             `json:"reviewed_by"`
	ReviewedAt      *time.Time       `json:"reviewed_at"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDraftOrder struct {
	SourceText string          `json:"source_text" binding:"required"`
	ParsedData json.RawMessage `json:"parsed_data" binding:"required"`
	Warnings   json.RawMessage `json:"warnings"`
}

func CreateDraftOrder(ctx context.Context, storeId, userId int, input *NewDraftOrder) (*DraftOrder, error) {
	var candidate NewOrder
	if err := json.Unmarshal(input.ParsedData, &candidate); err != nil {
		return nil, utils.ValidationError("parsed_data is not a valid order candidate")
	}

	draft := DraftOrder{
		StoreId:         storeId,
		SourceText:      input.SourceText,
		ParsedData:      input.ParsedData,
		Warnings:        input.Warnings,
		Status:          DraftOrderStatusDraft,
		CreatedByUserId: userId,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// LockDraftOrder fetches the draft under a row lock so concurrent
// confirm/reject calls serialize.
func LockDraftOrder(tx *gorm.DB, storeId, draftId int) (*DraftOrder, error) {
	var draft DraftOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ?", storeId).
		First(&draft, draftId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.NotFoundError("draft order")
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Candidate decodes the stored parsed payload into an order input.
func (d *DraftOrder) Candidate() (*NewOrder, error) {
	var candidate NewOrder
	if err := json.Unmarshal(d.ParsedData, &candidate); err != nil {
		return nil, utils.ValidationError("draft %d holds a malformed order candidate", d.ID)
	}
	return &candidate, nil
}

// MarkConfirmed links the created order. Fails once the draft has left
// the draft state: each draft produces at most one order.
func (d *DraftOrder) MarkConfirmed(tx *gorm.DB, orderId, userId int, at time.Time) error {
	if d.Status != DraftOrderStatusDraft {
		return utils.NewAppError(utils.CodeDraftProcessed, "draft order has already been processed")
	}
	d.Status = DraftOrderStatusConfirmed
	d.OrderId = &orderId
	d.ReviewedBy = &userId
	d.ReviewedAt = &at
	return tx.Model(d).Updates(map[string]any{
		"status":      d.Status,
		"order_id":    d.OrderId,
		"reviewed_by": d.ReviewedBy,
		"reviewed_at": d.ReviewedAt,
	}).Error
}

func (d *DraftOrder) MarkRejected(tx *gorm.DB, reason string, userId int, at time.Time) error {
	if d.Status != DraftOrderStatusDraft {
		return utils.NewAppError(utils.CodeDraftProcessed, "draft order has already been processed")
	}
	d.Status = DraftOrderStatusRejected
	d.RejectReason = reason
	d.ReviewedBy = &userId
	d.ReviewedAt = &at
	return tx.Model(d).Updates(map[string]any{
		"status":        d.Status,
		"reject_reason": d.RejectReason,
		"reviewed_by":   d.ReviewedBy,
		"reviewed_at":   d.ReviewedAt,
	}).Error
}

func GetDraftOrder(ctx context.Context, storeId, id int) (*DraftOrder, error) {
	draft, err := utils.FetchModel[DraftOrder](ctx, storeId, id)
	if err != nil {
		return nil, utils.NotFoundError("draft order")
	}
	return draft, nil
}

func GetDraftOrders(ctx context.Context, storeId int, status DraftOrderStatus, page, limit int) ([]*DraftOrder, int64, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&DraftOrder{}).Where("store_id = ?", storeId)
	if status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var drafts []*DraftOrder
	err := dbCtx.Order("id DESC").Offset(pageOffset(page, limit)).Limit(limit).Find(&drafts).Error
	if err != nil {
		return nil, 0, err
	}
	return drafts, total, nil
}
