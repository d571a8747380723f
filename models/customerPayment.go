package models

import (
	"context"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerPayment records money received against a customer's debt.
// Created only through the payment workflow, inside the same transaction
// as the debt reduction and its payment_in ledger entry.
type CustomerPayment struct {
	ID              int             `gorm:"primary_key" json:"id"`
	StoreId         int             `gorm:"index;not null" json:"store_id"`
	CustomerId      int             `gorm:"index;not null" json:"customer_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method          PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedByUserId int             `gorm:"not null" json:"created_by_user_id"`
	CorrelationId   string          `gorm:"size:36;index" json:"correlation_id"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewCustomerPayment struct {
	CustomerId int             `json:"customer_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Method     PaymentMethod   `json:"method"`
	Notes      string          `json:"notes"`
}

func (input *NewCustomerPayment) Validate() error {
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return utils.ValidationError("payment amount must be positive")
	}
	switch input.Method {
	case "", PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard:
	default:
		return utils.ValidationError("unknown payment method %s", input.Method)
	}
	return nil
}

func CreateCustomerPayment(tx *gorm.DB, payment *CustomerPayment) error {
	return tx.Create(payment).Error
}

func GetCustomerPayments(ctx context.Context, storeId, customerId int, page, limit int) ([]*CustomerPayment, int64, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&CustomerPayment{}).Where("store_id = ?", storeId)
	if customerId != 0 {
		dbCtx = dbCtx.Where("customer_id = ?", customerId)
	}
	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var payments []*CustomerPayment
	err := dbCtx.Order("id DESC").Offset(pageOffset(page, limit)).Limit(limit).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
