package models

import (
	"context"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Order is the sale document. Status changes only through the workflow
// package, which resolves every transition against the state machine in
// enums.go. CONFIRMED is the point of no return for stock and debt
// effects; NEW orders have no effects at all.
type Order struct {
	ID                int             `gorm:"primary_key" json:"id"`
	StoreId           int             `gorm:"index;not null" json:"store_id"`
	OrderNumber       string          `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	CustomerId        *int            `gorm:"index" json:"customer_id"`
	Status            OrderStatus     `gorm:"size:20;index;not null" json:"status"`
	IsCredit          bool            `gorm:"not null;default:false" json:"is_credit"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"paid_amount"`
	Notes             string          `gorm:"type:text" json:"notes"`
	SourceDraftId     *int            `gorm:"index" json:"source_draft_id"`
	CreatedByUserId   int             `gorm:"not null" json:"created_by_user_id"`
	ConfirmedByUserId *int            `json:"confirmed_by_user_id"`
	ConfirmedAt       *time.Time      `json:"confirmed_at"`
	Lines             []OrderLine     `gorm:"foreignKey:OrderId" json:"lines"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type OrderLine struct {
	ID            int             `gorm:"primary_key" json:"id"`
	OrderId       int             `gorm:"index;not null" json:"order_id"`
	ProductId     int             `gorm:"index;not null" json:"product_id"`
	ProductUnitId int             `gorm:"not null" json:"product_unit_id"`
	ProductName   string          `gorm:"size:255" json:"product_name"`
	UnitName      string          `gorm:"size:50" json:"unit_name"`
	Quantity      decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Discount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"discount"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewOrder struct {
	CustomerId *int           `json:"customer_id"`
	IsCredit   bool           `json:"is_credit"`
	Notes      string         `json:"notes"`
	Lines      []NewOrderLine `json:"lines" binding:"required,min=1,dive"`
}

type NewOrderLine struct {
	ProductUnitId int              `json:"product_unit_id" binding:"required"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Discount      decimal.Decimal  `json:"discount"`
}

// ComputeLineTotal is the single pricing rule: qty * price - discount.
func ComputeLineTotal(qty, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice).Sub(discount)
}

// RecomputeTotal folds the line totals into TotalAmount.
func (o *Order) RecomputeTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.LineTotal)
	}
	o.TotalAmount = total
}

// RemainingAmount is always derived, never stored.
func (o *Order) RemainingAmount() decimal.Decimal {
	return o.TotalAmount.Sub(o.PaidAmount)
}

// applyEvent resolves the transition table and flips the status. Pure
// status change: callers own the accompanying stock/debt/ledger effects.
func (o *Order) applyEvent(event OrderEvent) error {
	next, ok := NextOrderStatus(o.Status, event)
	if !ok {
		if event == OrderEventConfirm && o.Status == OrderStatusConfirmed {
			return utils.OrderAlreadyConfirmedError()
		}
		return utils.InvalidTransitionError(string(o.Status), string(event))
	}
	o.Status = next
	return nil
}

// MarkConfirmed flips NEW -> CONFIRMED and stamps the confirmer. The
// caller persists the order together with its side effects.
func (o *Order) MarkConfirmed(userId int, at time.Time) error {
	if err := o.applyEvent(OrderEventConfirm); err != nil {
		return err
	}
	o.ConfirmedByUserId = &userId
	o.ConfirmedAt = &at
	return nil
}

func (o *Order) MarkCompleted() error {
	return o.applyEvent(OrderEventComplete)
}

func (o *Order) MarkCanceled() error {
	return o.applyEvent(OrderEventCancel)
}

// LockOrder fetches the order and its lines under a row lock so that
// concurrent lifecycle calls on the same order serialize.
func LockOrder(tx *gorm.DB, storeId, orderId int) (*Order, error) {
	var order Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ?", storeId).
		First(&order, orderId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.NotFoundError("order")
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Where("order_id = ?", order.ID).Order("id").Find(&order.Lines).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func GetOrder(ctx context.Context, storeId int, id int) (*Order, error) {
	order, err := utils.FetchModel[Order](ctx, storeId, id, "Lines")
	if err != nil {
		return nil, utils.NotFoundError("order")
	}
	return order, nil
}

type OrderFilter struct {
	Status     OrderStatus
	CustomerId int
	FromDate   *time.Time
	ToDate     *time.Time
}

func GetOrders(ctx context.Context, storeId int, filter OrderFilter, page, limit int) ([]*Order, int64, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Order{}).Where("store_id = ?", storeId)
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.CustomerId != 0 {
		dbCtx = dbCtx.Where("customer_id = ?", filter.CustomerId)
	}
	if filter.FromDate != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		dbCtx = dbCtx.Where("created_at <= ?", *filter.ToDate)
	}
	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []*Order
	err := dbCtx.Preload("Lines").Order("id DESC").
		Offset(pageOffset(page, limit)).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
