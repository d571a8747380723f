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

// Customer carries the debt account: DebtBalance is non-negative by
// construction and only ever changed through addDebt/reduceDebt inside a
// coordinator transaction, paired one-to-one with a ledger entry.
// DebtLimit zero means unlimited.
type Customer struct {
	ID          int             `gorm:"primary_key" json:"id"`
	StoreId     int             `gorm:"index;not null" json:"store_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Phone       string          `gorm:"size:20;index" json:"phone"`
	Address     string          `gorm:"size:500" json:"address"`
	Email       string          `gorm:"size:255" json:"email"`
	Notes       string          `gorm:"type:text" json:"notes"`
	DebtBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"debt_balance"`
	DebtLimit   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"debt_limit"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name      string          `json:"name" binding:"required"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Email     string          `json:"email"`
	Notes     string          `json:"notes"`
	DebtLimit decimal.Decimal `json:"debt_limit"`
}

// CanExtendDebt reports whether amount more debt fits under the limit.
func (c *Customer) CanExtendDebt(amount decimal.Decimal) bool {
	if c.DebtLimit.IsZero() {
		return true
	}
	return c.DebtBalance.Add(amount).LessThanOrEqual(c.DebtLimit)
}

// addDebt and reduceDebt are deliberately unexported: callers outside the
// core go through the workflow package, which pairs every balance change
// with a ledger entry in one transaction.

func (c *Customer) addDebt(tx *gorm.DB, amount decimal.Decimal) error {
	c.DebtBalance = c.DebtBalance.Add(amount)
	return tx.Model(c).Update("debt_balance", c.DebtBalance).Error
}

// reduceDebt floors at zero: a reversal or overpayment never drives the
// balance negative. The clamp is intentional, not an error.
func (c *Customer) reduceDebt(tx *gorm.DB, amount decimal.Decimal) error {
	next := c.DebtBalance.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	c.DebtBalance = next
	return tx.Model(c).Update("debt_balance", c.DebtBalance).Error
}

// AddCustomerDebt locks the customer row, re-checks the limit against the
// fresh balance, and applies the increase. Must run inside the same
// transaction as the paired debt_in ledger entry.
func AddCustomerDebt(tx *gorm.DB, storeId, customerId int, amount decimal.Decimal) (*Customer, error) {
	customer, err := lockCustomer(tx, storeId, customerId)
	if err != nil {
		return nil, err
	}
	if !customer.CanExtendDebt(amount) {
		return nil, utils.InsufficientBalanceError(
			"customer %s would exceed debt limit %s (balance %s, new debt %s)",
			customer.Name, customer.DebtLimit, customer.DebtBalance, amount)
	}
	if err := customer.addDebt(tx, amount); err != nil {
		return nil, err
	}
	return customer, nil
}

// ReduceCustomerDebt locks the customer row and applies the clamped
// reduction. Must run inside the same transaction as the paired
// payment_in entry or cancellation reversal.
func ReduceCustomerDebt(tx *gorm.DB, storeId, customerId int, amount decimal.Decimal) (*Customer, error) {
	customer, err := lockCustomer(tx, storeId, customerId)
	if err != nil {
		return nil, err
	}
	if err := customer.reduceDebt(tx, amount); err != nil {
		return nil, err
	}
	return customer, nil
}

func lockCustomer(tx *gorm.DB, storeId, customerId int) (*Customer, error) {
	var customer Customer
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ?", storeId).
		First(&customer, customerId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.NotFoundError("customer")
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (input *NewCustomer) validate() error {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, "VN"); err != nil {
			return utils.ValidationError("invalid customer phone number")
		}
	}
	if input.DebtLimit.IsNegative() {
		return utils.ValidationError("debt limit cannot be negative")
	}
	return nil
}

func CreateCustomer(ctx context.Context, storeId int, input *NewCustomer) (*Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := utils.ValidateUnique[Customer](ctx, storeId, "phone", input.Phone, 0); err != nil {
			return nil, utils.ValidationError("a customer with phone %s already exists", input.Phone)
		}
	}

	customer := Customer{
		StoreId:     storeId,
		Name:        input.Name,
		Phone:       input.Phone,
		Address:     input.Address,
		Email:       input.Email,
		Notes:       input.Notes,
		DebtBalance: decimal.Zero,
		DebtLimit:   input.DebtLimit,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomer(ctx context.Context, storeId int, id int) (*Customer, error) {
	customer, err := utils.FetchModel[Customer](ctx, storeId, id)
	if err != nil {
		return nil, utils.NotFoundError("customer")
	}
	return customer, nil
}

// GetCustomerTx is the in-transaction variant of GetCustomer.
func GetCustomerTx(tx *gorm.DB, storeId, id int) (*Customer, error) {
	var customer Customer
	err := tx.Where("store_id = ?", storeId).First(&customer, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.NotFoundError("customer")
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomers(ctx context.Context, storeId int, search string, page, limit int) ([]*Customer, int64, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Customer{}).Where("store_id = ?", storeId)
	if search != "" {
		dbCtx = dbCtx.Where("(name LIKE ? OR phone LIKE ?)", "%"+search+"%", "%"+search+"%")
	}
	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var customers []*Customer
	err := dbCtx.Order("name").Offset(pageOffset(page, limit)).Limit(limit).Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// CustomerDebtBalance reads the current balance for the external interface.
func CustomerDebtBalance(ctx context.Context, storeId, customerId int) (decimal.Decimal, error) {
	customer, err := GetCustomer(ctx, storeId, customerId)
	if err != nil {
		return decimal.Zero, err
	}
	return customer.DebtBalance, nil
}
