package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"gorm.io/gorm"
)

// RecordCustomerPayment writes the payment row, the clamped debt
// reduction, and the payment_in ledger entry in one transaction.
func RecordCustomerPayment(ctx context.Context, input *models.NewCustomerPayment) (*models.CustomerPayment, error) {
	logger := config.GetLogger()
	user, storeId, correlationId, err := actingContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := models.GetCustomer(ctx, storeId, input.CustomerId); err != nil {
		return nil, err
	}

	method := input.Method
	if method == "" {
		method = models.PaymentMethodCash
	}
	payment := models.CustomerPayment{
		StoreId:         storeId,
		CustomerId:      input.CustomerId,
		Amount:          input.Amount,
		Method:          method,
		Notes:           input.Notes,
		CreatedByUserId: user.ID,
		CorrelationId:   correlationId,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := models.CreateCustomerPayment(tx, &payment); err != nil {
			return err
		}
		customer, err := models.ReduceCustomerDebt(tx, storeId, input.CustomerId, input.Amount)
		if err != nil {
			return err
		}
		entryDate, err := utils.ConvertToDate(time.Now().UTC(), "")
		if err != nil {
			return err
		}
		entry := models.LedgerEntry{
			StoreId:         storeId,
			EntryType:       models.LedgerEntryTypePaymentIn,
			RefType:         models.LedgerRefPayment,
			RefId:           payment.ID,
			Amount:          input.Amount,
			Description:     fmt.Sprintf("Payment from %s", customer.Name),
			EntryDate:       entryDate,
			CreatedByUserId: user.ID,
			CorrelationId:   correlationId,
		}
		return models.AppendLedgerEntry(tx, &entry)
	})
	if err != nil {
		if utils.ErrorCode(err) == "" {
			config.LogError(logger, "paymentWorkflow.go", "RecordCustomerPayment", "PaymentTransaction", input.CustomerId, err)
		}
		return nil, err
	}
	return &payment, nil
}
