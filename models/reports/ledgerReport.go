package reports

import (
	"context"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/shopspring/decimal"
)

// RevenueByDay is one row of the revenue report, summed from ledger
// entries. Reads the ledger only; nothing here recomputes totals from
// orders.
type RevenueByDay struct {
	EntryDate  time.Time       `json:"entry_date"`
	Revenue    decimal.Decimal `json:"revenue"`
	CreditSold decimal.Decimal `json:"credit_sold"`
	PaymentsIn decimal.Decimal `json:"payments_in"`
}

func GetRevenueByDay(ctx context.Context, storeId int, from, to time.Time) ([]*RevenueByDay, error) {
	sql := `
SELECT
    entry_date,
    CAST(SUM(CASE WHEN entry_type = 'revenue' THEN amount ELSE 0 END) AS CHAR) AS revenue,
    CAST(SUM(CASE WHEN entry_type = 'debt_in' THEN amount ELSE 0 END) AS CHAR) AS credit_sold,
    CAST(SUM(CASE WHEN entry_type = 'payment_in' THEN amount ELSE 0 END) AS CHAR) AS payments_in
FROM ledger_entries
WHERE store_id = ? AND entry_date >= ? AND entry_date <= ?
GROUP BY entry_date
ORDER BY entry_date;
`
	type row struct {
		EntryDate  time.Time
		Revenue    string
		CreditSold string
		PaymentsIn string
	}
	var rows []row
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, storeId, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*RevenueByDay, 0, len(rows))
	for _, r := range rows {
		revenue, err := utils.ConvertToDecimal(r.Revenue)
		if err != nil {
			return nil, err
		}
		creditSold, err := utils.ConvertToDecimal(r.CreditSold)
		if err != nil {
			return nil, err
		}
		paymentsIn, err := utils.ConvertToDecimal(r.PaymentsIn)
		if err != nil {
			return nil, err
		}
		result = append(result, &RevenueByDay{
			EntryDate:  r.EntryDate,
			Revenue:    revenue,
			CreditSold: creditSold,
			PaymentsIn: paymentsIn,
		})
	}
	return result, nil
}

// DebtBookRow lists a customer with outstanding debt.
type DebtBookRow struct {
	CustomerId   int             `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	DebtBalance  decimal.Decimal `json:"debt_balance"`
	DebtLimit    decimal.Decimal `json:"debt_limit"`
}

// GetDebtBook lists customers carrying debt, largest balance first.
func GetDebtBook(ctx context.Context, storeId int) ([]*DebtBookRow, error) {
	db := config.GetDB()
	var customers []models.Customer
	err := db.WithContext(ctx).
		Where("store_id = ? AND debt_balance > 0", storeId).
		Order("debt_balance DESC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}

	rows := make([]*DebtBookRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, &DebtBookRow{
			CustomerId:   c.ID,
			CustomerName: c.Name,
			Phone:        c.Phone,
			DebtBalance:  c.DebtBalance,
			DebtLimit:    c.DebtLimit,
		})
	}
	return rows, nil
}
