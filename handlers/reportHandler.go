package handlers

import (
	"fmt"
	"time"

	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/models/reports"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func reportRange(c *gin.Context) (time.Time, time.Time) {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, -1, 0)
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t
		}
	}
	return from, to
}

// GetRevenueReport sums the ledger per day over the requested range.
func GetRevenueReport(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	from, to := reportRange(c)
	rows, err := reports.GetRevenueByDay(ctx, storeId, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

// GetDebtBook lists customers carrying outstanding debt.
func GetDebtBook(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rows, err := reports.GetDebtBook(ctx, storeId)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

// GetLedgerEntries lists ledger entries in append order.
func GetLedgerEntries(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	from, to := reportRange(c)
	filter := models.LedgerFilter{
		EntryType: models.LedgerEntryType(c.Query("entry_type")),
		RefType:   models.LedgerRefType(c.Query("ref_type")),
		FromDate:  &from,
		ToDate:    &to,
	}
	page, limit := pageParams(c)
	entries, total, err := models.GetLedgerEntries(ctx, storeId, filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, entries, total, page, limit)
}

// ExportLedgerXlsx streams the filtered ledger as a spreadsheet.
func ExportLedgerXlsx(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	from, to := reportRange(c)
	filter := models.LedgerFilter{
		EntryType: models.LedgerEntryType(c.Query("entry_type")),
		FromDate:  &from,
		ToDate:    &to,
	}
	entries, err := models.GetAllLedgerEntries(ctx, storeId, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Type")
	f.SetCellValue(sheet, "C1", "Amount")
	f.SetCellValue(sheet, "D1", "RefType")
	f.SetCellValue(sheet, "E1", "RefId")
	f.SetCellValue(sheet, "F1", "Description")

	for i, e := range entries {
		rowNo := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), e.EntryDate.Format("2006-01-02"))
		f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), string(e.EntryType))
		f.SetCellValue(sheet, "C"+fmt.Sprint(rowNo), e.Amount.String())
		f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), string(e.RefType))
		f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), e.RefId)
		f.SetCellValue(sheet, "F"+fmt.Sprint(rowNo), e.Description)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ledger_%s_%s.xlsx",
		from.Format("20060102"), to.Format("20060102")))
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
