package handlers

import (
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateCustomer(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	customer, err := models.CreateCustomer(ctx, storeId, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, customer)
}

func GetCustomer(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	customer, err := models.GetCustomer(ctx, storeId, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, customer)
}

func GetCustomers(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, limit := pageParams(c)
	customers, total, err := models.GetCustomers(ctx, storeId, c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, customers, total, page, limit)
}

// GetCustomerDebt returns the current debt balance.
func GetCustomerDebt(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	balance, err := models.CustomerDebtBalance(ctx, storeId, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"customer_id": id, "debt_balance": balance})
}

// RecordCustomerPayment posts a payment against the customer's debt.
func RecordCustomerPayment(c *gin.Context) {
	var input models.NewCustomerPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	customerId, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	input.CustomerId = customerId

	payment, err := workflow.RecordCustomerPayment(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, payment)
}

func GetCustomerPayments(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	customerId, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, limit := pageParams(c)
	payments, total, err := models.GetCustomerPayments(ctx, storeId, customerId, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, payments, total, page, limit)
}
