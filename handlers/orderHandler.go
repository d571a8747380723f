package handlers

import (
	"time"

	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateOrder(c *gin.Context) {
	var input models.NewOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	order, err := workflow.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

func GetOrder(c *gin.Context) {
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
	order, err := models.GetOrder(ctx, storeId, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

func GetOrders(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	filter := models.OrderFilter{
		Status:     models.OrderStatus(c.Query("status")),
		CustomerId: intQuery(c, "customer_id", 0),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.FromDate = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.ToDate = &end
		}
	}
	page, limit := pageParams(c)
	orders, total, err := models.GetOrders(ctx, storeId, filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, orders, total, page, limit)
}

func ConfirmOrder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := workflow.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func CancelOrder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)

	order, err := workflow.CancelOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

func CompleteOrder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := workflow.CompleteOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}
