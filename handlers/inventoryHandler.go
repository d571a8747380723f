package handlers

import (
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/workflow"
	"github.com/gin-gonic/gin"
)

// ImportStock receives goods into inventory.
func ImportStock(c *gin.Context) {
	var input workflow.StockImportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	movement, err := workflow.ImportStock(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, movement)
}

// GetStockLevels returns current stock per product.
func GetStockLevels(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	levels, err := models.GetStockLevels(ctx, storeId)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, levels)
}

// GetMovements lists the movement history of a product.
func GetMovements(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	productId, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, limit := pageParams(c)
	movements, total, err := models.GetMovements(ctx, storeId, productId, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, movements, total, page, limit)
}
