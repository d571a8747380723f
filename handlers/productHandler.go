package handlers

import (
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateProduct(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	product, err := models.CreateProduct(ctx, storeId, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, product)
}

func GetProduct(c *gin.Context) {
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
	product, err := models.GetProduct(ctx, storeId, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

func GetProducts(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, limit := pageParams(c)
	products, total, err := models.GetProducts(ctx, storeId, c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, products, total, page, limit)
}
