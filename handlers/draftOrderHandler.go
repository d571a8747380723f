package handlers

import (
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/bizflowhq/bizflow_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateDraftOrder(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	var input models.NewDraftOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	draft, err := models.CreateDraftOrder(ctx, storeId, userId, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, draft)
}

func GetDraftOrders(c *gin.Context) {
	ctx, storeId, err := storeScope(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, limit := pageParams(c)
	drafts, total, err := models.GetDraftOrders(ctx, storeId,
		models.DraftOrderStatus(c.Query("status")), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, drafts, total, page, limit)
}

func GetDraftOrder(c *gin.Context) {
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
	draft, err := models.GetDraftOrder(ctx, storeId, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, draft)
}

// ConfirmDraftOrder materializes the draft into a NEW order. The body
// may carry a corrected order payload that replaces the parsed one.
func ConfirmDraftOrder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var overrides *models.NewOrder
	if c.Request.ContentLength > 0 {
		var input models.NewOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		overrides = &input
	}

	order, err := workflow.ConfirmDraftOrder(c.Request.Context(), id, overrides)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func RejectDraftOrder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	draft, err := workflow.RejectDraftOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, draft)
}
