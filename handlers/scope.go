package handlers

import (
	"context"

	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/gin-gonic/gin"
)

// storeScope resolves the acting user and target store for read
// endpoints. Workflow endpoints re-check inside the workflow itself.
func storeScope(c *gin.Context) (context.Context, int, error) {
	ctx := c.Request.Context()
	user, err := models.CurrentUser(ctx)
	if err != nil {
		return ctx, 0, err
	}
	storeId, ok := utils.GetStoreIdFromContext(ctx)
	if !ok || storeId == 0 {
		return ctx, 0, utils.ValidationError("store not resolved, set the X-Store-Id header")
	}
	if !user.CanAccessStore(ctx, storeId) {
		return ctx, 0, utils.AuthorizationError("no access to this store")
	}
	return ctx, storeId, nil
}
