package handlers

import (
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateStore(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := models.CurrentUser(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.NewStore
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	if actor.Role != models.RoleAdmin {
		if actor.Role != models.RoleOwner {
			respondError(c, utils.AuthorizationError("only owners can create stores"))
			return
		}
		input.OwnerId = actor.ID
	}

	store, err := models.CreateStore(ctx, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, store)
}

func GetStore(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := models.CurrentUser(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if !actor.CanAccessStore(ctx, id) {
		respondError(c, utils.AuthorizationError("no access to this store"))
		return
	}
	store, err := models.GetStore(ctx, id)
	if err != nil {
		respondError(c, utils.NotFoundError("store"))
		return
	}
	respondOK(c, store)
}

// MyStores lists stores the acting user can work in.
func MyStores(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := models.CurrentUser(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	switch actor.Role {
	case models.RoleOwner, models.RoleAdmin:
		stores, err := models.GetStoresByOwner(ctx, actor.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, stores)
	default:
		store, err := models.GetStore(ctx, actor.StoreId)
		if err != nil {
			respondError(c, utils.NotFoundError("store"))
			return
		}
		respondOK(c, []*models.Store{store})
	}
}
