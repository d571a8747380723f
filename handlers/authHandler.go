package handlers

import (
	"github.com/bizflowhq/bizflow_backend/models"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a bearer token. Wrong email and wrong
// password produce the same error.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}

	user, err := models.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		respondError(c, utils.NewAppError(utils.CodeAuthenticationFailed, "invalid email or password"))
		return
	}
	if !user.IsActive() {
		respondError(c, utils.AuthorizationError("user account is not active"))
		return
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token, "user": user})
}

// Me returns the acting user with their role permissions.
func Me(c *gin.Context) {
	user, err := models.CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"user": user, "permissions": models.GetPermissions(user.Role)})
}

// Register creates a user account. Employee accounts require an owner
// or admin of the target store; the first admin comes from cmd/seed-admin.
func Register(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	if input.Role == models.RoleAdmin {
		respondError(c, utils.AuthorizationError("admin accounts cannot be self-registered"))
		return
	}
	if input.Role == models.RoleEmployee || input.Role == "" {
		actor, err := models.CurrentUser(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if !actor.CanAccessStore(ctx, input.StoreId) || actor.Role == models.RoleEmployee {
			respondError(c, utils.AuthorizationError("only the store owner can add employees"))
			return
		}
	}

	user, err := models.CreateUser(ctx, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}
