package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware validates the bearer token when present and stores the
// claims plus a correlation id on the request context. Requests without
// a token pass through; RequireAuth gates the protected routes.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
		c.Header("X-Correlation-Id", correlationId)

		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		validated, err := utils.JwtValidate(ctx, token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": utils.CodeAuthenticationFailed, "message": "invalid or expired token"},
			})
			c.Abort()
			return
		}

		claims, _ := validated.Claims.(*utils.JwtCustomClaim)
		ctx = utils.SetTokenInContext(ctx, token)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		ctx = utils.SetUserRoleInContext(ctx, claims.Role)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests that did not carry a valid token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": utils.CodeAuthenticationFailed, "message": "authentication required"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// StoreMiddleware resolves the target store from the X-Store-Id header
// (or ?store_id=) into the request context. Access checks happen in the
// workflows against the acting user.
func StoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Request.Header.Get("X-Store-Id")
		if raw == "" {
			raw = c.Query("store_id")
		}
		if raw != "" {
			if storeId, err := strconv.Atoi(raw); err == nil && storeId > 0 {
				ctx := utils.SetStoreIdInContext(c.Request.Context(), storeId)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}
