package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var codeStatus = map[string]int{
	utils.CodeValidationError:      http.StatusBadRequest,
	utils.CodeNotFound:             http.StatusNotFound,
	utils.CodePermissionDenied:     http.StatusForbidden,
	utils.CodeAuthenticationFailed: http.StatusUnauthorized,
	utils.CodeInsufficientStock:    http.StatusConflict,
	utils.CodeInsufficientBalance:  http.StatusConflict,
	utils.CodeOrderConfirmed:       http.StatusConflict,
	utils.CodeInvalidTransition:    http.StatusConflict,
	utils.CodeConflict:             http.StatusConflict,
	utils.CodeDraftProcessed:       http.StatusConflict,
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, items any, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"meta":    gin.H{"total": total, "page": page, "limit": limit},
	})
}

// respondError maps stable error codes onto HTTP statuses. Unknown
// errors become opaque 500s; the detail goes to the log, not the client.
func respondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		err = utils.ValidationError("invalid request: %s", verrs.Error())
	}

	code := utils.ErrorCode(err)
	if code == "" {
		config.LogError(config.GetLogger(), "responses.go", "respondError", c.FullPath(), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL_ERROR", "message": "internal server error"},
		})
		return
	}

	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	var appErr *utils.AppError
	message := err.Error()
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}

func pageParams(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 20)
	return page, limit
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, utils.ValidationError("invalid id")
	}
	return id, nil
}
