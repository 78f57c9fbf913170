// Package handlers contains the HTTP resource controllers. Every
// response is wrapped in the uniform {success, message, data, error}
// envelope; errors are rendered in one place from the apperr taxonomy.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/models"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// respondPage renders one page of a list endpoint.
func respondPage(c *gin.Context, items interface{}, p models.Pagination) {
	respondOK(c, gin.H{
		"items":      items,
		"pagination": p,
	})
}

// respondError maps an application error onto the envelope. Driver-level
// detail is exposed only outside release mode.
func respondError(c *gin.Context, err error) {
	appErr := apperr.Get(err)

	errBody := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Err != nil && gin.Mode() != gin.ReleaseMode {
		errBody["detail"] = appErr.Err.Error()
	}

	c.JSON(appErr.Status, gin.H{
		"success": false,
		"error":   errBody,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, apperr.BadRequest(message))
}

// pageOf normalizes the requested page/limit the same way the
// repositories do and builds the pagination block.
func pageOf(page, limit, defaultLimit, total int) models.Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return models.NewPagination(page, limit, total)
}

// queryInt reads an optional integer query parameter. Malformed values
// are treated as absent, never as errors.
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// pathInt reads a required integer path parameter.
func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
