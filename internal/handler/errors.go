package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/response"
)

// statusOf maps an error kind to its HTTP status and envelope code
func statusOf(kind domain.Kind) (int, string) {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest, response.CodeValidation
	case domain.KindConflict:
		return http.StatusConflict, response.CodeConflict
	case domain.KindNotFound:
		return http.StatusNotFound, response.CodeNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, response.CodeUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden, response.CodeForbidden
	default:
		return http.StatusInternalServerError, response.CodeInternal
	}
}

// writeError renders err. Internal errors only expose the generic message;
// their cause has already been logged by the service.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, code := statusOf(domain.KindOf(err))
	response.Error(c, status, code, domain.MessageOf(err))
}

// bindJSON decodes the body and answers 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// idParam parses a positive integer path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
