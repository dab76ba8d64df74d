package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/readmode/convert"
	"github.com/use-agent/readmode/models"
)

// Convert returns a handler for POST /api/v1/convert.
//
// The response body is the converted content itself (Markdown, or the JSON
// envelope when json_format is set); conversion metadata travels in headers
// so plain-text consumers stay plain.
func Convert(cv *convert.Converter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ConvertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		result, err := cv.Convert(c.Request.Context(), req.URL, req.ConvertOptions)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("X-Readmode-Strategy", result.Strategy)
		c.Header("X-Readmode-Elapsed-Ms", strconv.FormatInt(result.ElapsedMs, 10))
		c.Header("X-Readmode-Tokens", strconv.Itoa(result.Tokens))
		if result.FromCache {
			c.Header("X-Readmode-Cache", "hit")
		} else {
			c.Header("X-Readmode-Cache", "miss")
		}
		c.Data(http.StatusOK, result.ContentType, []byte(result.Content))
	}
}

// respondError maps a ConvertError to the right HTTP status and writes a
// structured JSON error response.
func respondError(c *gin.Context, err error) {
	var convErr *models.ConvertError
	if !errors.As(err, &convErr) {
		convErr = models.NewConvertError(models.ErrCodeInternal, err.Error(), err)
	}
	c.JSON(mapErrorToStatus(convErr), gin.H{"error": convErr.ToDetail()})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ConvertError) int {
	switch e.Code {
	case models.ErrCodeInvalidURL, models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeAllFailed:
		return http.StatusBadGateway // 502
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
