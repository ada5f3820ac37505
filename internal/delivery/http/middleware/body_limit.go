package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

// BodyTooLarge is the create-job failure returned when a body exceeds limit.
func BodyTooLarge(limit int64) domain.CreateResult {
	return domain.CreateResult{
		Saved: false,
		Error: &domain.ErrorDetail{
			Kind:    domain.KindValidation,
			Message: fmt.Sprintf("request body exceeds %d bytes", limit),
		},
	}
}

// BodySizeLimit caps the request body at maxBytes. A declared Content-Length
// over the cap is rejected here with 413; a chunked body is cut off by the
// reader and the handler sees *http.MaxBytesError.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, BodyTooLarge(maxBytes))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
