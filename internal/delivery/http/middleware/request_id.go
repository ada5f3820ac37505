package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// newRequestID is swapped in tests.
var newRequestID = uuid.NewV7

// RequestID tags each request with an id, reusing the caller's X-Request-ID
// when it is short printable ASCII. The id is stored under "request_id" and
// echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if !validRequestID(requestID) {
			requestID = generateRequestID()
		}

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// generateRequestID prefers a time-ordered v7 id and falls back to a random
// v4 id when the v7 generator fails.
func generateRequestID() string {
	id, err := newRequestID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
