package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextKeyRequestID is the Gin context key the envelope metadata reads.
	ContextKeyRequestID = "request_id"

	headerRequestID = "X-Request-ID"
)

// RequestIDMiddleware tags every request with an ID. A caller-supplied
// X-Request-ID is honored so IDs survive proxy hops; otherwise a fresh UUID
// is generated. The ID is echoed back in the response headers either way.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}
