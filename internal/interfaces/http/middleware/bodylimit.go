package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haulstack/tms/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies larger than maxBytes. Requests that
// lie about Content-Length are still cut off by MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodePayloadTooLarge, "Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
