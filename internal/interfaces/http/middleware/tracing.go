package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns OpenTelemetry tracing middleware. Spans are named after
// the matched route pattern, so path parameters do not explode cardinality.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceCaller annotates the active span with the authenticated caller.
// It must run after the Auth middleware.
func TraceCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if sctx := GetSecurityContext(c); sctx != nil {
				span.SetAttributes(
					attribute.String("company_id", sctx.CompanyID.String()),
					attribute.String("user_id", sctx.UserID.String()),
					attribute.String("role", string(sctx.Role)),
				)
			}
		}
		c.Next()
	}
}
