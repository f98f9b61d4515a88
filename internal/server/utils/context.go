package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Keys stored on the gin context by the middlewares.
const (
	SpanContextKey = "span_context"
	RequestIDKey   = "request_id"
)

// RequestContext returns the context carrying the request span, falling back
// to the plain request context when tracing middleware did not run.
func RequestContext(c *gin.Context) context.Context {
	if v, ok := c.Get(SpanContextKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// TraceID is empty unless a recording span is attached.
func TraceID(c *gin.Context) string {
	sc := trace.SpanContextFromContext(RequestContext(c))
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
