package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where handlers find the id in c.Locals. Error
	// payloads and log lines both read it from here.
	RequestIDLocalKey = "request_id"
)

// RequestID assigns every request an id, reusing the caller's X-Request-ID
// when present. The id is echoed in the response header and recorded on the
// server span so a failed analysis can be traced from the error payload.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		trace.SpanFromContext(c.UserContext()).SetAttributes(attribute.String("request.id", id))

		return c.Next()
	}
}
