// Package rayid tags every request with a correlation ID.
//
// The ID is taken from the incoming X-Ray-ID header when present, otherwise a
// new UUID is generated. It is stored in the "ray_id" local (read by
// logger.WithRayID) and echoed back in the response header.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName is the request and response header carrying the ID.
	HeaderName = "X-Ray-ID"
	// LocalsKey is the fiber.Ctx local holding the ID.
	LocalsKey = "ray_id"
)

// New creates the ray ID middleware.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
