package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"policyaudit/docs"
)

// SwaggerUI serves the API docs with host and scheme taken from the request.
// defaultHost is used when the request carries no Host header.
func SwaggerUI(defaultHost string) fiber.Handler {
	docs.SwaggerInfo.Host = defaultHost

	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		host := c.Get(fiber.HeaderHost)
		if host == "" {
			host = defaultHost
		}
		docs.SwaggerInfo.Host = host
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
