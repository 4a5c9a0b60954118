package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"legaldesk/docs"
)

// Swagger serves the API docs. The advertised host is fixed when the route
// is built; an empty host lets the UI call whatever origin served it.
func Swagger(host string) fiber.Handler {
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = []string{}
	return swagger.HandlerDefault
}
