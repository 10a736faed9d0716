package controllers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// decodeParam returns a path parameter with percent-encoding undone.
// Subject names are Chinese and arrive URL-encoded.
func decodeParam(c *fiber.Ctx, name string) (string, error) {
	return url.QueryUnescape(c.Params(name))
}
