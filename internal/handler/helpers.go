package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

var errUnauthenticated = errors.New("handler: request has no authenticated user")

// currentUserID returns the authenticated user bound to the request by the
// JWT middleware.
func currentUserID(c *fiber.Ctx) (string, error) {
	value := c.Locals("user_id")
	id, ok := value.(string)
	if !ok || id == "" {
		return "", errUnauthenticated
	}
	return id, nil
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(parsed), nil
}

// parseBody binds and validates a JSON request body.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return validate.Struct(out)
}
