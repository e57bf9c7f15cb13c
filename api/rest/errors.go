package rest

import (
	"errors"
	"github.com/gofiber/fiber/v2"
	"imagetools/api/model"
)

// ErrorHandler renders framework errors (unknown route, body limit, rate limit) as {"error": "..."}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(model.ErrorResponse{Error: err.Error()})
}
