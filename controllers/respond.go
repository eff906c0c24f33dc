package controllers

import (
	"errors"
	"strconv"

	"github.com/careloop/clinic-app/services"
	"github.com/careloop/clinic-app/utils"
	"github.com/gofiber/fiber/v2"
)

// actorFromCtx builds the service-layer actor from the identity the JWT
// middleware placed in locals.
func actorFromCtx(c *fiber.Ctx) (services.Actor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: userID, Role: role}, true
}

// respondError maps the service error taxonomy onto HTTP statuses with the
// standard error envelope.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(utils.ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "User identity not found in context",
	})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid ID parameter",
	})
}
