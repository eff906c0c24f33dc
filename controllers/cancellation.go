package controllers

import (
	"fmt"
	"time"

	"github.com/careloop/clinic-app/redis"
	"github.com/careloop/clinic-app/services"
	"github.com/careloop/clinic-app/utils"
	"github.com/gofiber/fiber/v2"
)

// Replayed cancels are not safe to repeat blindly: a second staff cancel
// would record a second refund. Callers that retry must send an
// Idempotency-Key header; a replayed key is refused here before anything
// touches the database.
const idempotencyKeyTTL = 24 * time.Hour

// CancelAppointment applies the role-conditioned cancellation policy.
func CancelAppointment(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to parse request body",
				Error:   err.Error(),
			})
		}
	}

	if key := c.Get("Idempotency-Key"); key != "" && redis.Client != nil {
		stored, err := redis.Client.SetNX(redis.Ctx,
			fmt.Sprintf("cancel:%s", key), id, idempotencyKeyTTL).Result()
		if err == nil && !stored {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Message: "Duplicate cancellation request",
				Error:   "idempotency key already used",
			})
		}
	}

	result, err := services.CancelAppointment(actor, id, input.Reason)
	if err != nil {
		return respondError(c, "Failed to cancel appointment", err)
	}
	return c.JSON(result)
}
