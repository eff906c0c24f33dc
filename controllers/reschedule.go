package controllers

import (
	"strconv"
	"time"

	"github.com/careloop/clinic-app/models"
	"github.com/careloop/clinic-app/services"
	"github.com/careloop/clinic-app/utils"
	"github.com/gofiber/fiber/v2"
)

// RequestReschedule opens a pending reschedule request on an appointment the
// actor is a party to.
func RequestReschedule(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	var input struct {
		AppointmentID     uint      `json:"appointment_id"`
		RequestedDateTime time.Time `json:"requested_date_time"`
		Reason            string    `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	request, err := services.RequestReschedule(actor, input.AppointmentID, input.RequestedDateTime, input.Reason)
	if err != nil {
		return respondError(c, "Failed to create reschedule request", err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// ListRescheduleRequests filters by appointment_id, status and
// organization_id; non-staff actors only see their own.
func ListRescheduleRequests(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	filter := services.RescheduleFilter{
		Status: models.RescheduleStatus(c.Query("status")),
	}
	if v, err := strconv.ParseUint(c.Query("appointment_id", "0"), 10, 64); err == nil {
		filter.AppointmentID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("organization_id", "0"), 10, 64); err == nil {
		filter.OrganizationID = uint(v)
	}

	requests, err := services.ListRescheduleRequests(actor, filter)
	if err != nil {
		return respondError(c, "Failed to fetch reschedule requests", err)
	}
	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// ApproveReschedule applies a pending request to its appointment.
func ApproveReschedule(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	request, err := services.ApproveReschedule(actor, id)
	if err != nil {
		return respondError(c, "Failed to approve reschedule request", err)
	}
	return c.JSON(request)
}

// RejectReschedule declines a pending request.
func RejectReschedule(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	request, err := services.RejectReschedule(actor, id)
	if err != nil {
		return respondError(c, "Failed to reject reschedule request", err)
	}
	return c.JSON(request)
}

// CancelRescheduleRequest lets the original requester withdraw a pending
// request.
func CancelRescheduleRequest(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	if err := services.CancelRescheduleRequest(actor, id); err != nil {
		return respondError(c, "Failed to withdraw reschedule request", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DirectReschedule is the admin override: retime now, bulk-approve pending
// requests.
func DirectReschedule(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	var input struct {
		NewDateTime time.Time `json:"new_date_time"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	appointment, err := services.DirectReschedule(actor, id, input.NewDateTime)
	if err != nil {
		return respondError(c, "Failed to reschedule appointment", err)
	}
	return c.JSON(appointment)
}
