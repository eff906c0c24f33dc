package controllers

import (
	"strconv"
	"time"

	"github.com/careloop/clinic-app/db"
	"github.com/careloop/clinic-app/models"
	"github.com/careloop/clinic-app/services"
	"github.com/careloop/clinic-app/utils"
	"github.com/gofiber/fiber/v2"
)

// RequestAppointment books a new appointment in PENDING. Patients book for
// themselves; admins and receptionists pass patient_id explicitly.
func RequestAppointment(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	var input services.BookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	appointment, err := services.CreateAppointment(actor, input)
	if err != nil {
		return respondError(c, "Failed to create appointment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetAppointment returns one appointment, visible to its parties and staff.
func GetAppointment(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	appointment, err := services.GetAppointment(actor, id)
	if err != nil {
		return respondError(c, "Failed to fetch appointment", err)
	}
	return c.JSON(appointment)
}

// ListAppointments returns appointments scoped to the actor, with optional
// organization_id, doctor_id, patient_id and status filters.
func ListAppointments(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	filter := services.AppointmentFilter{
		Status: models.AppointmentStatus(c.Query("status")),
	}
	if v, err := strconv.ParseUint(c.Query("organization_id", "0"), 10, 64); err == nil {
		filter.OrganizationID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("doctor_id", "0"), 10, 64); err == nil {
		filter.DoctorID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("patient_id", "0"), 10, 64); err == nil {
		filter.PatientID = uint(v)
	}

	appointments, err := services.ListAppointments(actor, filter)
	if err != nil {
		return respondError(c, "Failed to fetch appointments", err)
	}
	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// ConfirmAppointment moves an appointment to CONFIRMED, optionally retiming
// it in the same step.
func ConfirmAppointment(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	var input struct {
		NewTime *time.Time `json:"new_time"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to parse request body",
				Error:   err.Error(),
			})
		}
	}

	appointment, err := services.ConfirmAppointment(actor, id, input.NewTime)
	if err != nil {
		return respondError(c, "Failed to confirm appointment", err)
	}
	return c.JSON(appointment)
}

// RejectAppointment terminates a booking the clinic will not honor.
func RejectAppointment(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	appointment, err := services.RejectAppointment(actor, id)
	if err != nil {
		return respondError(c, "Failed to reject appointment", err)
	}
	return c.JSON(appointment)
}

// CompleteAppointment closes out a confirmed visit.
func CompleteAppointment(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c)
	}

	appointment, err := services.CompleteAppointment(actor, id)
	if err != nil {
		return respondError(c, "Failed to complete appointment", err)
	}
	return c.JSON(appointment)
}

// CheckEligibility prices a prospective booking without creating anything.
// Any authenticated user may ask.
func CheckEligibility(c *fiber.Ctx) error {
	if _, ok := actorFromCtx(c); !ok {
		return unauthorized(c)
	}

	patientID, err1 := strconv.ParseUint(c.Query("patient_id"), 10, 64)
	doctorID, err2 := strconv.ParseUint(c.Query("doctor_id"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "patient_id and doctor_id query parameters are required",
		})
	}

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "as_of must be RFC3339",
			})
		}
		asOf = parsed
	}

	quote, err := services.ResolveFee(db.DB, uint(patientID), uint(doctorID), asOf)
	if err != nil {
		return respondError(c, "Failed to check follow-up eligibility", err)
	}
	return c.JSON(quote)
}
