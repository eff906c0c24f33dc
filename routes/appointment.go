package routes

import (
	"github.com/careloop/clinic-app/controllers"
	"github.com/careloop/clinic-app/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupAppointmentRoutes configures the appointment lifecycle routes.
// Ownership rules (own doctor, own patient) are enforced in the services;
// the permission middleware only gates by role capability.
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected())

	appointment.Get("/eligibility", controllers.CheckEligibility)
	appointment.Get("/", middleware.RequirePermission("appointments", "read"), controllers.ListAppointments)
	appointment.Get("/:id", middleware.RequirePermission("appointments", "read"), controllers.GetAppointment)
	appointment.Post("/", middleware.RequirePermission("appointments", "create"), controllers.RequestAppointment)
	appointment.Post("/:id/confirm", middleware.RequirePermission("appointments", "update"), controllers.ConfirmAppointment)
	appointment.Post("/:id/reject", middleware.RequirePermission("appointments", "update"), controllers.RejectAppointment)
	appointment.Post("/:id/complete", middleware.RequirePermission("appointments", "update"), controllers.CompleteAppointment)
	// No permission gate on cancel: the refund policy in the service decides
	// per role, and doctors must receive its message, not a generic 403.
	appointment.Post("/:id/cancel", controllers.CancelAppointment)
	appointment.Post("/:id/reschedule", middleware.RequireRole("admin"), controllers.DirectReschedule)
}
