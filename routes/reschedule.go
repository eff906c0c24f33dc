package routes

import (
	"github.com/careloop/clinic-app/controllers"
	"github.com/careloop/clinic-app/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupRescheduleRoutes configures the reschedule request workflow routes.
func SetupRescheduleRoutes(app *fiber.App) {
	reschedule := app.Group("/reschedule-requests", middleware.Protected())

	reschedule.Post("/", middleware.RequirePermission("reschedule_requests", "create"), controllers.RequestReschedule)
	reschedule.Get("/", middleware.RequirePermission("reschedule_requests", "read"), controllers.ListRescheduleRequests)
	reschedule.Post("/:id/approve", middleware.RequireRole("admin"), controllers.ApproveReschedule)
	reschedule.Post("/:id/reject", middleware.RequireRole("admin"), controllers.RejectReschedule)
	reschedule.Delete("/:id", controllers.CancelRescheduleRequest)
}
