package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/careloop/clinic-app/cron"
	"github.com/careloop/clinic-app/db"
	"github.com/careloop/clinic-app/redis"
	"github.com/careloop/clinic-app/routes"
)

func main() {
	app := fiber.New()

	if os.Getenv("AUTO_MIGRATE") == "true" {
		db.Migrate()
	} else {
		db.Init()
	}
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("clinic-app scheduling API")
	})
	routes.SetupAppointmentRoutes(app)
	routes.SetupRescheduleRoutes(app)

	cron.StartCronJobs()

	if err := app.Listen(":8000"); err != nil {
		log.Fatal(err)
	}
}
