package routes

import (
	"patio-app/config"
	"patio-app/controllers"
	"patio-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDriverRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/drivers", middleware.AuthMiddleware)
	driverController := controllers.NewDriverController(db)

	api.Post("/upload-excel", driverController.CreateDriverFromExcel)
	api.Post("/", driverController.CreateDriver)
	api.Get("/", driverController.GetAllDrivers)
	api.Get("/:id", driverController.GetDriverByID)
	api.Put("/:id", driverController.UpdateDriver)
	api.Delete("/:id", driverController.DeleteDriver)
}
