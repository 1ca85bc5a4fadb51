package routes

import (
	"patio-app/config"
	"patio-app/controllers"
	"patio-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/dashboard", middleware.AuthMiddleware)
	dashboardController := controllers.NewDashboardController(db)

	api.Get("/", dashboardController.GetDashboard)
}
