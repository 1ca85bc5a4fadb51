package routes

import (
	"patio-app/config"
	"patio-app/controllers"
	"patio-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {

	authController := controllers.NewAuthController(db)
	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", authController.Login)

	apiMe := app.Group(config.MAIN_ROUTES+"/auth", middleware.AuthMiddleware)
	apiMe.Get("/me", authController.Me)
	apiMe.Get("/logout", authController.Logout)
}
