package routes

import (
	"patio-app/config"
	"patio-app/controllers"
	"patio-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPurchaseRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/purchases", middleware.AuthMiddleware)
	purchaseController := controllers.NewPurchaseController(db)

	api.Get("/", purchaseController.GetAllPurchases)
	api.Get("/:id", purchaseController.GetPurchaseByID)
	api.Put("/:id/pricing", middleware.RequireAdmin, purchaseController.SetPricing)
}
