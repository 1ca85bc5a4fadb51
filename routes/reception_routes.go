package routes

import (
	"patio-app/config"
	"patio-app/controllers"
	"patio-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReceptionRoutes(app *fiber.App, db *gorm.DB) {

	api := app.Group(config.MAIN_ROUTES+"/reception", middleware.AuthMiddleware)
	receptionController := controllers.NewReceptionController(db)
	binController := controllers.NewBinController(db)

	api.Get("/tag-board", receptionController.GetTagBoard)
	api.Post("/", receptionController.CreateTicket)
	api.Get("/", receptionController.GetAllTickets)
	api.Get("/:id", receptionController.GetTicketByID)
	api.Put("/:id", receptionController.UpdateTicket)
	api.Post("/:id/finalize", receptionController.FinalizeTicket)
	api.Get("/:id/events", receptionController.GetDispatchEvents)

	api.Post("/:id/bins", binController.AddBin)
	api.Get("/:id/bins", binController.GetBins)

	bins := app.Group(config.MAIN_ROUTES+"/bins", middleware.AuthMiddleware)
	bins.Put("/:bin_id", binController.UpdateBin)
	bins.Delete("/:bin_id", binController.DeleteBin)
	bins.Post("/dispatch", binController.DispatchBins)
	bins.Post("/:bin_id/revert", binController.RevertDispatch)
}
