package main

import (
	"fmt"
	"log"

	"patio-app/config"
	"patio-app/controllers/idgen"
	"patio-app/database"
	"patio-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	database.EnsureDatabaseExists(config.DBName)

	db, err := database.Open()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupDashboardRoutes(app, db)
	routes.SetupCustomerRoutes(app, db)
	routes.SetupDriverRoutes(app, db)
	routes.SetupReceptionRoutes(app, db)
	routes.SetupPurchaseRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("Servidor escuchando en el puerto " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
