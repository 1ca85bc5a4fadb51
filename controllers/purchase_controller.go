package controllers

import (
	"strconv"

	"patio-app/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PurchaseController struct {
	DB *gorm.DB
}

func NewPurchaseController(DB *gorm.DB) *PurchaseController {
	return &PurchaseController{DB: DB}
}

func (c *PurchaseController) GetAllPurchases(ctx *fiber.Ctx) error {
	filter := repositories.ListPurchasesFilter{
		PricingStatus: ctx.Query("pricing_status"),
	}
	if v := ctx.Query("week"); v != "" {
		week, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week"})
		}
		filter.WeekNumber = week
	}
	if v := ctx.Query("customer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer_id"})
		}
		filter.CustomerID = uint(id)
	}

	repo := repositories.NewPurchaseRepository(c.DB)
	result, err := repo.ListPurchases(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": result})
}

func (c *PurchaseController) GetPurchaseByID(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewPurchaseRepository(c.DB)
	purchase, err := repo.GetPurchase(id)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": purchase})
}

// SetPricing lets an administrator complete the pricing fields that
// finalize deliberately left null.
func (c *PurchaseController) SetPricing(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var payload struct {
		PricePerKilo float64 `json:"price_per_kilo" validate:"required"`
	}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewPurchaseRepository(c.DB)
	purchase, err := repo.SetPricing(id, payload.PricePerKilo, userID)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pricing set successfully",
		"data":    purchase,
	})
}
