package controllers

import (
	"strconv"

	"patio-app/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BinController struct {
	DB *gorm.DB
}

func NewBinController(DB *gorm.DB) *BinController {
	return &BinController{DB: DB}
}

func (c *BinController) AddBin(ctx *fiber.Ctx) error {
	ticketID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var payload struct {
		GrossWeight float64 `json:"gross_weight" validate:"required"`
		TareApplied float64 `json:"tare_applied"`
	}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewBinRepository(c.DB)
	bin, err := repo.AddBin(ticketID, payload.GrossWeight, payload.TareApplied, userID)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Bin weighed in successfully",
		"data":    bin,
	})
}

func (c *BinController) GetBins(ctx *fiber.Ctx) error {
	ticketID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewBinRepository(c.DB)
	bins, err := repo.GetBinsByTicket(ticketID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": bins})
}

func (c *BinController) UpdateBin(ctx *fiber.Ctx) error {
	binID, err := ctx.ParamsInt("bin_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var payload struct {
		GrossWeight      float64 `json:"gross_weight" validate:"required"`
		OutboundDriverID *uint   `json:"outbound_driver_id"`
	}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewBinRepository(c.DB)
	bin, err := repo.EditBin(uint(binID), payload.GrossWeight, payload.OutboundDriverID, userID)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Bin updated successfully",
		"data":    bin,
	})
}

func (c *BinController) DeleteBin(ctx *fiber.Ctx) error {
	binID, err := ctx.ParamsInt("bin_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewBinRepository(c.DB)
	if err := repo.DeleteBin(uint(binID), userID); err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Bin deleted successfully",
	})
}

func (c *BinController) DispatchBins(ctx *fiber.Ctx) error {
	var payload struct {
		BinIDs           []uint `json:"bin_ids" validate:"required,min=1"`
		OutboundDriverID uint   `json:"outbound_driver_id" validate:"required"`
	}
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewBinRepository(c.DB)
	if err := repo.DispatchBins(payload.BinIDs, payload.OutboundDriverID, userID); err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Bins dispatched successfully",
	})
}

func (c *BinController) RevertDispatch(ctx *fiber.Ctx) error {
	binID, err := ctx.ParamsInt("bin_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewBinRepository(c.DB)
	bin, err := repo.RevertDispatch(uint(binID), userID)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Dispatch reverted successfully",
		"data":    bin,
	})
}
