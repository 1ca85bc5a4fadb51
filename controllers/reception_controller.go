package controllers

import (
	"log"
	"strconv"

	"patio-app/models"
	"patio-app/repositories"
	"patio-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReceptionController struct {
	DB *gorm.DB
}

func NewReceptionController(DB *gorm.DB) *ReceptionController {
	return &ReceptionController{DB: DB}
}

// GetTagBoard feeds the creation dialog: the full palette, the tags held
// by pending tickets right now, and the suggested free tag. Queried
// fresh on every call so concurrent operators see each other.
func (c *ReceptionController) GetTagBoard(ctx *fiber.Ctx) error {
	repo := repositories.NewReceptionRepository(c.DB)

	used, err := repo.ListUsedTags()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	suggested, err := repositories.SuggestTag(used)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"palette":   models.ColorPalette,
			"used":      used,
			"suggested": suggested,
		},
	})
}

func (c *ReceptionController) CreateTicket(ctx *fiber.Ctx) error {
	var payload repositories.TicketInput
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewReceptionRepository(c.DB)
	ticket, err := repo.CreateTicket(&payload, userID)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Ticket created successfully",
		"data":    ticket,
	})
}

func (c *ReceptionController) GetAllTickets(ctx *fiber.Ctx) error {
	filter := repositories.ListTicketsFilter{
		State:    ctx.Query("state"),
		DateFrom: ctx.Query("date_from"),
		DateTo:   ctx.Query("date_to"),
	}
	if v := ctx.Query("customer_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer_id"})
		}
		filter.CustomerID = uint(id)
	}
	if v := ctx.Query("is_rejection"); v != "" {
		rejection := v == "true" || v == "1"
		filter.IsRejection = &rejection
	}

	repo := repositories.NewReceptionRepository(c.DB)
	result, err := repo.ListTickets(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": result})
}

func (c *ReceptionController) GetTicketByID(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewReceptionRepository(c.DB)
	ticket, err := repo.GetTicket(id)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": ticket})
}

func (c *ReceptionController) UpdateTicket(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var payload repositories.TicketInput
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewReceptionRepository(c.DB)
	ticket, err := repo.EditTicket(id, &payload, userID)
	if err != nil {
		return repoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Ticket updated successfully",
		"data":    ticket,
	})
}

// FinalizeTicket closes the ticket and emits the purchase record. When
// bins remain in yard the client must resend with force=true after the
// operator confirms the forced close.
func (c *ReceptionController) FinalizeTicket(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var payload struct {
		Force bool `json:"force"`
	}
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	userID := int(ctx.Locals("userID").(float64))

	repo := repositories.NewReceptionRepository(c.DB)
	purchase, err := repo.FinalizeTicket(id, payload.Force, userID)
	if err != nil {
		return repoError(ctx, err)
	}

	var customer models.Customer
	if err := c.DB.First(&customer, purchase.CustomerID).Error; err == nil {
		if mailErr := services.SendPricingPendingMail(purchase, customer.CustomerName); mailErr != nil {
			log.Printf("Warning: pricing notification mail failed for purchase %d: %v", purchase.ID, mailErr)
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Ticket finalized successfully",
		"data":    purchase,
	})
}

func (c *ReceptionController) GetDispatchEvents(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewBinRepository(c.DB)
	events, err := repo.ListDispatchEvents(id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": events})
}
