package controllers

import (
	"errors"

	"patio-app/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// repoError maps repository errors onto the JSON envelope every handler
// uses: validation problems carry the full field list, state-guard
// violations come back as conflicts, everything else is surfaced
// verbatim.
func repoError(ctx *fiber.Ctx, err error) error {
	var vErr *repositories.ValidationError
	switch {
	case errors.As(err, &vErr):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Validation failed",
			"fields":  vErr.Fields,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Not found"})
	case errors.Is(err, repositories.ErrTagAlreadyTaken),
		errors.Is(err, repositories.ErrAllTagsExhausted),
		errors.Is(err, repositories.ErrTicketFinalized),
		errors.Is(err, repositories.ErrBinsStillInYard),
		errors.Is(err, repositories.ErrBinNotDeletable),
		errors.Is(err, repositories.ErrBinNotDispatchable),
		errors.Is(err, repositories.ErrBinNotRevertible),
		errors.Is(err, repositories.ErrDriverNotEligible):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
}
