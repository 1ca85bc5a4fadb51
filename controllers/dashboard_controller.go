package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetDashboard returns the reception activity for a single day, defaulting
// to today. Drives the patio overview screen.
func (c *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	day := ctx.Query("date")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	sql := `WITH tk AS (
			SELECT id, state FROM reception_tickets
			WHERE deleted_at IS NULL AND DATE(created_at) = ?
		), bn AS (
			SELECT b.id, b.state, b.net_weight
			FROM reception_bins b
			INNER JOIN tk ON b.ticket_id = tk.id
			WHERE b.deleted_at IS NULL
		)

		SELECT
			(SELECT COUNT(*) FROM tk) AS tickets_created,
			(SELECT COUNT(*) FROM tk WHERE state = 'pending') AS tickets_pending,
			(SELECT COUNT(*) FROM tk WHERE state = 'finalized') AS tickets_finalized,
			(SELECT COUNT(*) FROM bn) AS bins_weighed,
			(SELECT COUNT(*) FROM bn WHERE state = 'dispatched') AS bins_dispatched,
			(SELECT COALESCE(SUM(net_weight), 0) FROM bn WHERE state = 'dispatched') AS net_dispatched`

	var stats struct {
		TicketsCreated   int     `json:"tickets_created"`
		TicketsPending   int     `json:"tickets_pending"`
		TicketsFinalized int     `json:"tickets_finalized"`
		BinsWeighed      int     `json:"bins_weighed"`
		BinsDispatched   int     `json:"bins_dispatched"`
		NetDispatched    float64 `json:"net_dispatched"`
	}

	if err := c.DB.Raw(sql, day).Scan(&stats).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Dashboard found",
		"data":    fiber.Map{"date": day, "stats": stats},
	})
}
