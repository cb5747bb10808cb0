package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetDailySales returns sales-per-day chart data
// Query params: days (default 7)
func (h *DashboardHandler) GetDailySales(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}

	data, err := h.service.GetDailySales(c.Context(), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch daily sales"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
