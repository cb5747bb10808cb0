package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetSalesReport resolves the report window from the period keyword and
// the optional explicit bounds, then aggregates completed sales in it.
// Query params: period (daily|weekly|monthly, default daily), start_date,
// end_date.
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	period := service.ReportPeriod(c.Query("period", string(service.PeriodDaily)))

	start, err := parseDateQuery(c.Query("start_date"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start_date"})
	}
	end, err := parseDateQuery(c.Query("end_date"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end_date"})
	}

	report, err := h.service.GetSalesReport(c.Context(), period, start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
