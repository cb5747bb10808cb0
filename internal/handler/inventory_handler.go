package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

type adjustStockRequest struct {
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes"`
}

// AdjustStock applies a signed stock delta with an audit note. Zero is a
// valid quantity (stock-count confirmation).
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req adjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Adjust(c.Context(), id, req.Quantity, req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": product})
}

func (h *InventoryHandler) RestockProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req adjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Restock(c.Context(), id, req.Quantity, req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock restocked", "data": product})
}

func (h *InventoryHandler) GetProductMovements(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	movements, err := h.service.GetMovements(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}

func (h *InventoryHandler) GetRecentMovements(c *fiber.Ctx) error {
	movements, err := h.service.GetRecentMovements(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}
