package handler

import (
	"time"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	service service.SaleService
}

func NewTransactionHandler(s service.SaleService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.service.CreateSale(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale completed", "data": transaction})
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Status:        model.TransactionStatus(c.Query("status")),
		PaymentMethod: model.PaymentMethod(c.Query("payment_method")),
	}
	if start, err := parseDateQuery(c.Query("start_date")); err == nil && start != nil {
		filter.StartDate = start
	}
	if end, err := parseDateQuery(c.Query("end_date")); err == nil && end != nil {
		filter.EndDate = end
	}

	transactions, err := h.service.GetAllTransactions(c.Context(), filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.service.GetTransactionByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transaction)
}

// parseDateQuery accepts RFC3339 timestamps or plain dates (2006-01-02).
func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
