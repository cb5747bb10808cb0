package handler

import (
	"errors"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps the closed business error kinds to HTTP statuses.
// Anything unrecognized is an infrastructure failure.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, model.ErrDuplicateBarcode),
		errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrNegativeStockResult),
		errors.Is(err, model.ErrProductInactive),
		errors.Is(err, model.ErrProductReferenced):
		status = fiber.StatusConflict
	case errors.Is(err, model.ErrEmptyOrder),
		errors.Is(err, model.ErrInvalidPeriod),
		errors.Is(err, validator.ErrValidation):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
