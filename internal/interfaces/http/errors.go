package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/domain"
)

// statusByCode traduce el código de dominio a HTTP.
var statusByCode = map[string]int{
	domain.CodeInvalidInput:           fiber.StatusBadRequest,
	domain.CodeInvalidQuantity:        fiber.StatusBadRequest,
	domain.CodeInvalidAmount:          fiber.StatusBadRequest,
	domain.CodeInsufficientStock:      fiber.StatusUnprocessableEntity,
	domain.CodeAmountExceedsRemaining: fiber.StatusUnprocessableEntity,
	domain.CodeCreditExceeded:         fiber.StatusUnprocessableEntity,
	domain.CodeFiadoRequiresCustomer:  fiber.StatusUnprocessableEntity,
	domain.CodePaymentNotFullyCovered: fiber.StatusUnprocessableEntity,
	domain.CodeInvalidStateTransition: fiber.StatusConflict,
	domain.CodeConflict:               fiber.StatusConflict,
	domain.CodeSaleNotFound:           fiber.StatusNotFound,
	domain.CodeNotFound:               fiber.StatusNotFound,
	domain.CodeUnauthorized:           fiber.StatusUnauthorized,
	domain.CodeForbidden:              fiber.StatusForbidden,
}

// writeError responde con el código estable del error y su status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: domain.CodeInternal, Message: "error interno"})
	}
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		resp.Details = map[string]any{
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		}
	}
	return c.Status(status).JSON(resp)
}

// ErrorHandler para fiber.Config: errores no manejados por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = domain.CodeNotFound
		case fiber.StatusBadRequest:
			code = domain.CodeInvalidInput
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
