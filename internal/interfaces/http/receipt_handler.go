package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salon-api/internal/application/receipt"
)

// ReceiptHandler descarga el comprobante PDF de una venta.
type ReceiptHandler struct {
	uc *receipt.UseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *receipt.UseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Download godoc
// @Summary      Comprobante PDF de la venta
// @Description  Solo ventas pagadas o reembolsadas.
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *ReceiptHandler) Download(c *fiber.Ctx) error {
	body, filename, err := h.uc.Download(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(body)
}
