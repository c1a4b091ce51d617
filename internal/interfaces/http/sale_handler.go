package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salon-api/internal/application/checkout"
	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/application/refund"
	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// SaleHandler maneja el ciclo de vida de la venta: carrito, checkout y reembolso.
type SaleHandler struct {
	sales     *checkout.SaleUseCase
	allocator *checkout.PaymentAllocator
	refunds   *refund.Engine
}

// NewSaleHandler construye el handler.
func NewSaleHandler(sales *checkout.SaleUseCase, allocator *checkout.PaymentAllocator, refunds *refund.Engine) *SaleHandler {
	return &SaleHandler{sales: sales, allocator: allocator, refunds: refunds}
}

// Create godoc
// @Summary      Abrir venta en borrador
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "cliente, cita, notas e ítems iniciales"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	input := checkout.CreateSaleInput{
		CustomerID:    in.CustomerID,
		AppointmentID: in.AppointmentID,
		Notes:         in.Notes,
		UserID:        GetUserID(c),
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, toItemInput(it))
	}
	sale, err := h.sales.Create(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// Get godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, err := h.sales.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Update godoc
// @Summary      Editar cabecera de la venta (cliente, descuento, notas)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID de la venta"
// @Param        body  body      dto.UpdateSaleRequest  true  "campos a modificar"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [patch]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	sale, err := h.sales.Update(c.Context(), c.Params("id"), checkout.UpdateSaleInput{
		CustomerID: in.CustomerID,
		Discount:   in.Discount,
		Notes:      in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// AddItem godoc
// @Summary      Agregar ítem al borrador
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID de la venta"
// @Param        body  body      dto.SaleItemRequest  true  "servicio o producto"
// @Success      200   {object}  dto.SaleResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/items [post]
func (h *SaleHandler) AddItem(c *fiber.Ctx) error {
	var in dto.SaleItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	sale, err := h.sales.AddItem(c.Context(), c.Params("id"), toItemInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// UpdateItem godoc
// @Summary      Cambiar cantidad o precio de un ítem
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path      string                     true  "ID de la venta"
// @Param        itemId  path      string                     true  "ID del ítem"
// @Param        body    body      dto.UpdateSaleItemRequest  true  "qty y/o unit_price"
// @Success      200     {object}  dto.SaleResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/items/{itemId} [patch]
func (h *SaleHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateSaleItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	if in.Qty == nil && in.UnitPrice == nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	saleID, itemID := c.Params("id"), c.Params("itemId")
	var (
		sale *entity.Sale
		err  error
	)
	if in.Qty != nil {
		if sale, err = h.sales.UpdateItemQty(c.Context(), saleID, itemID, *in.Qty); err != nil {
			return writeError(c, err)
		}
	}
	if in.UnitPrice != nil {
		if sale, err = h.sales.UpdateItemPrice(c.Context(), saleID, itemID, *in.UnitPrice); err != nil {
			return writeError(c, err)
		}
	}
	return c.JSON(toSaleResponse(sale))
}

// RemoveItem godoc
// @Summary      Quitar ítem del borrador
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true  "ID de la venta"
// @Param        itemId  path      string  true  "ID del ítem"
// @Success      200     {object}  dto.SaleResponse
// @Router       /api/sales/{id}/items/{itemId} [delete]
func (h *SaleHandler) RemoveItem(c *fiber.Ctx) error {
	sale, err := h.sales.RemoveItem(c.Context(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Preview godoc
// @Summary      Simular asignación de pagos (sin confirmar)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID de la venta"
// @Param        body  body      dto.CheckoutRequest  true  "medios de pago"
// @Success      200   {object}  dto.PaymentSummaryResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments/preview [post]
func (h *SaleHandler) Preview(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	summary, err := h.allocator.Preview(c.Context(), c.Params("id"), toTenderInputs(in.Tenders))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSummaryResponse(summary))
}

// Checkout godoc
// @Summary      Confirmar pago de la venta
// @Description  Asigna los medios de pago y confirma stock, crédito, caja, pagos y estado en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID de la venta"
// @Param        body  body      dto.CheckoutRequest  true  "medios de pago"
// @Success      200   {object}  dto.CheckoutResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	sale, summary, err := h.allocator.Checkout(c.Context(), c.Params("id"), GetUserID(c), toTenderInputs(in.Tenders))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CheckoutResponse{Sale: toSaleResponse(sale), Summary: toSummaryResponse(summary)})
}

// Refund godoc
// @Summary      Reembolsar venta pagada
// @Description  Devuelve los productos al stock. Los pagos se conservan para auditoría.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/refund [post]
func (h *SaleHandler) Refund(c *fiber.Ctx) error {
	sale, err := h.refunds.Refund(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}
