package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salon-api/internal/application/cash"
	"github.com/jhoicas/Salon-api/internal/application/credit"
	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/application/inventory"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/money"
)

// StockHandler consulta y registra movimientos del ledger de stock.
type StockHandler struct {
	ledger *inventory.StockLedger
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.StockLedger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// GetStock godoc
// @Summary      Stock derivado de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true  "ID del producto"
// @Success      200        {object}  dto.StockLevelResponse
// @Router       /api/stock/{productId} [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	productID := c.Params("productId")
	level, err := h.ledger.CurrentStock(c.Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockLevelResponse{ProductID: productID, Stock: level})
}

// Rebuild godoc
// @Summary      Recalcular stock desde el ledger y reescribir el caché
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true  "ID del producto"
// @Success      200        {object}  dto.StockLevelResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/rebuild [post]
func (h *StockHandler) Rebuild(c *fiber.Ctx) error {
	productID := c.Params("productId")
	level, err := h.ledger.Rebuild(c.Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockLevelResponse{ProductID: productID, Stock: level})
}

// ListMovements godoc
// @Summary      Movimientos de stock de un producto (más recientes primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path      string  true   "ID del producto"
// @Param        limit      query     int     false  "máximo de movimientos (1-100, por defecto 20)"
// @Param        offset     query     int     false  "desplazamiento"
// @Success      200        {object}  dto.StockMovementListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("productId")
	page, err := bindPage(c)
	if err != nil {
		return writeError(c, err)
	}
	movs, err := h.ledger.ListMovements(c.Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StockMovementListResponse{
		ProductID: productID,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(movs)},
	}
	for _, m := range movs {
		out.Stock += m.Signed()
	}
	visible := pageOf(movs, page)
	out.Items = make([]dto.StockMovementResponse, 0, len(visible))
	for _, m := range visible {
		out.Items = append(out.Items, toStockMovementResponse(m))
	}
	return c.JSON(out)
}

// RecordMovement godoc
// @Summary      Registrar movimiento manual (compra, ajuste)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path      string                    true  "ID del producto"
// @Param        body       body      dto.StockMovementRequest  true  "type IN|OUT, quantity, reason"
// @Success      201        {object}  dto.StockMovementResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	mov, err := h.ledger.RecordMovementFromRequest(c.Context(), GetUserID(c), c.Params("productId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockMovementResponse(mov))
}

// CreditHandler billetera de crédito / fiado del cliente.
type CreditHandler struct {
	ledger *credit.CreditLedger
}

// NewCreditHandler construye el handler.
func NewCreditHandler(ledger *credit.CreditLedger) *CreditHandler {
	return &CreditHandler{ledger: ledger}
}

// Balance godoc
// @Summary      Saldo de crédito del cliente (negativo = deuda)
// @Tags         credit
// @Security     Bearer
// @Produce      json
// @Param        clientId  path      string  true  "ID del cliente"
// @Success      200       {object}  dto.CreditBalanceResponse
// @Router       /api/clients/{clientId}/credit [get]
func (h *CreditHandler) Balance(c *fiber.Ctx) error {
	clientID := c.Params("clientId")
	balance, err := h.ledger.Balance(c.Context(), clientID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CreditBalanceResponse{
		ClientID: clientID,
		Balance:  balance,
		Debt:     money.NonNegative(balance.Neg()),
	})
}

// ListMovements godoc
// @Summary      Movimientos de crédito del cliente (más recientes primero)
// @Tags         credit
// @Security     Bearer
// @Produce      json
// @Param        clientId  path      string  true   "ID del cliente"
// @Param        limit     query     int     false  "máximo de movimientos (1-100, por defecto 20)"
// @Param        offset    query     int     false  "desplazamiento"
// @Success      200       {object}  dto.CreditMovementListResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/clients/{clientId}/credit/movements [get]
func (h *CreditHandler) ListMovements(c *fiber.Ctx) error {
	clientID := c.Params("clientId")
	page, err := bindPage(c)
	if err != nil {
		return writeError(c, err)
	}
	movs, err := h.ledger.ListMovements(c.Context(), clientID)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CreditMovementListResponse{
		ClientID: clientID,
		Page:     dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(movs)},
	}
	for _, m := range movs {
		out.Balance = out.Balance.Add(m.Signed())
	}
	visible := pageOf(movs, page)
	out.Items = make([]dto.CreditMovementResponse, 0, len(visible))
	for _, m := range visible {
		out.Items = append(out.Items, toCreditMovementResponse(m))
	}
	return c.JSON(out)
}

// RecordMovement godoc
// @Summary      Registrar movimiento de crédito
// @Description  origin "deposit" abona crédito; "fiado-payment" salda deuda (no puede superarla).
// @Tags         credit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        clientId  path      string                     true  "ID del cliente"
// @Param        body      body      dto.CreditMovementRequest  true  "type, amount, origin, note"
// @Success      201       {object}  dto.CreditMovementResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      422       {object}  dto.ErrorResponse
// @Router       /api/clients/{clientId}/credit/movements [post]
func (h *CreditHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.CreditMovementRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	clientID, userID := c.Params("clientId"), GetUserID(c)
	var (
		mov *entity.CreditMovement
		err error
	)
	switch {
	case in.Type == entity.CreditTypeCredit && in.Origin == entity.CreditOriginDeposit:
		mov, err = h.ledger.Deposit(c.Context(), clientID, in.Amount, in.Note, userID)
	case in.Type == entity.CreditTypeCredit && in.Origin == entity.CreditOriginFiadoPaid:
		mov, err = h.ledger.SettleDebt(c.Context(), clientID, in.Amount, in.Note, userID)
	default:
		mov, err = h.ledger.RecordMovement(c.Context(), credit.MovementInput{
			ClientID: clientID,
			Type:     in.Type,
			Amount:   in.Amount,
			Origin:   in.Origin,
			Note:     in.Note,
			UserID:   userID,
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCreditMovementResponse(mov))
}

// CashHandler saldo de las cuentas de caja.
type CashHandler struct {
	ledger *cash.CashLedger
}

// NewCashHandler construye el handler.
func NewCashHandler(ledger *cash.CashLedger) *CashHandler {
	return &CashHandler{ledger: ledger}
}

// Balance godoc
// @Summary      Saldo de una cuenta de caja
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        accountId  path      string  true  "ID de la cuenta"
// @Success      200        {object}  dto.CashBalanceResponse
// @Router       /api/cash/{accountId}/balance [get]
func (h *CashHandler) Balance(c *fiber.Ctx) error {
	accountID := c.Params("accountId")
	balance, err := h.ledger.Balance(c.Context(), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CashBalanceResponse{AccountID: accountID, Balance: balance})
}
