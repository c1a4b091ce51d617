package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Ledgers
	ErrInvalidQuantity   = errors.New("cantidad inválida: debe ser mayor que cero")
	ErrInvalidAmount     = errors.New("monto inválido: debe ser mayor que cero")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Asignación de pagos
	ErrAmountExceedsRemaining = errors.New("el monto excede el saldo pendiente")
	ErrCreditExceeded         = errors.New("crédito del cliente insuficiente")
	ErrFiadoRequiresCustomer  = errors.New("fiado requiere un cliente en la venta")
	ErrPaymentNotFullyCovered = errors.New("los pagos no cubren el total de la venta")

	// Máquina de estados de la venta
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrSaleNotFound           = errors.New("venta no encontrada")
	ErrItemNotFound           = errors.New("ítem no encontrado en la venta")

	ErrSaleAlreadyPaid = fmt.Errorf("%w: la venta ya fue pagada", ErrInvalidStateTransition)
	ErrSaleRefunded    = fmt.Errorf("%w: la venta fue reembolsada", ErrInvalidStateTransition)
	ErrSaleNotEditable = fmt.Errorf("%w: solo se edita una venta en borrador", ErrInvalidStateTransition)

	// Personal
	ErrEmailAlreadyExists = fmt.Errorf("%w: el email ya está registrado", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: credenciales inválidas", ErrUnauthorized)
	ErrUserInactive       = fmt.Errorf("%w: cuenta inactiva", ErrForbidden)
)

// StockError detalla un faltante de stock (pre-chequeo o re-chequeo al confirmar).
type StockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", e.ProductID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// Códigos de error expuestos a los consumidores (conjunto cerrado).
const (
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInvalidQuantity        = "INVALID_QUANTITY"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeAmountExceedsRemaining = "AMOUNT_EXCEEDS_REMAINING"
	CodeCreditExceeded         = "CREDIT_EXCEEDED"
	CodeFiadoRequiresCustomer  = "FIADO_REQUIRES_CUSTOMER"
	CodePaymentNotFullyCovered = "PAYMENT_NOT_FULLY_COVERED"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeSaleNotFound           = "SALE_NOT_FOUND"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeInternal               = "INTERNAL"
)

// Code traduce un error al código estable que ve el cliente.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrAmountExceedsRemaining):
		return CodeAmountExceedsRemaining
	case errors.Is(err, ErrCreditExceeded):
		return CodeCreditExceeded
	case errors.Is(err, ErrFiadoRequiresCustomer):
		return CodeFiadoRequiresCustomer
	case errors.Is(err, ErrPaymentNotFullyCovered):
		return CodePaymentNotFullyCovered
	case errors.Is(err, ErrInvalidStateTransition):
		return CodeInvalidStateTransition
	case errors.Is(err, ErrSaleNotFound):
		return CodeSaleNotFound
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrItemNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}
