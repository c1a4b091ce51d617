package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Motivos usados por el motor de checkout.
const (
	StockReasonSale       = "sale"
	StockReasonRefund     = "refund"
	StockReasonPurchase   = "purchase"
	StockReasonAdjustment = "adjustment"
)

// Tipos de referencia de negocio.
const (
	ReferenceTypeSale   = "sale"
	ReferenceTypeManual = "manual"
)

// Reference apunta al documento de negocio que originó un movimiento.
type Reference struct {
	Type string
	ID   string
}

// StockMovement es un evento inmutable de inventario. El stock actual de un producto
// es la suma de entradas menos la suma de salidas de sus movimientos.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string // IN, OUT
	Quantity      int64  // siempre positivo; el signo lo da Type
	Reason        string
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	CreatedAt     time.Time
}

// Signed devuelve la cantidad con signo según el tipo.
func (m *StockMovement) Signed() int64 {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}

// ValidStockMovementType indica si el tipo es IN u OUT.
func ValidStockMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}
