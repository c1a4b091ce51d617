package dto

import "time"

// StockMovementRequest body para POST /api/stock/:productId/movements.
type StockMovementRequest struct {
	Type          string `json:"type" validate:"required,oneof=IN OUT"`
	Quantity      int64  `json:"quantity" validate:"gt=0"`
	Reason        string `json:"reason" validate:"omitempty,max=50"`
	ReferenceType string `json:"reference_type" validate:"omitempty,max=30"`
	ReferenceID   string `json:"reference_id" validate:"omitempty,max=100"`
}

// StockMovementResponse salida de un movimiento de stock.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	Reason        string    `json:"reason"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockLevelResponse stock derivado de un producto.
type StockLevelResponse struct {
	ProductID string `json:"product_id"`
	Stock     int64  `json:"stock"`
}

// StockMovementListResponse movimientos de un producto, más recientes primero.
type StockMovementListResponse struct {
	ProductID string                  `json:"product_id"`
	Stock     int64                   `json:"stock"`
	Items     []StockMovementResponse `json:"items"`
	Page      PageResponse            `json:"page"`
}
