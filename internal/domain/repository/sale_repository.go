package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas, ítems y pagos.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve nil, nil si la venta no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate igual que GetByID pero bloquea la venta hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// UpdateDraft reemplaza ítems y cabecera editable (cliente, descuento, totales, notas).
	UpdateDraft(ctx context.Context, sale *entity.Sale) error
	// CreatePayments persiste los pagos de la venta (una única vez).
	CreatePayments(ctx context.Context, saleID string, payments []entity.SalePayment) error
	// UpdateStatus aplica la transición solo si el estado actual es from; si no, domain.ErrConflict.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
}
