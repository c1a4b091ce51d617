package receipt

import (
	"context"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

// Header datos del salón impresos en el comprobante.
type Header struct {
	BusinessName string
	TaxID        string
	Address      string
	Phone        string
	Footer       string
}

// Generator puerto de salida para renderizar el comprobante de una venta (PDF).
type Generator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, header Header) ([]byte, error)
}
