package receipt

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// UseCase genera el comprobante (PDF) de una venta pagada o reembolsada.
// Un borrador no tiene comprobante: sus montos todavía pueden cambiar.
type UseCase struct {
	saleRepo  repository.SaleRepository
	generator Generator
	header    Header
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(saleRepo repository.SaleRepository, generator Generator, header Header, log zerolog.Logger) *UseCase {
	return &UseCase{saleRepo: saleRepo, generator: generator, header: header, log: log}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *UseCase) Download(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrSaleNotFound
	}
	if sale.IsDraft() {
		return nil, "", fmt.Errorf("%w: la venta %s está en borrador", domain.ErrInvalidStateTransition, sale.ID)
	}

	pdfBytes, err = uc.generator.GenerateSaleReceipt(ctx, sale, uc.header)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	uc.log.Debug().Str("sale_id", sale.ID).Int("bytes", len(pdfBytes)).Msg("comprobante generado")
	return pdfBytes, Filename(sale), nil
}

// Filename nombre del archivo: comprobante_<8 primeros caracteres del ID>.pdf.
func Filename(sale *entity.Sale) string {
	return fmt.Sprintf("comprobante_%s.pdf", ShortID(sale.ID))
}

// ShortID prefijo legible del ID de la venta.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
