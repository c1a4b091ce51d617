package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// SaleUseCase administra la venta mientras está en borrador (carrito).
// Ninguna edición toca los ledgers: el stock solo se consume al confirmar el pago.
type SaleUseCase struct {
	saleRepo repository.SaleRepository
	stock    StockReader
	log      zerolog.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(saleRepo repository.SaleRepository, stock StockReader, log zerolog.Logger) *SaleUseCase {
	return &SaleUseCase{saleRepo: saleRepo, stock: stock, log: log}
}

// ItemInput entrada para una línea de venta.
type ItemInput struct {
	ItemType  string
	ProductID string
	ServiceID string
	Name      string
	Qty       int64
	UnitPrice decimal.Decimal
}

// CreateSaleInput entrada para abrir una venta en borrador.
type CreateSaleInput struct {
	CustomerID    string
	AppointmentID string
	Notes         string
	Items         []ItemInput
	UserID        string
}

// UpdateSaleInput campos editables de la cabecera; nil = sin cambio.
type UpdateSaleInput struct {
	CustomerID *string
	Discount   *decimal.Decimal
	Notes      *string
}

// Create abre una venta en borrador con cero o más ítems.
func (uc *SaleUseCase) Create(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	now := time.Now().UTC()
	sale := entity.NewSale(uuid.New().String(), strings.TrimSpace(in.CustomerID), in.AppointmentID, in.Notes, now)
	sale.CreatedBy = in.UserID
	for _, item := range in.Items {
		if err := uc.addItem(ctx, sale, item, now); err != nil {
			return nil, err
		}
	}
	if err := uc.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Get obtiene una venta con ítems y pagos.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	return sale, nil
}

// AddItem agrega una línea (pre-chequeo de stock para productos).
func (uc *SaleUseCase) AddItem(ctx context.Context, saleID string, in ItemInput) (*entity.Sale, error) {
	return uc.edit(ctx, saleID, func(sale *entity.Sale, now time.Time) error {
		return uc.addItem(ctx, sale, in, now)
	})
}

// RemoveItem quita una línea del borrador.
func (uc *SaleUseCase) RemoveItem(ctx context.Context, saleID, itemID string) (*entity.Sale, error) {
	return uc.edit(ctx, saleID, func(sale *entity.Sale, now time.Time) error {
		return sale.RemoveItem(itemID, now)
	})
}

// UpdateItemQty cambia la cantidad de una línea (pre-chequeo de stock para productos).
func (uc *SaleUseCase) UpdateItemQty(ctx context.Context, saleID, itemID string, qty int64) (*entity.Sale, error) {
	return uc.edit(ctx, saleID, func(sale *entity.Sale, now time.Time) error {
		if !sale.IsDraft() {
			return domain.ErrSaleNotEditable
		}
		item, ok := sale.Item(itemID)
		if !ok {
			return domain.ErrItemNotFound
		}
		if qty <= 0 {
			return domain.ErrInvalidQuantity
		}
		if item.ItemType == entity.ItemTypeProduct {
			if err := uc.precheck(ctx, item.ProductID, qty); err != nil {
				return err
			}
		}
		return sale.UpdateItemQty(itemID, qty, now)
	})
}

// UpdateItemPrice cambia el precio unitario de una línea.
func (uc *SaleUseCase) UpdateItemPrice(ctx context.Context, saleID, itemID string, unitPrice decimal.Decimal) (*entity.Sale, error) {
	return uc.edit(ctx, saleID, func(sale *entity.Sale, now time.Time) error {
		return sale.UpdateItemPrice(itemID, unitPrice, now)
	})
}

// Update aplica cambios de cabecera (cliente, descuento, notas).
func (uc *SaleUseCase) Update(ctx context.Context, saleID string, in UpdateSaleInput) (*entity.Sale, error) {
	return uc.edit(ctx, saleID, func(sale *entity.Sale, now time.Time) error {
		if !sale.IsDraft() {
			return domain.ErrSaleNotEditable
		}
		if in.CustomerID != nil {
			if err := sale.SetCustomer(strings.TrimSpace(*in.CustomerID), now); err != nil {
				return err
			}
		}
		if in.Discount != nil {
			if err := sale.SetDiscount(*in.Discount, now); err != nil {
				return err
			}
		}
		if in.Notes != nil {
			sale.Notes = *in.Notes
			sale.UpdatedAt = now
		}
		return nil
	})
}

func (uc *SaleUseCase) edit(ctx context.Context, saleID string, fn func(sale *entity.Sale, now time.Time) error) (*entity.Sale, error) {
	sale, err := uc.Get(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := fn(sale, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.saleRepo.UpdateDraft(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (uc *SaleUseCase) addItem(ctx context.Context, sale *entity.Sale, in ItemInput, now time.Time) error {
	if !sale.IsDraft() {
		return domain.ErrSaleNotEditable
	}
	item := entity.SaleItem{
		ID:        uuid.New().String(),
		ItemType:  in.ItemType,
		ProductID: strings.TrimSpace(in.ProductID),
		ServiceID: strings.TrimSpace(in.ServiceID),
		Name:      strings.TrimSpace(in.Name),
		Qty:       in.Qty,
		UnitPrice: in.UnitPrice,
	}
	if item.ItemType == entity.ItemTypeProduct && item.ProductID != "" && item.Qty > 0 {
		if err := uc.precheck(ctx, item.ProductID, item.Qty); err != nil {
			return err
		}
	}
	return sale.AddItem(item, now)
}

// precheck compara la cantidad de una línea con el stock actual. No reserva nada.
func (uc *SaleUseCase) precheck(ctx context.Context, productID string, qty int64) error {
	available, err := uc.stock.CurrentStock(ctx, productID)
	if err != nil {
		return err
	}
	if qty > available {
		return &domain.StockError{ProductID: productID, Available: available, Requested: qty}
	}
	return nil
}
