package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

type saleRepo struct {
	db *gorm.DB
}

func (r *saleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(saleFromDomain(sale)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("create sale: %w", domain.ErrConflict)
			}
			return fmt.Errorf("create sale: %w", err)
		}
		if items := itemsFromDomain(sale.ID, sale.Items); len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("create sale items: %w", err)
			}
		}
		return nil
	})
}

func (r *saleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	db := r.db.WithContext(ctx)
	var m saleModel
	if err := db.Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	var items []saleItemModel
	if err := db.Where("sale_id = ?", id).Order("position").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	var payments []salePaymentModel
	if err := db.Where("sale_id = ?", id).Order("position").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	return saleToDomain(&m, items, payments), nil
}

// GetForUpdate equivale a GetByID: la única conexión ya serializa las transacciones.
func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) UpdateDraft(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := saleFromDomain(sale)
		res := tx.Model(&saleModel{}).
			Where("id = ? AND status = ?", sale.ID, entity.SaleStatusDraft).
			Updates(map[string]any{
				"customer_id":    m.CustomerID,
				"appointment_id": m.AppointmentID,
				"subtotal_cents": m.SubtotalCents,
				"discount_cents": m.DiscountCents,
				"total_cents":    m.TotalCents,
				"notes":          m.Notes,
				"updated_at":     m.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("update sale: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return missingOr(tx, sale.ID, domain.ErrSaleNotEditable)
		}
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&saleItemModel{}).Error; err != nil {
			return fmt.Errorf("delete sale items: %w", err)
		}
		if items := itemsFromDomain(sale.ID, sale.Items); len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("create sale items: %w", err)
			}
		}
		return nil
	})
}

func (r *saleRepo) CreatePayments(ctx context.Context, saleID string, payments []entity.SalePayment) error {
	rows := paymentsFromDomain(saleID, payments)
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("create sale payments: %w", err)
	}
	return nil
}

func (r *saleRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	fields := map[string]any{"status": to, "updated_at": at}
	switch to {
	case entity.SaleStatusPaid:
		fields["paid_at"] = at
	case entity.SaleStatusRefunded:
		fields["refunded_at"] = at
	}
	db := r.db.WithContext(ctx)
	res := db.Model(&saleModel{}).Where("id = ? AND status = ?", id, from).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update sale status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return missingOr(db, id, fmt.Errorf("%w: la venta %s no está en estado %s", domain.ErrConflict, id, from))
	}
	return nil
}

func missingOr(db *gorm.DB, id string, err error) error {
	var n int64
	if cerr := db.Model(&saleModel{}).Where("id = ?", id).Count(&n).Error; cerr != nil {
		return fmt.Errorf("check sale: %w", cerr)
	}
	if n == 0 {
		return domain.ErrSaleNotFound
	}
	return err
}
