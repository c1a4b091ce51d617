package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/money"
)

type stockRepo struct {
	db *gorm.DB
}

func (r *stockRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(stockMovementFromDomain(m)).Error; err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *stockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	var rows []stockMovementModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, seq DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	out := make([]*entity.StockMovement, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *stockRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var level int64
	err := r.db.WithContext(ctx).Model(&stockMovementModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN -quantity ELSE quantity END), 0)", entity.MovementTypeOUT).
		Where("product_id = ?", productID).
		Scan(&level).Error
	if err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return level, nil
}

func (r *stockRepo) LockProduct(_ context.Context, _ string) error { return nil }

type creditRepo struct {
	db *gorm.DB
}

func (r *creditRepo) Create(ctx context.Context, m *entity.CreditMovement) error {
	if err := r.db.WithContext(ctx).Create(creditMovementFromDomain(m)).Error; err != nil {
		return fmt.Errorf("create credit movement: %w", err)
	}
	return nil
}

func (r *creditRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.CreditMovement, error) {
	var rows []creditMovementModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC, seq DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list credit movements: %w", err)
	}
	out := make([]*entity.CreditMovement, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *creditRepo) BalanceByClient(ctx context.Context, clientID string) (decimal.Decimal, error) {
	var cents int64
	err := r.db.WithContext(ctx).Model(&creditMovementModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN -amount_cents ELSE amount_cents END), 0)", entity.CreditTypeDebit).
		Where("client_id = ?", clientID).
		Scan(&cents).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit balance: %w", err)
	}
	return money.FromCents(cents), nil
}

func (r *creditRepo) LockClient(_ context.Context, _ string) error { return nil }

type cashRepo struct {
	db *gorm.DB
}

func (r *cashRepo) Create(ctx context.Context, e *entity.CashEntry) error {
	if err := r.db.WithContext(ctx).Create(cashEntryFromDomain(e)).Error; err != nil {
		return fmt.Errorf("create cash entry: %w", err)
	}
	return nil
}

func (r *cashRepo) ListByAccount(ctx context.Context, accountID string) ([]*entity.CashEntry, error) {
	var rows []cashEntryModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, seq DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cash entries: %w", err)
	}
	out := make([]*entity.CashEntry, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *cashRepo) BalanceByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var cents int64
	err := r.db.WithContext(ctx).Model(&cashEntryModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN -amount_cents ELSE amount_cents END), 0)", entity.CashEntryOUT).
		Where("account_id = ?", accountID).
		Scan(&cents).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("cash balance: %w", err)
	}
	return money.FromCents(cents), nil
}
