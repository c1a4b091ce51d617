package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
	"github.com/jhoicas/Salon-api/internal/infrastructure/sqlite"
)

var now = time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "salon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLedgers_SumasYOrden(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	stock := store.StockMovements()
	require.NoError(t, stock.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "gel", Type: entity.MovementTypeIN, Quantity: 10, CreatedAt: now}))
	require.NoError(t, stock.Create(ctx, &entity.StockMovement{ID: "m2", ProductID: "gel", Type: entity.MovementTypeOUT, Quantity: 4, CreatedAt: now}))
	level, err := stock.SumByProduct(ctx, "gel")
	require.NoError(t, err)
	assert.Equal(t, int64(6), level)
	movs, err := stock.ListByProduct(ctx, "gel")
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "m2", movs[0].ID, "mismo timestamp: desempata el orden de inserción")

	level, err = stock.SumByProduct(ctx, "sin-movimientos")
	require.NoError(t, err)
	assert.Equal(t, int64(0), level)

	credit := store.CreditMovements()
	require.NoError(t, credit.Create(ctx, &entity.CreditMovement{ID: "c1", ClientID: "ana", Type: entity.CreditTypeCredit, Amount: decimal.RequireFromString("10.10"), Origin: entity.CreditOriginDeposit, CreatedAt: now}))
	require.NoError(t, credit.Create(ctx, &entity.CreditMovement{ID: "c2", ClientID: "ana", Type: entity.CreditTypeDebit, Amount: decimal.RequireFromString("30.20"), Origin: entity.CreditOriginFiado, CreatedAt: now.Add(time.Minute)}))
	balance, err := credit.BalanceByClient(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "-20.10", balance.StringFixed(2))
	cmovs, err := credit.ListByClient(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, cmovs, 2)
	assert.Equal(t, "30.20", cmovs[0].Amount.StringFixed(2), "montos exactos desde centavos")

	cash := store.CashEntries()
	require.NoError(t, cash.Create(ctx, &entity.CashEntry{ID: "e1", AccountID: "caja", Type: entity.CashEntryIN, Method: entity.PaymentMethodCash, Amount: decimal.RequireFromString("0.30"), CreatedAt: now}))
	require.NoError(t, cash.Create(ctx, &entity.CashEntry{ID: "e2", AccountID: "caja", Type: entity.CashEntryIN, Method: entity.PaymentMethodCash, Amount: decimal.RequireFromString("0.60"), CreatedAt: now}))
	cashBalance, err := cash.BalanceByAccount(ctx, "caja")
	require.NoError(t, err)
	assert.True(t, cashBalance.Equal(decimal.RequireFromString("0.90")))
}

func TestRun_RollbackAtomico(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(stock repository.StockMovementRepository, credit repository.CreditMovementRepository, _ repository.CashEntryRepository, _ repository.SaleRepository) error {
		require.NoError(t, stock.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "gel", Type: entity.MovementTypeIN, Quantity: 3, CreatedAt: now}))
		require.NoError(t, credit.Create(ctx, &entity.CreditMovement{ID: "c1", ClientID: "ana", Type: entity.CreditTypeCredit, Amount: decimal.NewFromInt(5), CreatedAt: now}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	level, err := store.StockMovements().SumByProduct(ctx, "gel")
	require.NoError(t, err)
	assert.Equal(t, int64(0), level)
	balance, err := store.CreditMovements().BalanceByClient(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestSales_CicloCompleto(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	repo := store.Sales()

	sale := entity.NewSale("s1", "ana", "cita-1", "nota", now)
	require.NoError(t, sale.AddItem(entity.SaleItem{ID: "i1", ItemType: entity.ItemTypeService, ServiceID: "corte", Name: "Corte", Qty: 1, UnitPrice: decimal.RequireFromString("30.50")}, now))
	require.NoError(t, sale.AddItem(entity.SaleItem{ID: "i2", ItemType: entity.ItemTypeProduct, ProductID: "gel", Name: "Gel", Qty: 2, UnitPrice: decimal.RequireFromString("9.75")}, now))
	require.NoError(t, repo.Create(ctx, sale))
	assert.ErrorIs(t, repo.Create(ctx, sale), domain.ErrConflict)

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.SaleStatusDraft, got.Status)
	assert.Equal(t, "50.00", got.Total.StringFixed(2))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "i1", got.Items[0].ID, "se conserva el orden de los ítems")
	assert.Equal(t, "19.50", got.Items[1].TotalPrice.StringFixed(2))

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, got.RemoveItem("i1", now))
	require.NoError(t, repo.UpdateDraft(ctx, got))
	got, err = repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "19.50", got.Total.StringFixed(2))

	given, change := decimal.NewFromInt(20), decimal.RequireFromString("0.50")
	err = store.Run(ctx, func(_ repository.StockMovementRepository, _ repository.CreditMovementRepository, _ repository.CashEntryRepository, sales repository.SaleRepository) error {
		locked, err := sales.GetForUpdate(ctx, "s1")
		if err != nil {
			return err
		}
		require.NotNil(t, locked)
		if err := sales.CreatePayments(ctx, "s1", []entity.SalePayment{
			{ID: "p1", SaleID: "s1", Method: entity.PaymentMethodCash, Amount: decimal.RequireFromString("19.50"), CashGiven: &given, Change: &change, CreatedAt: now},
		}); err != nil {
			return err
		}
		return sales.UpdateStatus(ctx, "s1", entity.SaleStatusDraft, entity.SaleStatusPaid, now)
	})
	require.NoError(t, err)

	paid, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	require.Len(t, paid.Payments, 1)
	require.NotNil(t, paid.Payments[0].Change)
	assert.Equal(t, "0.50", paid.Payments[0].Change.StringFixed(2))

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "s1", entity.SaleStatusDraft, entity.SaleStatusPaid, now), domain.ErrConflict)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", entity.SaleStatusDraft, entity.SaleStatusPaid, now), domain.ErrSaleNotFound)
	assert.ErrorIs(t, repo.UpdateDraft(ctx, paid), domain.ErrSaleNotEditable)
}

func TestUsers_EmailUnico(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	repo := store.Users()

	u := &entity.User{ID: "u1", Email: "ana@salon.com", PasswordHash: "hash", Name: "Ana", Role: entity.RoleCashier, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))

	dup := *u
	dup.ID = "u2"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrEmailAlreadyExists)

	got, err := repo.GetByEmail(ctx, "ana@salon.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
	assert.True(t, got.IsActive())

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
