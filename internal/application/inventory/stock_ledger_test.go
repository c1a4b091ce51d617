package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/application/inventory"
	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
	"github.com/jhoicas/Salon-api/internal/infrastructure/memory"
)

// fakeCache caché en memoria que registra invalidaciones.
type fakeCache struct {
	mu          sync.Mutex
	levels      map[string]int64
	invalidated []string
	loads       int
}

func newFakeCache() *fakeCache { return &fakeCache{levels: map[string]int64{}} }

func (c *fakeCache) Get(_ context.Context, productID string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.levels[productID]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, productID string, level int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels[productID] = level
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, productIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		delete(c.levels, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

func (c *fakeCache) Load(ctx context.Context, productID string, loader func(context.Context) (int64, error)) (int64, error) {
	if v, ok, _ := c.Get(ctx, productID); ok {
		return v, nil
	}
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	v, err := loader(ctx)
	if err != nil {
		return 0, err
	}
	return v, c.Set(ctx, productID, v)
}

func newLedger(cache *fakeCache) (*inventory.StockLedger, *memory.Store) {
	store := memory.NewStore()
	if cache == nil {
		return inventory.NewStockLedger(store, store.StockMovements(), nil, zerolog.Nop()), store
	}
	return inventory.NewStockLedger(store, store.StockMovements(), cache, zerolog.Nop()), store
}

func TestRecordMovement_StockDerivado(t *testing.T) {
	ledger, _ := newLedger(nil)
	ctx := context.Background()

	level, err := ledger.CurrentStock(ctx, "tinte")
	require.NoError(t, err)
	assert.Equal(t, int64(0), level, "producto sin movimientos")

	_, err = ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: "tinte", Type: entity.MovementTypeIN, Quantity: 12, Reason: entity.StockReasonPurchase})
	require.NoError(t, err)
	mov, err := ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: "tinte", Type: entity.MovementTypeOUT, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, entity.StockReasonAdjustment, mov.Reason, "motivo por defecto")
	assert.Equal(t, entity.ReferenceTypeManual, mov.ReferenceType)

	level, err = ledger.CurrentStock(ctx, "tinte")
	require.NoError(t, err)
	assert.Equal(t, int64(7), level)

	rebuilt, err := ledger.Rebuild(ctx, "tinte")
	require.NoError(t, err)
	assert.Equal(t, level, rebuilt)

	movs, err := ledger.ListMovements(ctx, "tinte")
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, mov.ID, movs[0].ID, "más reciente primero")
}

func TestRecordMovement_Validaciones(t *testing.T) {
	ledger, _ := newLedger(nil)
	ctx := context.Background()

	_, err := ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: "tinte", Type: entity.MovementTypeIN, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: "tinte", Type: "MOVE", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: " ", Type: entity.MovementTypeIN, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ledger.CurrentStock(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordMovementFromRequest(t *testing.T) {
	ledger, _ := newLedger(nil)
	mov, err := ledger.RecordMovementFromRequest(context.Background(), "u1", "tinte", dto.StockMovementRequest{
		Type: "IN", Quantity: 3, Reason: "purchase", ReferenceType: "invoice", ReferenceID: "F-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tinte", mov.ProductID)
	assert.Equal(t, "invoice", mov.ReferenceType)
	assert.Equal(t, "F-1", mov.ReferenceID)
	assert.Equal(t, "u1", mov.CreatedBy)
}

func TestRegisterOUTInTx_ReVerificaStock(t *testing.T) {
	ledger, store := newLedger(nil)
	ctx := context.Background()
	_, err := ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: "gel", Type: entity.MovementTypeIN, Quantity: 2})
	require.NoError(t, err)

	err = store.Run(ctx, func(stockRepo repository.StockMovementRepository, _ repository.CreditMovementRepository, _ repository.CashEntryRepository, _ repository.SaleRepository) error {
		_, err := ledger.RegisterOUTInTx(ctx, stockRepo, "gel", 2, entity.Reference{Type: entity.ReferenceTypeSale, ID: "s1"}, "u1", time.Now().UTC())
		require.NoError(t, err)
		_, err = ledger.RegisterOUTInTx(ctx, stockRepo, "gel", 1, entity.Reference{Type: entity.ReferenceTypeSale, ID: "s1"}, "u1", time.Now().UTC())
		return err
	})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(0), stockErr.Available)

	level, err := ledger.CurrentStock(ctx, "gel")
	require.NoError(t, err)
	assert.Equal(t, int64(2), level, "la transacción fallida no deja salidas")
}

func TestCache_SeInvalidaTrasCadaCommit(t *testing.T) {
	cache := newFakeCache()
	ledger, _ := newLedger(cache)
	ctx := context.Background()

	_, err := ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: "gel", Type: entity.MovementTypeIN, Quantity: 4})
	require.NoError(t, err)

	level, err := ledger.CurrentStock(ctx, "gel")
	require.NoError(t, err)
	assert.Equal(t, int64(4), level)
	level, err = ledger.CurrentStock(ctx, "gel")
	require.NoError(t, err)
	assert.Equal(t, int64(4), level)
	assert.Equal(t, 1, cache.loads, "la segunda lectura sale del caché")

	_, err = ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: "gel", Type: entity.MovementTypeOUT, Quantity: 1})
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, "gel")

	level, err = ledger.CurrentStock(ctx, "gel")
	require.NoError(t, err)
	assert.Equal(t, int64(3), level)
}
