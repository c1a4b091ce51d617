package receipt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salon-api/internal/application/receipt"
	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/infrastructure/memory"
)

type fakeGenerator struct {
	calls  int
	header receipt.Header
	err    error
}

func (g *fakeGenerator) GenerateSaleReceipt(_ context.Context, _ *entity.Sale, header receipt.Header) ([]byte, error) {
	g.calls++
	g.header = header
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func seedSale(t *testing.T, store *memory.Store, id string, paid bool) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	sale := entity.NewSale(id, "", "", "", now)
	require.NoError(t, sale.AddItem(entity.SaleItem{ID: "i1", ItemType: entity.ItemTypeService, Name: "Corte", Qty: 1, UnitPrice: decimal.NewFromInt(30)}, now))
	require.NoError(t, store.Sales().Create(ctx, sale))
	if paid {
		require.NoError(t, store.Sales().CreatePayments(ctx, id, []entity.SalePayment{
			{ID: "p1", SaleID: id, Method: entity.PaymentMethodCard, Amount: decimal.NewFromInt(30), CreatedAt: now},
		}))
		require.NoError(t, store.Sales().UpdateStatus(ctx, id, entity.SaleStatusDraft, entity.SaleStatusPaid, now))
	}
}

func TestDownload(t *testing.T) {
	store := memory.NewStore()
	gen := &fakeGenerator{}
	header := receipt.Header{BusinessName: "Salón Bella"}
	uc := receipt.NewUseCase(store.Sales(), gen, header, zerolog.Nop())
	ctx := context.Background()

	seedSale(t, store, "0123456789abcdef", true)
	seedSale(t, store, "draft-sale", false)

	body, name, err := uc.Download(ctx, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(body))
	assert.Equal(t, "comprobante_01234567.pdf", name)
	assert.Equal(t, "Salón Bella", gen.header.BusinessName)

	_, _, err = uc.Download(ctx, "draft-sale")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, _, err = uc.Download(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	assert.Equal(t, 1, gen.calls)

	gen.err = errors.New("fuente faltante")
	_, _, err = uc.Download(ctx, "0123456789abcdef")
	assert.ErrorIs(t, err, gen.err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", receipt.ShortID("abc"))
	assert.Equal(t, "abcdefgh", receipt.ShortID("abcdefghijk"))
}
