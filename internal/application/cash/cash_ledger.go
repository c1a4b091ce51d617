package cash

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/money"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// AccountResolver resuelve la cuenta (caja, banco, adquirente) que recibe cada medio de pago.
type AccountResolver interface {
	AccountFor(method string) (string, error)
}

// AccountMap asocia medio de pago → cuenta. Se carga desde la configuración.
type AccountMap map[string]string

// AccountFor implementa AccountResolver.
func (m AccountMap) AccountFor(method string) (string, error) {
	if id, ok := m[method]; ok && id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: sin cuenta configurada para el medio %q", domain.ErrInvalidInput, method)
}

// CashLedger es el sumidero contable de los pagos en dinero (cash, pix, card, transfer).
// Los reportes consumen sus asientos; aquí solo se escriben y se pliegan por cuenta.
type CashLedger struct {
	entryRepo repository.CashEntryRepository
	accounts  AccountResolver
}

// NewCashLedger construye el ledger de caja.
func NewCashLedger(entryRepo repository.CashEntryRepository, accounts AccountResolver) *CashLedger {
	return &CashLedger{entryRepo: entryRepo, accounts: accounts}
}

// RecordTenderInTx registra la entrada (IN) de un pago en la cuenta de su medio,
// dentro de la transacción del caller.
func (l *CashLedger) RecordTenderInTx(
	ctx context.Context,
	cashRepo repository.CashEntryRepository,
	method string,
	amount decimal.Decimal,
	ref entity.Reference,
	description string,
	now time.Time,
) (*entity.CashEntry, error) {
	if !entity.IsMoneyTender(method) {
		return nil, domain.ErrInvalidInput
	}
	amount = money.Round(amount)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	accountID, err := l.accounts.AccountFor(method)
	if err != nil {
		return nil, err
	}
	entry := &entity.CashEntry{
		ID:            uuid.New().String(),
		AccountID:     accountID,
		Type:          entity.CashEntryIN,
		Method:        method,
		Amount:        amount,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		Description:   description,
		CreatedAt:     now,
	}
	if err := cashRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance devuelve el saldo derivado de una cuenta.
func (l *CashLedger) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if strings.TrimSpace(accountID) == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return l.entryRepo.BalanceByAccount(ctx, accountID)
}

// ListEntries devuelve los asientos de la cuenta, más recientes primero.
func (l *CashLedger) ListEntries(ctx context.Context, accountID string) ([]*entity.CashEntry, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.entryRepo.ListByAccount(ctx, accountID)
}
