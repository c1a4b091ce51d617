package credit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Salon-api/internal/application/ports"
	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
	"github.com/jhoicas/Salon-api/internal/domain/money"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

// CreditLedger administra la billetera de cada cliente como ledger de solo inserción.
// El saldo nunca se escribe: siempre se deriva (Σ CREDIT − Σ DEBIT), y puede ser negativo.
type CreditLedger struct {
	txRunner ports.TxRunner
	movRepo  repository.CreditMovementRepository
	log      zerolog.Logger
}

// NewCreditLedger construye el ledger de crédito.
func NewCreditLedger(txRunner ports.TxRunner, movRepo repository.CreditMovementRepository, log zerolog.Logger) *CreditLedger {
	return &CreditLedger{txRunner: txRunner, movRepo: movRepo, log: log}
}

// MovementInput entrada para registrar un movimiento de crédito.
type MovementInput struct {
	ClientID    string
	Type        string // CREDIT, DEBIT
	Amount      decimal.Decimal
	Origin      string
	Note        string
	ReferenceID string
	UserID      string
}

// RecordMovement valida y agrega un movimiento en su propia transacción.
func (l *CreditLedger) RecordMovement(ctx context.Context, input MovementInput) (*entity.CreditMovement, error) {
	if err := validate(&input); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var mov *entity.CreditMovement
	err := l.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		creditRepo repository.CreditMovementRepository,
		_ repository.CashEntryRepository,
		_ repository.SaleRepository,
	) error {
		if err := creditRepo.LockClient(ctx, input.ClientID); err != nil {
			return err
		}
		mov = newMovement(input, now)
		return creditRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Deposit abona crédito a favor del cliente.
func (l *CreditLedger) Deposit(ctx context.Context, clientID string, amount decimal.Decimal, note, userID string) (*entity.CreditMovement, error) {
	return l.RecordMovement(ctx, MovementInput{
		ClientID: clientID,
		Type:     entity.CreditTypeCredit,
		Amount:   amount,
		Origin:   entity.CreditOriginDeposit,
		Note:     note,
		UserID:   userID,
	})
}

// SettleDebt registra el pago (total o parcial) de una deuda de fiado.
// Falla con ErrAmountExceedsRemaining si el monto supera la deuda vigente.
func (l *CreditLedger) SettleDebt(ctx context.Context, clientID string, amount decimal.Decimal, note, userID string) (*entity.CreditMovement, error) {
	input := MovementInput{
		ClientID: clientID,
		Type:     entity.CreditTypeCredit,
		Amount:   amount,
		Origin:   entity.CreditOriginFiadoPaid,
		Note:     note,
		UserID:   userID,
	}
	if err := validate(&input); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var mov *entity.CreditMovement
	err := l.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		creditRepo repository.CreditMovementRepository,
		_ repository.CashEntryRepository,
		_ repository.SaleRepository,
	) error {
		if err := creditRepo.LockClient(ctx, clientID); err != nil {
			return err
		}
		balance, err := creditRepo.BalanceByClient(ctx, clientID)
		if err != nil {
			return err
		}
		debt := money.NonNegative(balance.Neg())
		if input.Amount.GreaterThan(debt) {
			return fmt.Errorf("%w: deuda %s, pago %s", domain.ErrAmountExceedsRemaining, debt.StringFixed(2), input.Amount.StringFixed(2))
		}
		mov = newMovement(input, now)
		return creditRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// DebitInTx descuenta de la billetera dentro de la transacción del caller.
// Con requireBalance (tender crédito) bloquea al cliente y re-verifica el saldo vivo;
// fiado no exige saldo: es justamente lo que lleva el saldo a negativo.
func (l *CreditLedger) DebitInTx(
	ctx context.Context,
	creditRepo repository.CreditMovementRepository,
	clientID string,
	amount decimal.Decimal,
	origin, referenceID, userID string,
	requireBalance bool,
	now time.Time,
) (*entity.CreditMovement, error) {
	input := MovementInput{
		ClientID:    clientID,
		Type:        entity.CreditTypeDebit,
		Amount:      amount,
		Origin:      origin,
		ReferenceID: referenceID,
		UserID:      userID,
	}
	if err := validate(&input); err != nil {
		return nil, err
	}
	if err := creditRepo.LockClient(ctx, clientID); err != nil {
		return nil, err
	}
	if requireBalance {
		balance, err := creditRepo.BalanceByClient(ctx, clientID)
		if err != nil {
			return nil, err
		}
		if input.Amount.GreaterThan(money.NonNegative(balance)) {
			return nil, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrCreditExceeded,
				money.NonNegative(balance).StringFixed(2), input.Amount.StringFixed(2))
		}
	}
	mov := newMovement(input, now)
	if err := creditRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CreditInTx abona a la billetera dentro de la transacción del caller (reversión de reembolsos).
func (l *CreditLedger) CreditInTx(
	ctx context.Context,
	creditRepo repository.CreditMovementRepository,
	clientID string,
	amount decimal.Decimal,
	origin, note, referenceID, userID string,
	now time.Time,
) (*entity.CreditMovement, error) {
	input := MovementInput{
		ClientID:    clientID,
		Type:        entity.CreditTypeCredit,
		Amount:      amount,
		Origin:      origin,
		Note:        note,
		ReferenceID: referenceID,
		UserID:      userID,
	}
	if err := validate(&input); err != nil {
		return nil, err
	}
	if err := creditRepo.LockClient(ctx, clientID); err != nil {
		return nil, err
	}
	mov := newMovement(input, now)
	if err := creditRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Balance devuelve el saldo derivado del cliente (negativo = deuda).
func (l *CreditLedger) Balance(ctx context.Context, clientID string) (decimal.Decimal, error) {
	if strings.TrimSpace(clientID) == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return l.movRepo.BalanceByClient(ctx, clientID)
}

// ListMovements devuelve los movimientos del cliente, más recientes primero.
func (l *CreditLedger) ListMovements(ctx context.Context, clientID string) ([]*entity.CreditMovement, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.movRepo.ListByClient(ctx, clientID)
}

func validate(input *MovementInput) error {
	if strings.TrimSpace(input.ClientID) == "" || !entity.ValidCreditMovementType(input.Type) {
		return domain.ErrInvalidInput
	}
	input.Amount = money.Round(input.Amount)
	if !input.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if input.Origin == "" {
		input.Origin = entity.CreditOriginManual
	}
	return nil
}

func newMovement(input MovementInput, now time.Time) *entity.CreditMovement {
	return &entity.CreditMovement{
		ID:          uuid.New().String(),
		ClientID:    input.ClientID,
		Type:        input.Type,
		Amount:      input.Amount,
		Origin:      input.Origin,
		Note:        input.Note,
		ReferenceID: input.ReferenceID,
		CreatedBy:   input.UserID,
		CreatedAt:   now,
	}
}
