package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Salon-api/internal/domain"
)

func TestCode_ConjuntoCerrado(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{nil, ""},
		{domain.ErrInvalidInput, domain.CodeInvalidInput},
		{domain.ErrInvalidQuantity, domain.CodeInvalidQuantity},
		{domain.ErrInvalidAmount, domain.CodeInvalidAmount},
		{&domain.StockError{ProductID: "p", Available: 1, Requested: 2}, domain.CodeInsufficientStock},
		{fmt.Errorf("x: %w", domain.ErrAmountExceedsRemaining), domain.CodeAmountExceedsRemaining},
		{domain.ErrCreditExceeded, domain.CodeCreditExceeded},
		{domain.ErrFiadoRequiresCustomer, domain.CodeFiadoRequiresCustomer},
		{domain.ErrPaymentNotFullyCovered, domain.CodePaymentNotFullyCovered},
		{domain.ErrSaleAlreadyPaid, domain.CodeInvalidStateTransition},
		{domain.ErrSaleRefunded, domain.CodeInvalidStateTransition},
		{domain.ErrSaleNotEditable, domain.CodeInvalidStateTransition},
		{domain.ErrSaleNotFound, domain.CodeSaleNotFound},
		{domain.ErrItemNotFound, domain.CodeNotFound},
		{domain.ErrConflict, domain.CodeConflict},
		{domain.ErrForbidden, domain.CodeForbidden},
		{domain.ErrEmailAlreadyExists, domain.CodeConflict},
		{domain.ErrInvalidCredentials, domain.CodeUnauthorized},
		{domain.ErrUserInactive, domain.CodeForbidden},
		{errors.New("driver caído"), domain.CodeInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, domain.Code(tc.err), fmt.Sprint(tc.err))
	}
}

func TestStockError(t *testing.T) {
	var err error = &domain.StockError{ProductID: "shampoo", Available: 1, Requested: 3}
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "shampoo")

	var se *domain.StockError
	assert.True(t, errors.As(fmt.Errorf("checkout: %w", err), &se))
	assert.Equal(t, int64(3), se.Requested)
}
