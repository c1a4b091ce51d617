package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Salon-api/internal/application/auth"
	"github.com/jhoicas/Salon-api/internal/application/cash"
	"github.com/jhoicas/Salon-api/internal/application/checkout"
	"github.com/jhoicas/Salon-api/internal/application/credit"
	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/application/inventory"
	"github.com/jhoicas/Salon-api/internal/application/receipt"
	"github.com/jhoicas/Salon-api/internal/application/refund"
	"github.com/jhoicas/Salon-api/internal/infrastructure/memory"
	"github.com/jhoicas/Salon-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Salon-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Salon-api/pkg/jwt"
)

// testServer arma la API completa sobre el store en memoria.
func testServer(t *testing.T) *fiber.App {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()

	stock := inventory.NewStockLedger(store, store.StockMovements(), nil, log)
	creditLedger := credit.NewCreditLedger(store, store.CreditMovements(), log)
	cashLedger := cash.NewCashLedger(store.CashEntries(), cash.AccountMap{
		"cash":     "caja",
		"pix":      "banco",
		"card":     "adquirente",
		"transfer": "banco",
	})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Sales:     checkout.NewSaleUseCase(store.Sales(), stock, log),
		Allocator: checkout.NewPaymentAllocator(store, store.Sales(), stock, creditLedger, cashLedger, log),
		Refunds:   refund.NewEngine(store, stock, creditLedger, refund.Config{}, log),
		Stock:     stock,
		Credit:    creditLedger,
		Cash:      cashLedger,
		Receipts:  receipt.NewUseCase(store.Sales(), pdf.NewMarotoReceiptGenerator(), receipt.Header{BusinessName: "Salón Test"}, log),
		Auth: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret:     testJWTSecret,
			ExpMinutes: testExpMin,
			Issuer:     testIssuer,
		}, log).WithHashCost(bcrypt.MinCost),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, role, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func seedStock(t *testing.T, app *fiber.App, productID string, qty int64) {
	t.Helper()
	status, body := call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/stock/"+productID+"/movements",
		map[string]any{"type": "IN", "quantity": qty, "reason": "purchase"})
	require.Equal(t, http.StatusCreated, status, string(body))
}

// createSale abre una venta con 2 x shampoo (10.00) y un corte (30.00): total 50.00.
func createSale(t *testing.T, app *fiber.App, customerID string) dto.SaleResponse {
	t.Helper()
	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales", map[string]any{
		"customer_id": customerID,
		"items": []map[string]any{
			{"item_type": "product", "product_id": "shampoo", "name": "Shampoo", "qty": 2, "unit_price": "10.00"},
			{"item_type": "service", "service_id": "corte", "name": "Corte", "qty": 1, "unit_price": "30.00"},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[dto.SaleResponse](t, body)
}

func assertErrorCode(t *testing.T, raw []byte, code string) {
	t.Helper()
	resp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, code, resp.Code, resp.Message)
}

func TestSaleFlow_CheckoutEfectivoConVuelto(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)
	sale := createSale(t, app, "")
	assert.Equal(t, "draft", sale.Status)
	assert.Equal(t, "50.00", sale.Total.StringFixed(2))

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout",
		map[string]any{"tenders": []map[string]any{{"method": "cash", "amount": "50", "cash_given": "60"}}})
	require.Equal(t, http.StatusOK, status, string(body))

	out := decode[dto.CheckoutResponse](t, body)
	assert.Equal(t, "paid", out.Sale.Status)
	require.Len(t, out.Sale.Payments, 1)
	require.NotNil(t, out.Sale.Payments[0].Change)
	assert.True(t, out.Sale.Payments[0].Change.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.Summary.TotalChange.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.Summary.IsFullyCovered)

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/stock/shampoo", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), decode[dto.StockLevelResponse](t, body).Stock)

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/cash/caja/balance", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "50.00", decode[dto.CashBalanceResponse](t, body).Balance.StringFixed(2))
}

func TestSaleFlow_SegundoCheckoutRetorna409(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)
	sale := createSale(t, app, "")
	tenders := map[string]any{"tenders": []map[string]any{{"method": "card", "amount": "50"}}}

	status, _ := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout", tenders)
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout", tenders)
	assert.Equal(t, http.StatusConflict, status)
	assertErrorCode(t, body, "INVALID_STATE_TRANSITION")

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/stock/shampoo", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), decode[dto.StockLevelResponse](t, body).Stock, "el stock se descuenta una sola vez")
}

func TestSaleFlow_StockInsuficienteAlConfirmar(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)
	sale := createSale(t, app, "")

	// Otra operación consume stock entre la edición y el pago.
	status, body := call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/stock/shampoo/movements",
		map[string]any{"type": "OUT", "quantity": 4, "reason": "adjustment"})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout",
		map[string]any{"tenders": []map[string]any{{"method": "pix", "amount": "50"}}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	resp := decode[dto.ErrorResponse](t, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Code)
	assert.Equal(t, "shampoo", resp.Details["product_id"])
	assert.EqualValues(t, 1, resp.Details["available"])
	assert.EqualValues(t, 2, resp.Details["requested"])

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/sales/"+sale.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "draft", decode[dto.SaleResponse](t, body).Status, "la venta sigue en borrador")

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/cash/banco/balance", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[dto.CashBalanceResponse](t, body).Balance.IsZero(), "no queda asiento de caja")
}

func TestSaleFlow_FiadoSinClienteRetorna422(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)
	sale := createSale(t, app, "")

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/payments/preview",
		map[string]any{"tenders": []map[string]any{{"method": "fiado", "amount": "50"}}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertErrorCode(t, body, "FIADO_REQUIRES_CUSTOMER")
}

func TestSaleFlow_CreditoYFiadoDelCliente(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)

	status, body := call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/clients/ana/credit/movements",
		map[string]any{"type": "CREDIT", "amount": "20", "origin": "deposit"})
	require.Equal(t, http.StatusCreated, status, string(body))

	sale := createSale(t, app, "ana")

	// Más crédito del disponible → 422 sin efectos.
	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout",
		map[string]any{"tenders": []map[string]any{{"method": "credit", "amount": "25"}, {"method": "cash", "amount": "25"}}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertErrorCode(t, body, "CREDIT_EXCEEDED")

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout",
		map[string]any{"tenders": []map[string]any{{"method": "credit", "amount": "20"}, {"method": "fiado", "amount": "30"}}})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/clients/ana/credit", nil)
	require.Equal(t, http.StatusOK, status)
	bal := decode[dto.CreditBalanceResponse](t, body)
	assert.Equal(t, "-30.00", bal.Balance.StringFixed(2))
	assert.Equal(t, "30.00", bal.Debt.StringFixed(2))

	// Pagar más que la deuda no está permitido.
	status, body = call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/clients/ana/credit/movements",
		map[string]any{"type": "CREDIT", "amount": "31", "origin": "fiado-payment"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertErrorCode(t, body, "AMOUNT_EXCEEDS_REMAINING")

	status, body = call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/clients/ana/credit/movements",
		map[string]any{"type": "CREDIT", "amount": "30", "origin": "fiado-payment"})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/clients/ana/credit/movements", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[dto.CreditMovementListResponse](t, body)
	require.Len(t, list.Items, 4)
	assert.Equal(t, "fiado-payment", list.Items[0].Origin, "más reciente primero")
	assert.True(t, list.Balance.IsZero())
	assert.Equal(t, 4, list.Page.Total)
	assert.Equal(t, 20, list.Page.Limit)

	// El saldo se pliega sobre todos los movimientos, no solo la página.
	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/clients/ana/credit/movements?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, status)
	paged := decode[dto.CreditMovementListResponse](t, body)
	require.Len(t, paged.Items, 2)
	assert.Equal(t, list.Items[1].ID, paged.Items[0].ID)
	assert.True(t, paged.Balance.IsZero())
	assert.Equal(t, 4, paged.Page.Total)

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/clients/ana/credit/movements?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assertErrorCode(t, body, "INVALID_INPUT")
}

func TestSaleFlow_Reembolso(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)
	sale := createSale(t, app, "")

	status, _ := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout",
		map[string]any{"tenders": []map[string]any{{"method": "transfer", "amount": "50"}}})
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/refund", nil)
	assert.Equal(t, http.StatusForbidden, status, "cajero no puede reembolsar")
	assertErrorCode(t, body, "FORBIDDEN")

	status, body = call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/sales/"+sale.ID+"/refund", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	refunded := decode[dto.SaleResponse](t, body)
	assert.Equal(t, "refunded", refunded.Status)
	assert.Len(t, refunded.Payments, 1, "los pagos se conservan")

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/stock/shampoo/movements", nil)
	require.Equal(t, http.StatusOK, status)
	movs := decode[dto.StockMovementListResponse](t, body)
	assert.Equal(t, int64(5), movs.Stock)
	require.Len(t, movs.Items, 3)
	assert.Equal(t, "refund", movs.Items[0].Reason)

	status, body = call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/sales/"+sale.ID+"/refund", nil)
	assert.Equal(t, http.StatusConflict, status)
	assertErrorCode(t, body, "INVALID_STATE_TRANSITION")
}

func TestSaleFlow_EdicionDeBorrador(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)
	sale := createSale(t, app, "")

	var productItem string
	for _, it := range sale.Items {
		if it.ItemType == "product" {
			productItem = it.ID
		}
	}
	require.NotEmpty(t, productItem)

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodPatch, "/api/sales/"+sale.ID+"/items/"+productItem,
		map[string]any{"qty": 6})
	assert.Equal(t, http.StatusUnprocessableEntity, status, "pre-chequeo de stock")
	assertErrorCode(t, body, "INSUFFICIENT_STOCK")

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodPatch, "/api/sales/"+sale.ID+"/items/"+productItem,
		map[string]any{"qty": 3, "unit_price": "12.50"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "67.50", decode[dto.SaleResponse](t, body).Total.StringFixed(2))

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodPatch, "/api/sales/"+sale.ID,
		map[string]any{"discount": "7.50"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "60.00", decode[dto.SaleResponse](t, body).Total.StringFixed(2))

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodDelete, "/api/sales/"+sale.ID+"/items/"+productItem, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	edited := decode[dto.SaleResponse](t, body)
	assert.Len(t, edited.Items, 1)
	assert.Equal(t, "22.50", edited.Total.StringFixed(2))
}

func TestSaleFlow_ErroresDeEntrada(t *testing.T) {
	app := testServer(t)

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/sales/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assertErrorCode(t, body, "SALE_NOT_FOUND")

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/no-existe/checkout",
		map[string]any{"tenders": []map[string]any{{"method": "bitcoin", "amount": "10"}}})
	assert.Equal(t, http.StatusBadRequest, status)
	assertErrorCode(t, body, "INVALID_INPUT")

	status, body = call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/stock/shampoo/movements",
		map[string]any{"type": "IN", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assertErrorCode(t, body, "INVALID_INPUT")

	status, _ = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/stock/shampoo/movements",
		map[string]any{"type": "IN", "quantity": 1})
	assert.Equal(t, http.StatusForbidden, status, "movimiento manual requiere rol de administración")
}

func TestStock_Rebuild(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "tinte", 7)

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/stock/tinte/rebuild", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assertErrorCode(t, body, "FORBIDDEN")

	status, body = call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/stock/tinte/rebuild", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	level := decode[dto.StockLevelResponse](t, body)
	assert.Equal(t, "tinte", level.ProductID)
	assert.Equal(t, int64(7), level.Stock)
}
