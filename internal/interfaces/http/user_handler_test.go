package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salon-api/internal/application/dto"
	pkgjwt "github.com/jhoicas/Salon-api/pkg/jwt"
)

func postJSONWithoutToken(t *testing.T, app *fiber.App, path string, body any) (int, []byte) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestUsers_AltaYLogin(t *testing.T) {
	app := testServer(t)

	status, body := call(t, app, pkgjwt.RoleManager, http.MethodPost, "/api/users",
		map[string]any{"email": "caja@salon.com", "password": "secreta123"})
	assert.Equal(t, http.StatusForbidden, status, string(body))

	status, body = call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/users",
		map[string]any{"email": "Caja@Salon.com", "password": "secreta123", "name": "Caja 1", "role": "cashier"})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[dto.UserResponse](t, body)
	assert.Equal(t, "caja@salon.com", created.Email)
	assert.NotContains(t, string(body), "password")

	status, body = call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/users",
		map[string]any{"email": "caja@salon.com", "password": "otraclave9"})
	assert.Equal(t, http.StatusConflict, status)
	assertErrorCode(t, body, "CONFLICT")

	status, body = call(t, app, pkgjwt.RoleAdmin, http.MethodPost, "/api/users",
		map[string]any{"email": "x@salon.com", "password": "secreta123", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, status)
	assertErrorCode(t, body, "INVALID_INPUT")

	status, body = call(t, app, pkgjwt.RoleAdmin, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[dto.UserListResponse](t, body).Items, 1)

	// Login es público.
	status, body = postJSONWithoutToken(t, app, "/api/auth/login", map[string]any{"email": "caja@salon.com", "password": "secreta123"})
	require.Equal(t, http.StatusOK, status, string(body))
	login := decode[dto.LoginResponse](t, body)
	assert.Equal(t, created.ID, login.User.ID)

	userID, role, err := pkgjwt.Parse(testJWTSecret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, pkgjwt.RoleCashier, role)

	status, body = postJSONWithoutToken(t, app, "/api/auth/login", map[string]any{"email": "caja@salon.com", "password": "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assertErrorCode(t, body, "UNAUTHORIZED")

	status, _ = postJSONWithoutToken(t, app, "/api/auth/login", map[string]any{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReceipt_Descarga(t *testing.T) {
	app := testServer(t)
	seedStock(t, app, "shampoo", 5)
	sale := createSale(t, app, "")

	status, body := call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil)
	assert.Equal(t, http.StatusConflict, status, "un borrador no tiene comprobante")
	assertErrorCode(t, body, "INVALID_STATE_TRANSITION")

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodPost, "/api/sales/"+sale.ID+"/checkout",
		map[string]any{"tenders": []map[string]any{{"method": "cash", "amount": "50", "cash_given": "60"}}})
	require.Equal(t, http.StatusOK, status, string(body))

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleCashier))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "comprobante_")
	pdfBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBody, []byte("%PDF")))

	status, body = call(t, app, pkgjwt.RoleCashier, http.MethodGet, "/api/sales/nope/receipt", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assertErrorCode(t, body, "SALE_NOT_FOUND")
}
