package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salon-api/internal/application/auth"
	"github.com/jhoicas/Salon-api/internal/application/cash"
	"github.com/jhoicas/Salon-api/internal/application/checkout"
	"github.com/jhoicas/Salon-api/internal/application/credit"
	"github.com/jhoicas/Salon-api/internal/application/inventory"
	"github.com/jhoicas/Salon-api/internal/application/receipt"
	"github.com/jhoicas/Salon-api/internal/application/refund"
	"github.com/jhoicas/Salon-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales     *checkout.SaleUseCase
	Allocator *checkout.PaymentAllocator
	Refunds   *refund.Engine
	Stock     *inventory.StockLedger
	Credit    *credit.CreditLedger
	Cash      *cash.CashLedger
	Receipts  *receipt.UseCase
	Auth      *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Salvo el login, todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.Auth)

	// Auth (público). Se registra antes del grupo protegido: fiber ejecuta en orden de registro.
	app.Post("/api/auth/login", authHandler.Login)

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Movimientos manuales y reembolsos solo para administración.
	backoffice := RequireRole(jwt.RoleAdmin, jwt.RoleManager)

	// Sales (carrito, checkout, reembolso)
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales, deps.Allocator, deps.Refunds)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.Get)
	sales.Patch("/:id", saleHandler.Update)
	sales.Post("/:id/items", saleHandler.AddItem)
	sales.Patch("/:id/items/:itemId", saleHandler.UpdateItem)
	sales.Delete("/:id/items/:itemId", saleHandler.RemoveItem)
	sales.Post("/:id/payments/preview", saleHandler.Preview)
	sales.Post("/:id/checkout", saleHandler.Checkout)
	sales.Post("/:id/refund", backoffice, saleHandler.Refund)
	sales.Get("/:id/receipt", NewReceiptHandler(deps.Receipts).Download)

	// Stock ledger
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Stock)
	stock.Get("/:productId", stockHandler.GetStock)
	stock.Get("/:productId/movements", stockHandler.ListMovements)
	stock.Post("/:productId/movements", backoffice, stockHandler.RecordMovement)
	stock.Post("/:productId/rebuild", backoffice, stockHandler.Rebuild)

	// Crédito / fiado del cliente
	clients := api.Group("/clients")
	creditHandler := NewCreditHandler(deps.Credit)
	clients.Get("/:clientId/credit", creditHandler.Balance)
	clients.Get("/:clientId/credit/movements", creditHandler.ListMovements)
	clients.Post("/:clientId/credit/movements", backoffice, creditHandler.RecordMovement)

	// Caja
	cashGroup := api.Group("/cash")
	cashHandler := NewCashHandler(deps.Cash)
	cashGroup.Get("/:accountId/balance", cashHandler.Balance)

	// Personal (solo admin)
	users := api.Group("/users", RequireRole(jwt.RoleAdmin))
	users.Post("/", authHandler.Register)
	users.Get("/", authHandler.List)
}
