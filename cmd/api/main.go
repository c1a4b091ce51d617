package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Salon-api/docs"
	"github.com/jhoicas/Salon-api/internal/application/auth"
	"github.com/jhoicas/Salon-api/internal/application/cash"
	"github.com/jhoicas/Salon-api/internal/application/checkout"
	"github.com/jhoicas/Salon-api/internal/application/credit"
	"github.com/jhoicas/Salon-api/internal/application/inventory"
	"github.com/jhoicas/Salon-api/internal/application/ports"
	"github.com/jhoicas/Salon-api/internal/application/receipt"
	"github.com/jhoicas/Salon-api/internal/application/refund"
	"github.com/jhoicas/Salon-api/internal/infrastructure/cache"
	"github.com/jhoicas/Salon-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/Salon-api/internal/interfaces/http"
	"github.com/jhoicas/Salon-api/pkg/config"
	"github.com/jhoicas/Salon-api/pkg/logger"
)

// @title                       Salon API
// @version                     1.0
// @description                 Ventas, ledgers de stock, crédito y caja de un salón.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.App.LogLevel,
		Components: logger.ParseComponentLevels(cfg.App.LogLevels),
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer be.close()

	// Caché de stock opcional: sin REDIS_ADDR se lee siempre el ledger.
	var stockCache ports.StockCache
	if cfg.Redis.Addr != "" {
		client, err := cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, stock sin caché")
		} else {
			defer client.Close()
			stockCache = cache.NewStockCache(client, cfg.Redis.StockTTL)
		}
	}

	stockLedger := inventory.NewStockLedger(be.tx, be.stock, stockCache, log.Component("stock"))
	creditLedger := credit.NewCreditLedger(be.tx, be.credit, log.Component("credit"))
	cashLedger := cash.NewCashLedger(be.cash, cash.AccountMap(cfg.Cash.Accounts))

	saleUC := checkout.NewSaleUseCase(be.sales, stockLedger, log.Component("sales"))
	allocator := checkout.NewPaymentAllocator(be.tx, be.sales, stockLedger, creditLedger, cashLedger, log.Component("checkout"))
	refunds := refund.NewEngine(be.tx, stockLedger, creditLedger, refund.Config{
		ReverseCreditTenders: cfg.Refund.ReverseCreditTenders,
	}, log.Component("refund"))
	receipts := receipt.NewUseCase(be.sales, pdf.NewMarotoReceiptGenerator(), receipt.Header{
		BusinessName: cfg.Receipt.BusinessName,
		TaxID:        cfg.Receipt.TaxID,
		Address:      cfg.Receipt.Address,
		Phone:        cfg.Receipt.Phone,
		Footer:       cfg.Receipt.Footer,
	}, log.Component("receipt"))

	authUC := auth.NewAuthUseCase(be.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	if cfg.Auth.AdminEmail != "" {
		if err := authUC.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Salon API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:     saleUC,
		Allocator: allocator,
		Refunds:   refunds,
		Stock:     stockLedger,
		Credit:    creditLedger,
		Cash:      cashLedger,
		Receipts:  receipts,
		Auth:      authUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
