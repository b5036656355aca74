package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/ferreteria-pro/ferreteria-api/docs"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/auth"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/inventory"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/purchases"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/quotations"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/sales"
	"github.com/ferreteria-pro/ferreteria-api/internal/application/usecase"
	infrapdf "github.com/ferreteria-pro/ferreteria-api/internal/infrastructure/pdf"
	"github.com/ferreteria-pro/ferreteria-api/internal/infrastructure/postgres"
	httpRouter "github.com/ferreteria-pro/ferreteria-api/internal/interfaces/http"
	"github.com/ferreteria-pro/ferreteria-api/pkg/config"
	"github.com/ferreteria-pro/ferreteria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	saleUC := sales.NewSaleUseCase(txRunner, saleRepo, productRepo, customerRepo, statsRepo)
	purchaseUC := purchases.NewPurchaseUseCase(txRunner, purchaseRepo, productRepo, supplierRepo, statsRepo)
	quotationUC := quotations.NewQuotationUseCase(txRunner, quotationRepo, productRepo, saleUC)
	inventoryUC := inventory.NewInventoryUseCase(txRunner, productRepo, movementRepo)

	// PDF: factura de venta y reporte de ventas por rango de fechas
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	pdfUC := sales.NewPDFUseCase(saleRepo, productRepo, statsRepo, pdfGenerator, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ferretería API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		SupplierUC:  supplierUC,
		CustomerUC:  customerUC,
		SaleUC:      saleUC,
		PDFUC:       pdfUC,
		PurchaseUC:  purchaseUC,
		QuotationUC: quotationUC,
		InventoryUC: inventoryUC,
		JWTSecret:   cfg.JWT.Secret,
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
