package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-pos-inventory/internal/handler"
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/database"
	"go-pos-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		logger.Get().Warn(".env file not found")
	}
	log := logger.Get()
	defer log.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.TransactionItem{}, &model.StockMovement{}); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	catalogService := service.NewCatalogService(productRepo)
	invService := service.NewInventoryService(productRepo, movementRepo, db, wsHub)
	saleService := service.NewSaleService(productRepo, txRepo, movementRepo, db, wsHub, nil, nil)
	reportService := service.NewReportService(txRepo, nil)
	dashService := service.NewDashboardService(txRepo, nil)

	productHandler := handler.NewProductHandler(catalogService)
	invHandler := handler.NewInventoryHandler(invService)
	txHandler := handler.NewTransactionHandler(saleService)
	reportHandler := handler.NewReportHandler(reportService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Inventory v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Request logging
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS
	app.Use(middleware.Metrics())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 6. Routes
	api := app.Group("/api/v1")

	// Product / catalog
	api.Get("/products", productHandler.GetProducts)
	api.Post("/products", productHandler.CreateProduct)
	api.Get("/products/barcode/:barcode", productHandler.GetProductByBarcode)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	// Inventory / ledger
	api.Post("/products/:id/adjust", invHandler.AdjustStock)
	api.Post("/products/:id/restock", invHandler.RestockProduct)
	api.Get("/products/:id/movements", invHandler.GetProductMovements)
	api.Get("/stock-movements", invHandler.GetRecentMovements)

	// Transactions / checkout
	api.Get("/transactions", txHandler.GetTransactions)
	api.Post("/transactions", txHandler.CreateSale)
	api.Get("/transactions/:id", txHandler.GetTransaction)

	// Reports & dashboard
	api.Get("/reports/sales", reportHandler.GetSalesReport)
	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	api.Get("/dashboard/daily-sales", dashHandler.GetDailySales)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
