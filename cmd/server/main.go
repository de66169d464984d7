package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/shopdesk/internal/adapter/handler"
	"github.com/rl1809/shopdesk/internal/core/service"
)

const shutdownTimeout = 5 * time.Second

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	seed := flag.Bool("seed", true, "load the demo catalog, stock and queued orders")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	shop := service.NewShopService()
	if *seed {
		seedDemoData(shop)
		logger.Info("demo data seeded",
			zap.Int("items", len(shop.Items())),
			zap.Int("queued_orders", len(shop.QueuedOrders())))
	}

	hub := handler.NewStateHub(shop, logger)
	shop.AddListener(hub)

	httpHandler := handler.NewHTTPHandler(shop, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/api/items", httpHandler.Items)
	mux.HandleFunc("/api/stock", httpHandler.Stock)
	mux.HandleFunc("/api/stock/low", httpHandler.LowStock)
	mux.HandleFunc("/api/orders", httpHandler.PlaceOrder)
	mux.HandleFunc("/api/orders/process", httpHandler.ProcessNextOrder)
	mux.HandleFunc("/api/orders/queued", httpHandler.QueuedOrders)
	mux.HandleFunc("/api/orders/processed", httpHandler.ProcessedOrders)
	mux.HandleFunc("/api/revenue", httpHandler.Revenue)
	mux.HandleFunc("/ws", hub.ServeWS)

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", *addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	hub.Shutdown()
	logger.Info("ui clients disconnected")
}

// seedDemoData recreates the sample session the desk application opens
// with: three catalog items, their stock, and one customer with three
// queued orders.
func seedDemoData(shop *service.ShopService) {
	screws := shop.RegisterUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))
	pump := shop.RegisterUnitItem("Pump", decimal.NewFromInt(1200), decimal.RequireFromString("3.5"))
	oil := shop.RegisterBulkItem("Oil", decimal.RequireFromString("3.5"), "kg")

	shop.SetStock(screws.ID(), decimal.NewFromInt(500))
	shop.SetStock(pump.ID(), decimal.NewFromInt(5))
	shop.SetStock(oil.ID(), decimal.NewFromInt(200))

	shop.PlaceOrder("ACME Robotics", []service.LineRequest{
		{ItemID: screws.ID(), Quantity: decimal.NewFromInt(100)},
		{ItemID: oil.ID(), Quantity: decimal.NewFromInt(20)},
	})
	shop.PlaceOrder("ACME Robotics", []service.LineRequest{
		{ItemID: pump.ID(), Quantity: decimal.NewFromInt(1)},
	})
	shop.PlaceOrder("ACME Robotics", []service.LineRequest{
		{ItemID: screws.ID(), Quantity: decimal.NewFromInt(50)},
		{ItemID: oil.ID(), Quantity: decimal.NewFromInt(15)},
	})
}
