package main

import (
	"context"
	"net/http"
	"os"

	webAdapter "gst-engine/internal/adapters/web"
	"gst-engine/internal/ai"
	"gst-engine/internal/app"
	"gst-engine/internal/core"
	"gst-engine/internal/db"
	"gst-engine/internal/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	logger.Setup()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	numbering := core.NewDocumentNumberService()
	settingsService := core.NewSettingsService(pool)
	partyService := core.NewPartyService(pool)
	invoiceService := core.NewInvoiceService(pool, numbering)
	purchaseService := core.NewPurchaseService(pool, numbering)
	orderService := core.NewPurchaseOrderService(pool, numbering)
	gstrService := core.NewGSTRService(pool, invoiceService, purchaseService)

	var agent *ai.Agent
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	} else {
		log.Warn().Msg("OPENAI_API_KEY is not set, AI endpoints disabled")
	}

	svc := app.NewAppService(pool, settingsService, partyService, invoiceService,
		purchaseService, orderService, gstrService, agent)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
