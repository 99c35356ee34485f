package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dogenkigen/account-manager/internal/adapter/middleware"
	"github.com/dogenkigen/account-manager/internal/core/engine"
)

// NewApp wires the HTTP routes around a single serialized ledger.
func NewApp(ledger *engine.Serialized) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestLogger())

	accountHandler := &AccountHandler{Ledger: ledger}
	transactionHandler := &TransactionHandler{Ledger: ledger}

	api := app.Group("/v1")
	api.Post("/events", middleware.Idempotency(middleware.NewIdempotencyCache()), transactionHandler.SubmitEvent)
	api.Get("/stats", transactionHandler.GetStats)
	api.Get("/accounts", accountHandler.ListAccounts)
	api.Get("/accounts/:client", accountHandler.GetAccount)

	return app
}
