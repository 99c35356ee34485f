package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dogenkigen/account-manager/internal/core/domain"
	"github.com/dogenkigen/account-manager/internal/core/engine"
)

type TransactionHandler struct {
	Ledger *engine.Serialized
}

// EventRequest is one ledger event. Amount is a decimal string and may be
// left out for dispute, resolve and chargeback.
type EventRequest struct {
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount"`
}

func (h *TransactionHandler) SubmitEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid event body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	kind, err := domain.ParseKind(req.Type)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	outcome := h.Ledger.Process(domain.Event{
		Kind:   kind,
		Client: req.Client,
		Tx:     req.Tx,
		Amount: amount,
	})

	if outcome != engine.Applied {
		slog.Debug("Event dropped", "reason", outcome, "type", kind, "client", req.Client, "tx", req.Tx)
		return c.JSON(fiber.Map{"status": "dropped", "reason": outcome})
	}
	return c.JSON(fiber.Map{"status": "applied"})
}

func (h *TransactionHandler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.Ledger.Stats())
}
