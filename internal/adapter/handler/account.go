package handler

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dogenkigen/account-manager/internal/core/domain"
	"github.com/dogenkigen/account-manager/internal/core/engine"
)

type AccountHandler struct {
	Ledger *engine.Serialized
}

// AccountResponse renders balances the same way as the CSV output.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

func NewAccountResponse(acc domain.Account) AccountResponse {
	return AccountResponse{
		Client:    acc.Client,
		Available: domain.FormatAmount(acc.Available),
		Held:      domain.FormatAmount(acc.Held),
		Total:     domain.FormatAmount(acc.Total),
		Locked:    acc.Locked,
	}
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	accounts := h.Ledger.Accounts()

	out := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, NewAccountResponse(acc))
	}
	return c.JSON(fiber.Map{"accounts": out})
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	client, err := strconv.ParseUint(c.Params("client"), 10, 16)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	acc, ok := h.Ledger.Account(uint16(client))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}
	return c.JSON(NewAccountResponse(acc))
}
