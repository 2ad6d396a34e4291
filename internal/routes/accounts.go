package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearhouse-io/clearhouse/internal/transactions"
)

// RegisterAccountRoutes wires account reporting endpoints.
func RegisterAccountRoutes(r fiber.Router, h *transactions.Handler) {
	r.Get("/accounts", h.Accounts)
	r.Get("/accounts/:clientId", h.AccountByID)
}
