package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearhouse-io/clearhouse/internal/transactions"
)

// RegisterTransactionRoutes wires transaction ingest endpoints.
func RegisterTransactionRoutes(r fiber.Router, h *transactions.Handler) {
	r.Post("/transactions", h.Submit)
	r.Post("/transactions/import", h.Import)
}
