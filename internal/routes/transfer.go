package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/transfer"
)

// RegisterTransferRoutes wires wallet-to-wallet transfer endpoints.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler) {
	g := r.Group("/transfers")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/summary", h.Summary)
	g.Get("/wallet/:walletId", h.ListByWallet)
	g.Get("/wallet/:walletId/summary", h.WalletSummary)
	g.Get("/:transferId", h.Get)
	g.Delete("/:transferId", h.Delete)
}
