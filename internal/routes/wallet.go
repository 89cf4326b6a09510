package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	g := r.Group("/wallets")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/summary", h.Summary)
	g.Get("/type/:walletType", h.ListByType)
	g.Get("/:walletId", h.Get)
	g.Put("/:walletId", h.Update)
	g.Get("/:walletId/balance", h.Balance)
	g.Patch("/:walletId/balance", h.UpdateBalance)
	g.Post("/:walletId/credit", h.Credit)
	g.Post("/:walletId/debit", h.Debit)
	g.Delete("/:walletId", h.Delete)
}
