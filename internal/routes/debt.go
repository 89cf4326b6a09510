package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/debt"
)

// RegisterDebtRoutes wires debt tracking endpoints.
func RegisterDebtRoutes(r fiber.Router, h *debt.Handler) {
	g := r.Group("/debts")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/summary", h.Summary)
	g.Get("/:debtId", h.Get)
	g.Put("/:debtId", h.Update)
	g.Patch("/:debtId/paid", h.MarkPaid)
	g.Delete("/:debtId", h.Delete)
}
