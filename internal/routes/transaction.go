package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/file"
	"github.com/Alwil17/mr-wallet-api/internal/transaction"
)

// RegisterTransactionRoutes wires transaction endpoints and the receipt
// attachments nested under them.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler, fh *file.Handler) {
	g := r.Group("/transactions")
	g.Post("/", h.Create)
	g.Post("/bulk", h.CreateBulk)
	g.Get("/", h.List)
	g.Get("/summary", h.Summary)
	g.Get("/wallet/:walletId", h.ListByWallet)
	g.Get("/:transactionId", h.Get)
	g.Put("/:transactionId", h.Update)
	g.Delete("/:transactionId", h.Delete)

	g.Post("/:transactionId/files", fh.Upload)
	g.Get("/:transactionId/files", fh.ListByTransaction)

	files := r.Group("/files")
	files.Get("/:fileId", fh.Download)
	files.Delete("/:fileId", fh.Delete)
}
