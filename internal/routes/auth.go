package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/auth"
	"github.com/Alwil17/mr-wallet-api/internal/identity"
)

// RegisterAuthRoutes wires signup, login, profile, and privacy endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, ih *identity.Handler, rateLimiter, jwtmw fiber.Handler) {
	g := r.Group("/auth")
	g.Post("/register", h.Register)
	g.Post("/token", rateLimiter, h.Login)
	g.Post("/refresh", h.Refresh)

	g.Post("/logout", jwtmw, h.Logout)
	g.Get("/me", jwtmw, ih.Me)
	g.Put("/edit", jwtmw, ih.UpdateMe)

	g.Get("/export-data", jwtmw, ih.ExportData)
	g.Get("/export-data/download", jwtmw, ih.DownloadExport)
	g.Get("/data-summary", jwtmw, ih.DataSummary)
	g.Delete("/delete-account", jwtmw, ih.DeleteAccount)
	g.Post("/anonymize-account", jwtmw, ih.Anonymize)
}
