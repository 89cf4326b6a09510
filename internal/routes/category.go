package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/category"
)

// RegisterCategoryRoutes wires category endpoints.
func RegisterCategoryRoutes(r fiber.Router, h *category.Handler) {
	g := r.Group("/categories")
	g.Post("/", h.Create)
	g.Post("/seed", h.Seed)
	g.Get("/", h.List)
	g.Get("/:categoryId", h.Get)
	g.Put("/:categoryId", h.Update)
	g.Delete("/:categoryId", h.Delete)
}
