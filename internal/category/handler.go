package category

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes category HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a category HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type updateRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(c Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrNameTaken):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func ownerID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

// Create adds a category.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	created, err := h.service.Create(c.UserContext(), ownerID(c), CreateInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(created))
}

// Seed creates the default categories for the caller.
func (h *Handler) Seed(c *fiber.Ctx) error {
	if err := h.service.Seed(c.UserContext(), ownerID(c)); err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return h.List(c)
}

// List returns the caller's categories sorted by name.
func (h *Handler) List(c *fiber.Ctx) error {
	categories, err := h.service.List(c.UserContext(), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, toResponse(category))
	}
	return c.JSON(fiber.Map{"categories": responses, "total": len(responses)})
}

// Get returns one category.
func (h *Handler) Get(c *fiber.Ctx) error {
	category, err := h.service.Get(c.UserContext(), c.Params("categoryId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(category))
}

// Update modifies a category.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	category, err := h.service.Update(c.UserContext(), c.Params("categoryId"), ownerID(c), UpdateInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(category))
}

// Delete removes a category.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("categoryId"), ownerID(c)); err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
