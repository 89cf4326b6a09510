package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes profile and privacy HTTP endpoints. Signup and login
// live in the auth package.
type Handler struct {
	service *Service
}

// NewHandler builds an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse shapes a user for JSON output, without the password hash.
func ToResponse(u User) any {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// StatusFromError maps identity errors onto HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

// Me returns the caller's profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), userID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(ToResponse(user))
}

type profileRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// UpdateMe edits the caller's profile.
func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.UpdateProfile(c.UserContext(), userID(c), ProfileInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(ToResponse(user))
}

// ExportData returns everything stored about the caller as JSON.
func (h *Handler) ExportData(c *fiber.Ctx) error {
	export, err := h.service.ExportData(c.UserContext(), userID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(export)
}

// DownloadExport returns the data export as a PDF attachment.
func (h *Handler) DownloadExport(c *fiber.Ctx) error {
	export, err := h.service.ExportData(c.UserContext(), userID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	doc, err := ExportPDF(export)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="data-export.pdf"`)
	return c.Send(doc)
}

// DataSummary reports how much data the service holds for the caller.
func (h *Handler) DataSummary(c *fiber.Ctx) error {
	summary, err := h.service.SummarizeData(c.UserContext(), userID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(summary)
}

// DeleteAccount removes the caller's account and every record attached to
// it.
func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.service.DeleteAccount(c.UserContext(), userID(c)); err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

// Anonymize scrubs the caller's personal fields while keeping financial
// records.
func (h *Handler) Anonymize(c *fiber.Ctx) error {
	user, err := h.service.Anonymize(c.UserContext(), userID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(ToResponse(user))
}
