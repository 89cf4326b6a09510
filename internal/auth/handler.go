package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/identity"
)

// Handler exposes signup, login, and token endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an auth HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func statusFromError(err error) int {
	if errors.Is(err, ErrInvalidToken) {
		return http.StatusUnauthorized
	}
	return identity.StatusFromError(err)
}

// Register creates an account and returns the first token pair.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, pair, err := h.service.Register(c.UserContext(), identity.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user":   identity.ToResponse(user),
		"tokens": pair,
	})
}

// Login exchanges credentials for tokens.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, pair, err := h.service.Login(c.UserContext(), identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(fiber.Map{
		"user":   identity.ToResponse(user),
		"tokens": pair,
	})
}

// Refresh rotates a refresh token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	pair, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(pair)
}

// Logout revokes the caller's refresh tokens.
func (h *Handler) Logout(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if err := h.service.Logout(c.UserContext(), uid); err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
