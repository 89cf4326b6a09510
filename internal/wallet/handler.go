package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

type updateRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type balanceUpdateRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Operation string          `json:"operation"`
	Note      string          `json:"note"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type walletResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toResponse(w Wallet) walletResponse {
	return walletResponse{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Name:      w.Name,
		Type:      string(w.Type),
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// StatusFromError maps wallet domain errors onto HTTP status codes. Transfer
// handlers reuse it since they surface the same error kinds.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrNotEmpty):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func ownerID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

// Create provisions a wallet for the authenticated owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:        ownerID(c),
		Name:           req.Name,
		Type:           Type(req.Type),
		InitialBalance: req.Balance,
	})
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(w))
}

// List returns the owner's wallets with pagination.
func (h *Handler) List(c *fiber.Ctx) error {
	offset := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)
	wallets, total, err := h.service.List(c.UserContext(), ownerID(c), offset, limit)
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	responses := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		responses = append(responses, toResponse(w))
	}
	return c.JSON(fiber.Map{"wallets": responses, "total": total})
}

// Summary aggregates the owner's wallets.
func (h *Handler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), ownerID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	byType := fiber.Map{}
	for t, ts := range summary.ByType {
		byType[string(t)] = fiber.Map{"count": ts.Count, "total_balance": ts.TotalBalance}
	}
	resp := fiber.Map{
		"total_wallets":   summary.TotalWallets,
		"total_balance":   summary.TotalBalance,
		"wallets_by_type": byType,
	}
	if summary.MostRecent != nil {
		resp["most_recent_wallet"] = toResponse(*summary.MostRecent)
	}
	return c.JSON(resp)
}

// ListByType filters the owner's wallets by wallet type.
func (h *Handler) ListByType(c *fiber.Ctx) error {
	wallets, err := h.service.ListByType(c.UserContext(), ownerID(c), Type(c.Params("walletType")))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	responses := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		responses = append(responses, toResponse(w))
	}
	return c.JSON(responses)
}

// Get returns one wallet.
func (h *Handler) Get(c *fiber.Ctx) error {
	w, err := h.service.Get(c.UserContext(), c.Params("walletId"), ownerID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(toResponse(w))
}

// Update renames or retypes a wallet.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Update(c.UserContext(), c.Params("walletId"), ownerID(c), UpdateInput{
		Name: req.Name,
		Type: Type(req.Type),
	})
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(toResponse(w))
}

// UpdateBalance applies an add/subtract/set operation to the balance.
func (h *Handler) UpdateBalance(c *fiber.Ctx) error {
	var req balanceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	op, err := ParseOperation(req.Operation)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.UpdateBalance(c.UserContext(), c.Params("walletId"), ownerID(c), op, req.Amount)
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(toResponse(w))
}

// Credit adds funds to the wallet.
func (h *Handler) Credit(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Credit(c.UserContext(), c.Params("walletId"), ownerID(c), req.Amount)
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(toResponse(w))
}

// Debit removes funds from the wallet.
func (h *Handler) Debit(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Debit(c.UserContext(), c.Params("walletId"), ownerID(c), req.Amount)
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(toResponse(w))
}

// Balance returns the current balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	w, err := h.service.Get(c.UserContext(), c.Params("walletId"), ownerID(c))
	if err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.JSON(fiber.Map{
		"wallet_id": w.ID,
		"balance":   w.Balance,
		"timestamp": time.Now().UTC(),
	})
}

// Delete removes an empty wallet.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("walletId"), ownerID(c)); err != nil {
		return fiber.NewError(StatusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
