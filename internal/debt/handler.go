package debt

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Handler exposes debt HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a debt HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	WalletID     string          `json:"wallet_id"`
	Counterparty string          `json:"counterparty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      *time.Time      `json:"due_date"`
	Description  string          `json:"description"`
}

type updateRequest struct {
	Counterparty *string          `json:"counterparty"`
	Type         *string          `json:"type"`
	Amount       *decimal.Decimal `json:"amount"`
	DueDate      *time.Time       `json:"due_date"`
	Description  *string          `json:"description"`
}

type debtResponse struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	WalletID     string          `json:"wallet_id,omitempty"`
	Counterparty string          `json:"counterparty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	IsPaid       bool            `json:"is_paid"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toResponse(d Debt) debtResponse {
	return debtResponse{
		ID:           d.ID,
		OwnerID:      d.OwnerID,
		WalletID:     d.WalletID,
		Counterparty: d.Counterparty,
		Type:         string(d.Type),
		Amount:       d.Amount,
		IsPaid:       d.IsPaid,
		DueDate:      d.DueDate,
		Description:  d.Description,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidAmount):
		return http.StatusBadRequest
	}
	return wallet.StatusFromError(err)
}

func ownerID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

// Create records a debt.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	d, err := h.service.Create(c.UserContext(), ownerID(c), CreateInput{
		WalletID:     req.WalletID,
		Counterparty: req.Counterparty,
		Type:         Type(req.Type),
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		Description:  req.Description,
	})
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(d))
}

// List returns the caller's debts, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	f := Filter{
		Type:    Type(c.Query("type")),
		Overdue: c.QueryBool("overdue", false),
	}
	if raw := c.Query("is_paid"); raw != "" {
		paid := raw == "true"
		f.IsPaid = &paid
	}
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 20)
	debts, total, err := h.service.List(c.UserContext(), ownerID(c), f, offset, limit)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		responses = append(responses, toResponse(d))
	}
	return c.JSON(fiber.Map{"debts": responses, "total": total})
}

// Summary aggregates the caller's open debts.
func (h *Handler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(fiber.Map{
		"total_owed":    summary.TotalOwed,
		"total_given":   summary.TotalGiven,
		"open_count":    summary.OpenCount,
		"paid_count":    summary.PaidCount,
		"overdue_count": summary.OverdueCount,
	})
}

// Get returns one debt.
func (h *Handler) Get(c *fiber.Ctx) error {
	d, err := h.service.Get(c.UserContext(), c.Params("debtId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(d))
}

// Update modifies a debt.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	input := UpdateInput{
		Counterparty: req.Counterparty,
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		Description:  req.Description,
	}
	if req.Type != nil {
		t := Type(*req.Type)
		input.Type = &t
	}
	d, err := h.service.Update(c.UserContext(), c.Params("debtId"), ownerID(c), input)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(d))
}

// MarkPaid settles a debt.
func (h *Handler) MarkPaid(c *fiber.Ctx) error {
	d, err := h.service.MarkPaid(c.UserContext(), c.Params("debtId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(d))
}

// Delete removes a debt.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("debtId"), ownerID(c)); err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
