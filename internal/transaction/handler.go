package transaction

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Handler exposes transaction HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	WalletID   string          `json:"wallet_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	CategoryID string          `json:"category_id"`
	Note       string          `json:"note"`
	Date       *time.Time      `json:"date"`
}

type updateRequest struct {
	Type       *string          `json:"type"`
	Amount     *decimal.Decimal `json:"amount"`
	Category   *string          `json:"category"`
	CategoryID *string          `json:"category_id"`
	Note       *string          `json:"note"`
	Date       *time.Time       `json:"date"`
}

type transactionResponse struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"owner_id"`
	WalletID   string          `json:"wallet_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category,omitempty"`
	CategoryID string          `json:"category_id,omitempty"`
	Note       string          `json:"note,omitempty"`
	Date       time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toResponse(t Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		OwnerID:    t.OwnerID,
		WalletID:   t.WalletID,
		Type:       string(t.Type),
		Amount:     t.Amount,
		Category:   t.Category,
		CategoryID: t.CategoryID,
		Note:       t.Note,
		Date:       t.Date,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidAmount):
		return http.StatusBadRequest
	}
	return wallet.StatusFromError(err)
}

func ownerID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

func toInput(req createRequest) CreateInput {
	input := CreateInput{
		WalletID:   req.WalletID,
		Type:       Type(req.Type),
		Amount:     req.Amount,
		Category:   req.Category,
		CategoryID: req.CategoryID,
		Note:       req.Note,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}
	return input
}

// Create records a transaction.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.Create(c.UserContext(), ownerID(c), toInput(req))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(t))
}

// CreateBulk records several transactions at once.
func (h *Handler) CreateBulk(c *fiber.Ctx) error {
	var req struct {
		Transactions []createRequest `json:"transactions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	inputs := make([]CreateInput, 0, len(req.Transactions))
	for _, r := range req.Transactions {
		inputs = append(inputs, toInput(r))
	}
	created, err := h.service.CreateBulk(c.UserContext(), ownerID(c), inputs)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]transactionResponse, 0, len(created))
	for _, t := range created {
		responses = append(responses, toResponse(t))
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"transactions": responses, "count": len(responses)})
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	f := Filter{
		WalletID: c.Query("wallet_id"),
		Type:     Type(c.Query("type")),
		Category: c.Query("category"),
	}
	if raw := c.Query("min_amount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return Filter{}, err
		}
		f.MinAmount = &v
	}
	if raw := c.Query("max_amount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return Filter{}, err
		}
		f.MaxAmount = &v
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Filter{}, err
		}
		f.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Filter{}, err
		}
		f.DateTo = &t
	}
	return f, nil
}

// List returns the caller's transactions, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 20)
	transactions, total, err := h.service.List(c.UserContext(), ownerID(c), f, offset, limit)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, toResponse(t))
	}
	return c.JSON(fiber.Map{"transactions": responses, "total": total})
}

// ListByWallet returns transactions recorded against one wallet.
func (h *Handler) ListByWallet(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 20)
	transactions, total, err := h.service.ListByWallet(c.UserContext(), c.Params("walletId"), ownerID(c), offset, limit)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, toResponse(t))
	}
	return c.JSON(fiber.Map{"transactions": responses, "total": total})
}

// Summary aggregates the caller's transactions.
func (h *Handler) Summary(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	summary, err := h.service.Summary(c.UserContext(), ownerID(c), f)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(fiber.Map{
		"total_income":      summary.TotalIncome,
		"total_expense":     summary.TotalExpense,
		"net":               summary.Net,
		"transaction_count": summary.TransactionCount,
		"by_category":       summary.ByCategory,
	})
}

// Get returns one transaction.
func (h *Handler) Get(c *fiber.Ctx) error {
	t, err := h.service.Get(c.UserContext(), c.Params("transactionId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(t))
}

// Update modifies a transaction.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	input := UpdateInput{
		Amount:     req.Amount,
		Category:   req.Category,
		CategoryID: req.CategoryID,
		Note:       req.Note,
		Date:       req.Date,
	}
	if req.Type != nil {
		t := Type(*req.Type)
		input.Type = &t
	}
	t, err := h.service.Update(c.UserContext(), c.Params("transactionId"), ownerID(c), input)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(t))
}

// Delete removes a transaction.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("transactionId"), ownerID(c)); err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
