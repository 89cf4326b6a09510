package transfer

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Alwil17/mr-wallet-api/internal/wallet"
)

// Handler exposes transfer HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a transfer HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	SourceWalletID string          `json:"source_wallet_id"`
	TargetWalletID string          `json:"target_wallet_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
}

type transferResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	SourceWalletID string          `json:"source_wallet_id"`
	TargetWalletID string          `json:"target_wallet_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toResponse(t Transfer) transferResponse {
	return transferResponse{
		ID:             t.ID,
		OwnerID:        t.OwnerID,
		SourceWalletID: t.SourceWalletID,
		TargetWalletID: t.TargetWalletID,
		Amount:         t.Amount,
		Description:    t.Description,
		CreatedAt:      t.CreatedAt,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrSameWallet):
		return http.StatusBadRequest
	}
	return wallet.StatusFromError(err)
}

func ownerID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

// Create moves funds between two owned wallets.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:        ownerID(c),
		SourceWalletID: req.SourceWalletID,
		TargetWalletID: req.TargetWalletID,
		Amount:         req.Amount,
		Description:    req.Description,
	})
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(t))
}

// List returns the owner's transfers with optional filters.
func (h *Handler) List(c *fiber.Ctx) error {
	f := Filter{
		WalletID:       c.Query("wallet_id"),
		SourceWalletID: c.Query("source_wallet_id"),
		TargetWalletID: c.Query("target_wallet_id"),
	}
	if v := c.Query("min_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid min_amount")
		}
		f.MinAmount = &d
	}
	if v := c.Query("max_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid max_amount")
		}
		f.MaxAmount = &d
	}
	if v := c.Query("date_from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid date_from")
		}
		f.DateFrom = &ts
	}
	if v := c.Query("date_to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid date_to")
		}
		f.DateTo = &ts
	}

	transfers, total, err := h.service.List(c.UserContext(), ownerID(c), f, c.QueryInt("skip", 0), c.QueryInt("limit", 100))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		responses = append(responses, toResponse(t))
	}
	return c.JSON(fiber.Map{"transfers": responses, "total": total})
}

// Summary aggregates the owner's transfers.
func (h *Handler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	recent := make([]transferResponse, 0, len(summary.Recent))
	for _, t := range summary.Recent {
		recent = append(recent, toResponse(t))
	}
	byWallet := fiber.Map{}
	for id, ws := range summary.ByWallet {
		byWallet[id] = fiber.Map{
			"wallet_id":      ws.WalletID,
			"total_sent":     ws.TotalSent,
			"total_received": ws.TotalReceived,
			"net_amount":     ws.NetAmount,
			"transfer_count": ws.TransferCount,
		}
	}
	return c.JSON(fiber.Map{
		"total_transfers":          summary.TotalTransfers,
		"total_amount_transferred": summary.TotalTransferred,
		"transfers_by_wallet":      byWallet,
		"recent_transfers":         recent,
	})
}

// Get returns one transfer.
func (h *Handler) Get(c *fiber.Ctx) error {
	t, err := h.service.Get(c.UserContext(), c.Params("transferId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(toResponse(t))
}

// ListByWallet returns transfers touching one wallet.
func (h *Handler) ListByWallet(c *fiber.Ctx) error {
	transfers, err := h.service.ListByWallet(c.UserContext(), c.Params("walletId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		responses = append(responses, toResponse(t))
	}
	return c.JSON(responses)
}

// WalletSummary aggregates one wallet's sent and received transfers.
func (h *Handler) WalletSummary(c *fiber.Ctx) error {
	ws, err := h.service.WalletSummary(c.UserContext(), c.Params("walletId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.JSON(fiber.Map{
		"wallet_id":      ws.WalletID,
		"total_sent":     ws.TotalSent,
		"total_received": ws.TotalReceived,
		"net_amount":     ws.NetAmount,
		"transfer_count": ws.TransferCount,
	})
}

// Delete reverses and removes a transfer.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("transferId"), ownerID(c)); err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
