package file

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Alwil17/mr-wallet-api/internal/transaction"
)

// Handler exposes attachment HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a file HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type fileResponse struct {
	ID               string    `json:"id"`
	TransactionID    string    `json:"transaction_id"`
	OriginalFilename string    `json:"original_filename"`
	MimeType         string    `json:"mime_type"`
	Size             int64     `json:"size"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

func toResponse(f File) fileResponse {
	return fileResponse{
		ID:               f.ID,
		TransactionID:    f.TransactionID,
		OriginalFilename: f.OriginalFilename,
		MimeType:         f.MimeType,
		Size:             f.Size,
		UploadedAt:       f.UploadedAt,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, transaction.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner), errors.Is(err, transaction.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

func ownerID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

// Upload attaches a file to a transaction from a multipart form field
// named "file".
func (h *Handler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "missing file field")
	}
	if header.Size > MaxSize {
		return fiber.NewError(http.StatusRequestEntityTooLarge, ErrTooLarge.Error())
	}
	src, err := header.Open()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	f, err := h.service.Upload(c.UserContext(), ownerID(c), c.Params("transactionId"),
		header.Filename, header.Header.Get("Content-Type"), src)
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(f))
}

// ListByTransaction returns the attachments of one transaction.
func (h *Handler) ListByTransaction(c *fiber.Ctx) error {
	files, err := h.service.ListByTransaction(c.UserContext(), c.Params("transactionId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	responses := make([]fileResponse, 0, len(files))
	for _, f := range files {
		responses = append(responses, toResponse(f))
	}
	return c.JSON(fiber.Map{"files": responses, "total": len(responses)})
}

// Download streams the attachment bytes.
func (h *Handler) Download(c *fiber.Ctx) error {
	f, rc, err := h.service.Open(c.UserContext(), c.Params("fileId"), ownerID(c))
	if err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	c.Set(fiber.HeaderContentType, f.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+f.OriginalFilename+`"`)
	return c.SendStream(rc, int(f.Size))
}

// Delete removes an attachment.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("fileId"), ownerID(c)); err != nil {
		return fiber.NewError(statusFromError(err), err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
