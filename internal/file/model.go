package file

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the attachment does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrNotOwner indicates the attachment belongs to another user.
	ErrNotOwner = errors.New("file not owned by user")

	// ErrTooLarge indicates the upload exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds maximum size")

	// ErrUnsupportedType indicates the content type is not accepted.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// MaxSize caps uploads at 10 MiB.
const MaxSize = 10 << 20

// File is an attachment stored against a transaction, typically a receipt.
type File struct {
	ID               string
	OwnerID          string
	TransactionID    string
	Filename         string
	OriginalFilename string
	MimeType         string
	Size             int64
	UploadedAt       time.Time
}

// AllowedMimeTypes lists the content types accepted for upload.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}
