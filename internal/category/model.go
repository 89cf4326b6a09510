package category

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the category does not exist.
	ErrNotFound = errors.New("category not found")

	// ErrNotOwner indicates the category belongs to another user.
	ErrNotOwner = errors.New("category not owned by user")

	// ErrNameTaken indicates the user already has a category with this name.
	ErrNameTaken = errors.New("category name already in use")
)

// Category is a user-defined label for transactions, with display hints for
// clients.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	Color     string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Default carries the name and display hints of a seeded category.
type Default struct {
	Name  string
	Color string
	Icon  string
}

// Defaults are created for every new user.
var Defaults = []Default{
	{Name: "Food", Color: "#E74C3C", Icon: "utensils"},
	{Name: "Transport", Color: "#3498DB", Icon: "bus"},
	{Name: "Housing", Color: "#9B59B6", Icon: "home"},
	{Name: "Utilities", Color: "#F39C12", Icon: "bolt"},
	{Name: "Entertainment", Color: "#1ABC9C", Icon: "film"},
	{Name: "Healthcare", Color: "#2ECC71", Icon: "heartbeat"},
	{Name: "Shopping", Color: "#E67E22", Icon: "shopping-bag"},
	{Name: "Salary", Color: "#27AE60", Icon: "briefcase"},
	{Name: "Other", Color: "#95A5A6", Icon: "ellipsis-h"},
}
