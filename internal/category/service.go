package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service applies category business rules on top of a Repository.
type Service struct {
	repo Repository
}

// NewService builds a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when creating a category.
type CreateInput struct {
	Name  string
	Color string
	Icon  string
}

// Create adds a category. Names are unique per user, case-insensitively.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Category{}, fmt.Errorf("category name is required")
	}
	if _, err := s.repo.FindByName(ctx, ownerID, name); err == nil {
		return Category{}, ErrNameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Category{}, err
	}

	now := time.Now().UTC()
	c := Category{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Color:     strings.TrimSpace(input.Color),
		Icon:      strings.TrimSpace(input.Icon),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Seed creates the default categories for a new user. Existing names are
// left alone so seeding is safe to repeat.
func (s *Service) Seed(ctx context.Context, ownerID string) error {
	for _, d := range Defaults {
		_, err := s.Create(ctx, ownerID, CreateInput{Name: d.Name, Color: d.Color, Icon: d.Icon})
		if err != nil && !errors.Is(err, ErrNameTaken) {
			return err
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (Category, error) {
	return s.repo.Get(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Category, error) {
	return s.repo.List(ctx, ownerID)
}

// UpdateInput carries the mutable category fields. Nil means unchanged.
type UpdateInput struct {
	Name  *string
	Color *string
	Icon  *string
}

func (s *Service) Update(ctx context.Context, id, ownerID string, input UpdateInput) (Category, error) {
	c, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return Category{}, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Category{}, fmt.Errorf("category name is required")
		}
		if existing, err := s.repo.FindByName(ctx, ownerID, name); err == nil && existing.ID != c.ID {
			return Category{}, ErrNameTaken
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return Category{}, err
		}
		c.Name = name
	}
	if input.Color != nil {
		c.Color = strings.TrimSpace(*input.Color)
	}
	if input.Icon != nil {
		c.Icon = strings.TrimSpace(*input.Icon)
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}
