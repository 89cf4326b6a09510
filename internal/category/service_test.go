package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Alwil17/mr-wallet-api/internal/category"
)

const owner = "11111111-1111-1111-1111-111111111111"

func TestCreateRejectsDuplicateName(t *testing.T) {
	s := category.NewService(category.NewMemoryRepository())
	ctx := context.Background()

	_, err := s.Create(ctx, owner, category.CreateInput{Name: "Groceries"})
	require.NoError(t, err)

	_, err = s.Create(ctx, owner, category.CreateInput{Name: "groceries"})
	require.ErrorIs(t, err, category.ErrNameTaken)

	// Another user may reuse the name.
	_, err = s.Create(ctx, "22222222-2222-2222-2222-222222222222", category.CreateInput{Name: "Groceries"})
	require.NoError(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := category.NewService(category.NewMemoryRepository())
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, owner))
	require.NoError(t, s.Seed(ctx, owner))

	categories, err := s.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, categories, len(category.Defaults))
}

func TestUpdateKeepsNameUniqueness(t *testing.T) {
	s := category.NewService(category.NewMemoryRepository())
	ctx := context.Background()

	first, err := s.Create(ctx, owner, category.CreateInput{Name: "Food"})
	require.NoError(t, err)
	second, err := s.Create(ctx, owner, category.CreateInput{Name: "Travel"})
	require.NoError(t, err)

	name := "food"
	_, err = s.Update(ctx, second.ID, owner, category.UpdateInput{Name: &name})
	require.ErrorIs(t, err, category.ErrNameTaken)

	// Renaming to its own name only changes casing.
	name = "FOOD"
	updated, err := s.Update(ctx, first.ID, owner, category.UpdateInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "FOOD", updated.Name)
}
