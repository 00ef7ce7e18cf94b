package service

import (
	"context"
	"testing"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"
	"wallet-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCategoryCreateGlobal(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	store.On("FindActiveByName", ctx, "Food", false).Return(nil, repository.ErrNotFound).Once()
	store.On("Create", ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Food" && !c.IsCustom && c.IsActive && len(c.UserIDsCustom) == 0
	})).Return(nil).Once()

	c, err := svc.Create(ctx, alice, "Food", false)
	require.NoError(t, err)
	assert.Equal(t, "Food", c.Name)
	assert.Equal(t, fixedNow, c.CreatedAt)
	assert.NotEqual(t, uuid.Nil, c.ID)
}

func TestCategoryCreateGlobalConflict(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	existing := models.NewCategory("Food", false, "", fixedNow)
	store.On("FindActiveByName", ctx, "Food", false).Return(existing, nil).Once()

	_, err := svc.Create(ctx, bob, "Food", false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCategoryCreateGlobalLostRace(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	store.On("FindActiveByName", ctx, "Food", false).Return(nil, repository.ErrNotFound).Once()
	store.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

	_, err := svc.Create(ctx, alice, "Food", false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCategoryCreateKeepsNameAsSupplied(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	store.On("FindActiveByName", ctx, "Coffee  Shops ", false).Return(nil, repository.ErrNotFound).Once()
	store.On("Create", ctx, mock.Anything).Return(nil).Once()

	c, err := svc.Create(ctx, alice, "Coffee  Shops ", false)
	require.NoError(t, err)
	assert.Equal(t, "Coffee  Shops ", c.Name)
}

func TestCategoryCreateRejectsBlankName(t *testing.T) {
	svc, _ := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)

	_, err := svc.Create(context.Background(), alice, "   ", false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCategoryCustomJoinsExisting(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	pets := models.NewCategory("Pets", true, "alice", fixedNow)
	joined := *pets
	joined.UserIDsCustom = []string{"alice", "bob"}

	store.On("FindActiveByName", ctx, "Pets", true).Return(pets, nil).Once()
	store.On("AddOwner", ctx, pets.ID, "bob").Return(&joined, nil).Once()

	c, err := svc.Create(ctx, bob, "Pets", true)
	require.NoError(t, err)
	assert.Equal(t, pets.ID, c.ID)
	assert.ElementsMatch(t, []string{"alice", "bob"}, c.UserIDsCustom)
}

func TestCategoryCustomCreatesWithCallerAsOwner(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	store.On("FindActiveByName", ctx, "Pets", true).Return(nil, repository.ErrNotFound).Once()
	store.On("Create", ctx, mock.Anything).Return(nil).Once()

	c, err := svc.Create(ctx, alice, "Pets", true)
	require.NoError(t, err)
	assert.True(t, c.IsCustom)
	assert.Equal(t, []string{"alice"}, c.UserIDsCustom)
}

func TestCategoryListPicksViewByRole(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	all := []*models.Category{models.NewCategory("Food", false, "", fixedNow)}
	store.On("ListAll", ctx).Return(all, nil).Once()
	store.On("List", ctx, policy.VisibleTo("alice")).Return([]*models.Category{}, nil).Once()

	got, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		c := models.NewCategory("Food", false, "", fixedNow)
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		store.On("Replace", ctx, c).Return(nil).Once()

		got, err := svc.Update(ctx, alice, c.ID, models.CategoryPatch{Name: ptr("Groceries")})
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got.Name)
		assert.True(t, got.IsActive)
	})

	t.Run("making global clears owners", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		c := models.NewCategory("Pets", true, "alice", fixedNow)
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		store.On("Replace", ctx, c).Return(nil).Once()

		got, err := svc.Update(ctx, alice, c.ID, models.CategoryPatch{IsCustom: ptr(false)})
		require.NoError(t, err)
		assert.False(t, got.IsCustom)
		assert.Empty(t, got.UserIDsCustom)
	})

	t.Run("making custom adopts caller", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		c := models.NewCategory("Pets", false, "", fixedNow)
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		store.On("Replace", ctx, c).Return(nil).Once()

		got, err := svc.Update(ctx, bob, c.ID, models.CategoryPatch{IsCustom: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, got.UserIDsCustom)
	})

	t.Run("is_active true is ignored", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		c := models.NewCategory("Food", false, "", fixedNow)
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		store.On("Replace", ctx, c).Return(nil).Once()

		got, err := svc.Update(ctx, alice, c.ID, models.CategoryPatch{IsActive: ptr(true)})
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	})

	t.Run("inactive is not found", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		c := models.NewCategory("Food", false, "", fixedNow)
		c.IsActive = false
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		_, err := svc.Update(ctx, alice, c.ID, models.CategoryPatch{Name: ptr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		id := uuid.New()
		store.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Update(ctx, alice, id, models.CategoryPatch{Name: ptr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owner policy denies stranger", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.OwnerOrAdminOnly)
		c := models.NewCategory("Pets", true, "alice", fixedNow)
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		_, err := svc.Update(ctx, bob, c.ID, models.CategoryPatch{Name: ptr("x")})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("owner policy lets admin edit global", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.OwnerOrAdminOnly)
		c := models.NewCategory("Food", false, "", fixedNow)
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		store.On("Replace", ctx, c).Return(nil).Once()

		_, err := svc.Update(ctx, admin, c.ID, models.CategoryPatch{Name: ptr("Meals")})
		assert.NoError(t, err)
	})
}

func TestCategoryInactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("active", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		c := models.NewCategory("Food", false, "", fixedNow)
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()
		store.On("Inactivate", ctx, c.ID).Return(nil).Once()

		assert.NoError(t, svc.Inactivate(ctx, alice, c.ID))
	})

	t.Run("already inactive is a no-op", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		c := models.NewCategory("Food", false, "", fixedNow)
		c.IsActive = false
		store.On("GetByID", ctx, c.ID).Return(c, nil).Once()

		assert.NoError(t, svc.Inactivate(ctx, alice, c.ID))
	})

	t.Run("missing", func(t *testing.T) {
		svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
		id := uuid.New()
		store.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound).Once()

		assert.ErrorIs(t, svc.Inactivate(ctx, alice, id), ErrNotFound)
	})
}

func TestCategoryCountScopesNonAdmins(t *testing.T) {
	svc, store := newCategoryService(t, policy.AnyAuthenticatedCallerMayEdit)
	ctx := context.Background()

	vis := policy.VisibleTo("alice")
	store.On("Count", ctx, (*policy.Visibility)(nil)).Return(int64(7), nil).Once()
	store.On("Count", ctx, &vis).Return(int64(3), nil).Once()

	n, err := svc.Count(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = svc.Count(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Food", want: "Food"},
		{in: "  Eating   out ", want: "  Eating   out "},
		{in: "\xffCafe", want: "Cafe"},
		{in: "", wantErr: true},
		{in: " \t ", wantErr: true},
	}

	for _, tt := range tests {
		got, err := validateName(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
