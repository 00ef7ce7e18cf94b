package repository

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"
	"wallet-ledger/pkg/config"
	"wallet-ledger/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("wallet"),
		tcpostgres.WithUsername("wallet"),
		tcpostgres.WithPassword("wallet"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "wallet",
		Password: "wallet",
		DBName:   "wallet",
		SSLMode:  "disable",
	}
	logger := zap.NewNop()
	require.NoError(t, postgres.MigrateUp(cfg, logger))

	pool, err := postgres.NewPool(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestRepositories(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	logger := zap.NewNop()

	categories := NewCategoryRepository(db, logger)
	subCategories := NewSubCategoryRepository(db, logger)
	transactions := NewTransactionRepository(db, logger)
	users := NewUserRepository(db, logger)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("category visibility", func(t *testing.T) {
		food := models.NewCategory("Food", false, "", base)
		pets := models.NewCategory("Pets", true, "u1", base)
		cars := models.NewCategory("Cars", true, "u2", base)
		for _, c := range []*models.Category{food, pets, cars} {
			require.NoError(t, categories.Create(ctx, c))
		}

		visible, err := categories.List(ctx, policy.VisibleTo("u1"))
		require.NoError(t, err)
		names := make([]string, 0, len(visible))
		for _, c := range visible {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "Food")
		assert.Contains(t, names, "Pets")
		assert.NotContains(t, names, "Cars")

		vis := policy.VisibleTo("u1")
		n, err := categories.Count(ctx, &vis)
		require.NoError(t, err)
		assert.Equal(t, int64(len(visible)), n)

		require.NoError(t, categories.Inactivate(ctx, food.ID))
		visible, err = categories.List(ctx, policy.VisibleTo("u1"))
		require.NoError(t, err)
		for _, c := range visible {
			assert.NotEqual(t, food.ID, c.ID)
		}

		got, err := categories.GetByID(ctx, food.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		all, err := categories.ListAll(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 3)
	})

	t.Run("category unique while active", func(t *testing.T) {
		first := models.NewCategory("Travel", false, "", base)
		require.NoError(t, categories.Create(ctx, first))

		err := categories.Create(ctx, models.NewCategory("Travel", false, "", base))
		assert.ErrorIs(t, err, ErrDuplicate)

		require.NoError(t, categories.Inactivate(ctx, first.ID))
		assert.NoError(t, categories.Create(ctx, models.NewCategory("Travel", false, "", base.Add(time.Hour))))

		oldest, err := categories.GetByName(ctx, "Travel")
		require.NoError(t, err)
		assert.Equal(t, first.ID, oldest.ID)
	})

	t.Run("add owner is idempotent", func(t *testing.T) {
		c := models.NewCategory("Hobbies", true, "u1", base)
		require.NoError(t, categories.Create(ctx, c))

		got, err := categories.AddOwner(ctx, c.ID, "u2")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"u1", "u2"}, got.UserIDsCustom)

		got, err = categories.AddOwner(ctx, c.ID, "u2")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"u1", "u2"}, got.UserIDsCustom)

		found, err := categories.FindActiveByName(ctx, "Hobbies", true)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)

		_, err = categories.AddOwner(ctx, uuid.New(), "u2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("custom names may repeat", func(t *testing.T) {
		mine := models.NewCategory("Garden", true, "u1", base)
		theirs := models.NewCategory("Yard", true, "u2", base)
		require.NoError(t, categories.Create(ctx, mine))
		require.NoError(t, categories.Create(ctx, theirs))

		mine.Name = "Yard"
		mine.UpdatedAt = base.Add(time.Minute)
		require.NoError(t, categories.Replace(ctx, mine))
		assert.NoError(t, categories.Create(ctx, models.NewCategory("Yard", true, "u3", base)))

		sub := models.NewSubCategory(theirs.ID, "Tools", true, "u1", base)
		require.NoError(t, subCategories.Create(ctx, sub))
		require.NoError(t, subCategories.Create(ctx, models.NewSubCategory(theirs.ID, "Seeds", true, "u2", base)))
		sub.Name = "Seeds"
		require.NoError(t, subCategories.Replace(ctx, sub))

		seeds, err := subCategories.ListByCategory(ctx, theirs.ID)
		require.NoError(t, err)
		require.Len(t, seeds, 2)
		for _, sc := range seeds {
			assert.Equal(t, "Seeds", sc.Name)
			assert.True(t, sc.IsActive)
		}
	})

	t.Run("category replace round trip", func(t *testing.T) {
		c := models.NewCategory("Gifts", false, "", base)
		require.NoError(t, categories.Create(ctx, c))

		c.Name = "Presents"
		c.UpdatedAt = base.Add(time.Minute)
		require.NoError(t, categories.Replace(ctx, c))

		got, err := categories.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Presents", got.Name)
		assert.Empty(t, got.UserIDsCustom)

		assert.ErrorIs(t, categories.Replace(ctx, models.NewCategory("Ghost", false, "", base)), ErrNotFound)
	})

	t.Run("subcategories scoped to category", func(t *testing.T) {
		home := models.NewCategory("Home", false, "", base)
		work := models.NewCategory("Work", false, "", base)
		require.NoError(t, categories.Create(ctx, home))
		require.NoError(t, categories.Create(ctx, work))

		rent := models.NewSubCategory(home.ID, "Rent", false, "", base)
		plants := models.NewSubCategory(home.ID, "Plants", true, "u1", base)
		lunch := models.NewSubCategory(work.ID, "Lunch", false, "", base)
		for _, sc := range []*models.SubCategory{rent, plants, lunch} {
			require.NoError(t, subCategories.Create(ctx, sc))
		}

		forU1, err := subCategories.List(ctx, policy.VisibleTo("u1").Within(home.ID))
		require.NoError(t, err)
		assert.Len(t, forU1, 2)

		forU2, err := subCategories.List(ctx, policy.VisibleTo("u2").Within(home.ID))
		require.NoError(t, err)
		require.Len(t, forU2, 1)
		assert.Equal(t, rent.ID, forU2[0].ID)

		err = subCategories.Create(ctx, models.NewSubCategory(home.ID, "Rent", false, "", base))
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, subCategories.Create(ctx, models.NewSubCategory(work.ID, "Rent", false, "", base)))

		found, err := subCategories.FindActiveByName(ctx, home.ID, "Plants", true)
		require.NoError(t, err)
		assert.Equal(t, plants.ID, found.ID)

		require.NoError(t, subCategories.Inactivate(ctx, plants.ID))
		underHome, err := subCategories.ListByCategory(ctx, home.ID)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(underHome))
		for _, sc := range underHome {
			ids = append(ids, sc.ID)
		}
		assert.ElementsMatch(t, []uuid.UUID{rent.ID, plants.ID}, ids)
	})

	t.Run("net amount and ranking", func(t *testing.T) {
		parent := models.NewCategory("Ledger", false, "", base)
		require.NoError(t, categories.Create(ctx, parent))
		a := models.NewSubCategory(parent.ID, "A", false, "", base)
		b := models.NewSubCategory(parent.ID, "B", false, "", base)
		c := models.NewSubCategory(parent.ID, "C", false, "", base)
		for _, sc := range []*models.SubCategory{a, b, c} {
			require.NoError(t, subCategories.Create(ctx, sc))
		}

		record := func(sub uuid.UUID, amount int64, typ models.TransactionType, at time.Time) *models.WalletTransaction {
			tx := &models.WalletTransaction{
				ID:              uuid.New(),
				UserID:          "ledger-user",
				SubCategoryID:   sub,
				Amount:          amount,
				OnTime:          at,
				TransactionType: typ,
				IsActive:        true,
				CreatedAt:       at,
				UpdatedAt:       at,
			}
			require.NoError(t, transactions.Create(ctx, tx))
			return tx
		}

		net, err := transactions.NetAmount(ctx, "ledger-user")
		require.NoError(t, err)
		assert.Equal(t, int64(0), net)

		record(a.ID, 100, models.TransactionTypeIncome, base)
		record(a.ID, 30, models.TransactionTypeExpense, base.Add(time.Minute))
		record(a.ID, 10, models.TransactionTypeExpense, base.Add(2*time.Minute))
		record(b.ID, 5, models.TransactionTypeExpense, base.Add(3*time.Minute))
		record(b.ID, 5, models.TransactionTypeIncome, base.Add(4*time.Minute))
		record(c.ID, 0, models.TransactionTypeExpense, base.Add(5*time.Minute))
		dropped := record(c.ID, 1000, models.TransactionTypeExpense, base.Add(6*time.Minute))
		require.NoError(t, transactions.Inactivate(ctx, dropped.ID))

		net, err = transactions.NetAmount(ctx, "ledger-user")
		require.NoError(t, err)
		assert.Equal(t, int64(60), net)

		usage, err := transactions.TopSubCategories(ctx, "ledger-user", 5)
		require.NoError(t, err)
		require.Len(t, usage, 3)
		assert.Equal(t, a.ID, usage[0].SubCategoryID)
		assert.Equal(t, int64(3), usage[0].Uses)
		assert.Equal(t, b.ID, usage[1].SubCategoryID)
		assert.Equal(t, c.ID, usage[2].SubCategoryID)
		assert.Equal(t, int64(1), usage[2].Uses)

		mine, err := transactions.ListByUser(ctx, "ledger-user")
		require.NoError(t, err)
		assert.Len(t, mine, 6)

		got, err := transactions.GetByID(ctx, dropped.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("ledger totals and top five", func(t *testing.T) {
		parent := models.NewCategory("Budget", false, "", base)
		require.NoError(t, categories.Create(ctx, parent))
		subs := make([]*models.SubCategory, 7)
		for i := range subs {
			subs[i] = models.NewSubCategory(parent.ID, string(rune('P'+i)), false, "", base)
			require.NoError(t, subCategories.Create(ctx, subs[i]))
		}

		at := base
		record := func(userID string, sub uuid.UUID, amount int64, typ models.TransactionType) *models.WalletTransaction {
			at = at.Add(time.Minute)
			tx := &models.WalletTransaction{
				ID: uuid.New(), UserID: userID, SubCategoryID: sub, Amount: amount, OnTime: at,
				TransactionType: typ, IsActive: true, CreatedAt: at, UpdatedAt: at,
			}
			require.NoError(t, transactions.Create(ctx, tx))
			return tx
		}

		record("net-user", subs[0].ID, 100, models.TransactionTypeIncome)
		record("net-user", subs[0].ID, 30, models.TransactionTypeExpense)
		bonus := record("net-user", subs[0].ID, 1000, models.TransactionTypeIncome)
		require.NoError(t, transactions.Inactivate(ctx, bonus.ID))

		net, err := transactions.NetAmount(ctx, "net-user")
		require.NoError(t, err)
		assert.Equal(t, int64(70), net)

		a, b, c := subs[0].ID, subs[1].ID, subs[2].ID
		for _, sub := range []uuid.UUID{a, a, a, b, b, c} {
			record("rank-user", sub, 1, models.TransactionTypeExpense)
		}
		usage, err := transactions.TopSubCategories(ctx, "rank-user", 5)
		require.NoError(t, err)
		ranked := make([]uuid.UUID, 0, len(usage))
		for _, u := range usage {
			ranked = append(ranked, u.SubCategoryID)
		}
		assert.Equal(t, []uuid.UUID{a, b, c}, ranked)

		for _, sc := range subs {
			record("busy-user", sc.ID, 1, models.TransactionTypeExpense)
		}
		usage, err = transactions.TopSubCategories(ctx, "busy-user", 5)
		require.NoError(t, err)
		require.Len(t, usage, 5)
		for i, u := range usage {
			assert.Equal(t, subs[i].ID, u.SubCategoryID)
			assert.Equal(t, int64(1), u.Uses)
		}
	})

	t.Run("hard remove", func(t *testing.T) {
		c := models.NewCategory("Scratch", false, "", base)
		require.NoError(t, categories.Create(ctx, c))
		sc := models.NewSubCategory(c.ID, "Scratch", false, "", base)
		require.NoError(t, subCategories.Create(ctx, sc))
		tx := &models.WalletTransaction{
			ID: uuid.New(), UserID: "scratch", SubCategoryID: sc.ID, OnTime: base,
			TransactionType: models.TransactionTypeIncome, IsActive: true, CreatedAt: base, UpdatedAt: base,
		}
		require.NoError(t, transactions.Create(ctx, tx))

		require.NoError(t, transactions.Remove(ctx, tx.ID))
		require.NoError(t, subCategories.Remove(ctx, sc.ID))
		require.NoError(t, categories.Remove(ctx, c.ID))

		_, err := categories.GetByID(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = subCategories.GetByID(ctx, sc.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = transactions.GetByID(ctx, tx.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, categories.Remove(ctx, c.ID), ErrNotFound)
	})

	t.Run("user roles", func(t *testing.T) {
		u := &models.User{
			ID:        uuid.New(),
			Username:  "ann",
			Email:     "ann@example.com",
			Password:  "hash",
			Roles:     []string{"USER"},
			CreatedAt: base,
			UpdatedAt: base,
		}
		require.NoError(t, users.Create(ctx, u))
		assert.ErrorIs(t, users.Create(ctx, &models.User{ID: uuid.New(), Username: "x", Email: u.Email, Password: "h", Roles: []string{}}), ErrDuplicate)

		got, err := users.AddRole(ctx, u.ID, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, []string{"USER", "ADMIN"}, got.Roles)

		got, err = users.AddRole(ctx, u.ID, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, []string{"USER", "ADMIN"}, got.Roles)

		_, err = users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
