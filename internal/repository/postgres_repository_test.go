package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/migrations"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/database"
)

func skipIfNoPostgres(t *testing.T) *database.PostgresDB {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test - set INTEGRATION_TEST=true to run")
	}

	cfg := database.DefaultPostgresConfig()
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port, err := strconv.Atoi(os.Getenv("TEST_DB_PORT")); err == nil {
		cfg.Port = port
	}
	cfg.Password = os.Getenv("TEST_DB_PASSWORD")
	if name := os.Getenv("TEST_DB_DATABASE"); name != "" {
		cfg.Database = name
	}
	cfg.MaxRetries = 0

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping integration test - Postgres not available: %v", err)
	}
	require.NoError(t, migrations.Up(ctx, db.Pool()))
	t.Cleanup(db.Close)
	return db
}

func TestPostgresUserRepository_Integration(t *testing.T) {
	db := skipIfNoPostgres(t)
	repo := NewPostgresUserRepository(db.Pool())
	ctx := context.Background()

	email := fmt.Sprintf("it-%s@example.com", uuid.NewString())
	user := &domain.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     "$2a$10$hash",
		SubscriptionTier: domain.TierFree,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	dup := &domain.User{ID: uuid.NewString(), Email: email, PasswordHash: "x", SubscriptionTier: domain.TierFree}
	err = repo.Create(ctx, dup)
	assert.True(t, errors.Is(err, domain.ErrEmailInUse))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	missing, err := repo.GetByEmail(ctx, "nobody-"+email)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresProductRepository_Integration(t *testing.T) {
	db := skipIfNoPostgres(t)
	repo := NewPostgresProductRepository(db.Pool())
	ctx := context.Background()

	p := &domain.Product{Name: "Desk Lamp", Price: 24.5, Image: "https://img.test/lamp.png"}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	p.Price = 30
	updated, err := repo.Update(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 30.0, updated.Price)
	assert.Equal(t, p.Name, updated.Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, p.ID, list[0].ID)

	deleted, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostgresProductRepository_CreateReturnsStoredPrice(t *testing.T) {
	db := skipIfNoPostgres(t)
	repo := NewPostgresProductRepository(db.Pool())
	ctx := context.Background()

	p := &domain.Product{Name: "Rounded", Price: 19.999, Image: "https://img.test/r.png"}
	require.NoError(t, repo.Create(ctx, p))
	t.Cleanup(func() { _, _ = repo.Delete(ctx, p.ID) })

	assert.Equal(t, 20.0, p.Price, "price reflects NUMERIC(10,2) rounding")
	assert.False(t, p.CreatedAt.IsZero())

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored.Price, p.Price)
}

func TestPostgresRecipeRepository_Integration(t *testing.T) {
	db := skipIfNoPostgres(t)
	users := NewPostgresUserRepository(db.Pool())
	repo := NewPostgresRecipeRepository(db.Pool())
	ctx := context.Background()

	owner := &domain.User{
		ID:               uuid.NewString(),
		Email:            fmt.Sprintf("chef-%s@example.com", uuid.NewString()),
		PasswordHash:     "x",
		SubscriptionTier: domain.TierFree,
	}
	require.NoError(t, users.Create(ctx, owner))

	rec := &domain.SavedRecipe{
		UserID:          owner.ID,
		Title:           "Omelette",
		Ingredients:     []string{"egg", "butter"},
		Instructions:    []string{"whisk", "fry"},
		PrepTimeMinutes: 10,
		Servings:        1,
	}
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, owner.ID, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"egg", "butter"}, got.Ingredients)

	other, err := repo.GetByID(ctx, uuid.NewString(), rec.ID)
	require.NoError(t, err)
	assert.Nil(t, other)

	deleted, err := repo.Delete(ctx, owner.ID, rec.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
